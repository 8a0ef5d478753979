/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/schema"
)

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	*RootOptions
	From string
	To   string
}

// ConvertResult is the JSON shape of a finished conversion.
type ConvertResult struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Copied int    `json:"copied"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert --from STORE --to STORE",
		Short: "Copy every present value from one store to another",
		Long: `Walk the catalogue over the source store and copy every present value
into the destination, creating the destination root first. Values already
in the destination are overwritten; values absent from the source are left
untouched.`,
		Example:       `  metactl convert --from disk --to archive`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "source store name (required)")
	cmd.Flags().StringVar(&opts.To, "to", "", "destination store name (required)")
	return cmd
}

func runConvert(cmd *cobra.Command, opts *ConvertOptions) error {
	if opts.From == "" || opts.To == "" {
		return NewExitError(ExitCommandError, "--from and --to are required")
	}
	if opts.From == opts.To {
		return NewExitError(ExitCommandError, "--from and --to must name different stores")
	}

	a, err := opts.openAssembly(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	src, err := storeNamed(a, opts.From)
	if err != nil {
		return err
	}
	dst, err := storeNamed(a, opts.To)
	if err != nil {
		return err
	}

	n, err := meta.Convert(cmd.Context(), src, dst, schema.Default())
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("convert %s to %s", opts.From, opts.To), err)
	}
	return opts.formatter(cmd).Result(
		fmt.Sprintf("copied %d values from %s to %s", n, opts.From, opts.To),
		ConvertResult{From: opts.From, To: opts.To, Copied: n},
	)
}
