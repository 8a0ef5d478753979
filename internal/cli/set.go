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

// SetOptions holds options for the set and unset commands.
type SetOptions struct {
	*RootOptions
	Store string
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set FIELD VALUE [INDEX...]",
		Short: "Write one field value",
		Long: `Parse VALUE according to the field's kind and write it at the given
index tuple. Without --store the value passes the write filter and reaches
every writable store. Binary values are base64 encoded, timestamps RFC 3339.`,
		Example: `  metactl set Image.Name "Cy5 stack" 0
  metactl set Pixels.SizeX 512 0 --store disk`,
		Args:          usageArgs(cobra.MinimumNArgs(2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := schema.Default().Require(schema.FieldID(args[0]))
			if err != nil {
				return WrapExitError(ExitCommandError, "unknown field", err)
			}
			v, err := meta.ParseValue(f, args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid value", err)
			}
			return runSet(cmd, opts, f.ID, v, args[2:])
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "write to one named store only, bypassing the filter")
	return cmd
}

// NewUnsetCommand creates the unset command.
func NewUnsetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "unset FIELD [INDEX...]",
		Short:         "Remove one field value",
		Args:          usageArgs(cobra.MinimumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := schema.Default().Require(schema.FieldID(args[0]))
			if err != nil {
				return WrapExitError(ExitCommandError, "unknown field", err)
			}
			return runSet(cmd, opts, f.ID, meta.Absent(), args[1:])
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "remove from one named store only")
	return cmd
}

func runSet(cmd *cobra.Command, opts *SetOptions, id schema.FieldID, v meta.Value, rest []string) error {
	indices, err := parseIndices(rest)
	if err != nil {
		return err
	}

	a, err := opts.openAssembly(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var dst meta.Store = a.Writer()
	if opts.Store != "" {
		if dst, err = storeNamed(a, opts.Store); err != nil {
			return err
		}
	}

	if err := dst.Set(cmd.Context(), id, v, indices...); err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("set %s", id), err)
	}
	opts.formatter(cmd).VerboseLog("wrote %s %v", id, indices)
	return opts.formatter(cmd).Result("ok", valueResult(id, indices, v))
}
