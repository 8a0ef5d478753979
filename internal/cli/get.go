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

// GetOptions holds options for the get command.
type GetOptions struct {
	*RootOptions
	Store string
}

// ValueResult is the JSON shape of one read or written value.
type ValueResult struct {
	Field   string `json:"field"`
	Indices []int  `json:"indices"`
	Kind    string `json:"kind"`
	Present bool   `json:"present"`
	Value   string `json:"value,omitempty"`
}

func valueResult(id schema.FieldID, indices []int, v meta.Value) ValueResult {
	r := ValueResult{Field: string(id), Indices: indices, Kind: v.Kind().String(), Present: v.IsPresent()}
	if r.Present {
		r.Value = v.String()
	}
	return r
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get FIELD [INDEX...]",
		Short: "Read one field value",
		Long: `Read a field value at the given index tuple. Without --store the value
is resolved across all readable stores in precedence order. Absent values
print as <absent>.`,
		Example: `  metactl get Image.Name 0
  metactl get Channel.Count 0 --store disk`,
		Args:          usageArgs(cobra.MinimumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "read from one named store only")
	return cmd
}

func runGet(cmd *cobra.Command, opts *GetOptions, args []string) error {
	id := schema.FieldID(args[0])
	if _, err := schema.Default().Require(id); err != nil {
		return WrapExitError(ExitCommandError, "unknown field", err)
	}
	indices, err := parseIndices(args[1:])
	if err != nil {
		return err
	}

	a, err := opts.openAssembly(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var src meta.Retrieve = a.Reader()
	if opts.Store != "" {
		if src, err = storeNamed(a, opts.Store); err != nil {
			return err
		}
	}

	v, err := src.Get(cmd.Context(), id, indices...)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("get %s", id), err)
	}
	return opts.formatter(cmd).Result(v.String(), valueResult(id, indices, v))
}
