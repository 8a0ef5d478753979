/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suparena/metastore/datastore"
	"github.com/suparena/metastore/meta"
	"github.com/suparena/metastore/storagemodels"
)

// DumpOptions holds options for the dump command.
type DumpOptions struct {
	*RootOptions
	Store    string
	Prefix   string
	PageSize int32
}

// DumpRecord is the JSON shape of one streamed record.
type DumpRecord struct {
	Field     string `json:"field"`
	Indices   []int  `json:"indices"`
	Kind      string `json:"kind"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump --store STORE",
		Short: "Print every value stored under a store's root",
		Long: `Stream every stored record of one backing store, ordered by field and
index tuple. --prefix restricts the output to matching field identifiers.`,
		Example: `  metactl dump --store disk
  metactl dump --store archive --prefix Channel. --format json`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "store name (required)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "only fields starting with this prefix")
	cmd.Flags().Int32Var(&opts.PageSize, "page-size", 100, "records fetched per backend page")
	return cmd
}

func runDump(cmd *cobra.Command, opts *DumpOptions) error {
	if opts.Store == "" {
		return NewExitError(ExitCommandError, "--store is required")
	}
	a, err := opts.openAssembly(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := storeNamed(a, opts.Store)
	if err != nil {
		return err
	}
	b, ok := m.(datastore.Backend)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("store %s cannot be streamed", opts.Store))
	}

	stream := b.Stream(cmd.Context(),
		storagemodels.WithPrefix(opts.Prefix),
		storagemodels.WithPageSize(opts.PageSize),
	)

	records := []DumpRecord{}
	var text strings.Builder
	for res := range stream {
		if res.Error != nil {
			return WrapExitError(ExitFailure, "stream records", res.Error)
		}
		rec, err := dumpRecord(res.Item)
		if err != nil {
			return WrapExitError(ExitFailure, "decode record", err)
		}
		records = append(records, rec)
		if text.Len() > 0 {
			text.WriteByte('\n')
		}
		fmt.Fprintf(&text, "%s%v\t%s\t%s", rec.Field, rec.Indices, rec.Kind, rec.Value)
	}
	opts.formatter(cmd).VerboseLog("%d records", len(records))
	return opts.formatter(cmd).Result(text.String(), records)
}

func dumpRecord(r storagemodels.Record) (DumpRecord, error) {
	indices, err := r.Tuple()
	if err != nil {
		return DumpRecord{}, err
	}
	v, err := meta.Decode(r.Kind, r.Value)
	if err != nil {
		return DumpRecord{}, err
	}
	rec := DumpRecord{
		Field:   r.Field,
		Indices: indices,
		Kind:    r.Kind,
		Value:   v.String(),
	}
	if !r.UpdatedAt.IsZero() {
		rec.UpdatedAt = r.UpdatedAt.String()
	}
	return rec, nil
}
