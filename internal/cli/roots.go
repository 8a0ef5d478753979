/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suparena/metastore/meta"
)

// RootsOptions holds options for the root subcommands.
type RootsOptions struct {
	*RootOptions
	Store string
}

// RootResult is the JSON shape of a store's root binding.
type RootResult struct {
	Store string `json:"store"`
	Root  string `json:"root,omitempty"`
	Bound bool   `json:"bound"`
}

type rootLister interface {
	Roots(ctx context.Context) ([]string, error)
}

// NewRootsCommand creates the root command group.
func NewRootsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RootsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "root",
		Short: "Manage the root object a store is bound to",
		Long: `Every store keeps its values under one root object. Persistent stores
generate a root identifier on first write unless root_id is configured;
use "root create" to mint one explicitly and record it in the configuration.`,
	}
	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "store name (required)")

	cmd.AddCommand(&cobra.Command{
		Use:           "create",
		Short:         "Create the store's root if it has none and print it",
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(ctx context.Context, m meta.Metadata) error {
				if err := m.CreateRoot(ctx); err != nil {
					return WrapExitError(ExitFailure, "create root", err)
				}
				return showRoot(ctx, cmd, opts, m)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Print the root the store is bound to",
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(ctx context.Context, m meta.Metadata) error {
				return showRoot(ctx, cmd, opts, m)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List every root recorded in a persistent store",
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(ctx context.Context, m meta.Metadata) error {
				l, ok := m.(rootLister)
				if !ok {
					return NewExitError(ExitCommandError, "store "+opts.Store+" does not record roots")
				}
				roots, err := l.Roots(ctx)
				if err != nil {
					return WrapExitError(ExitFailure, "list roots", err)
				}
				return opts.formatter(cmd).Result(strings.Join(roots, "\n"), roots)
			})
		},
	})
	return cmd
}

func withStore(cmd *cobra.Command, opts *RootsOptions, fn func(context.Context, meta.Metadata) error) error {
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
	return fn(cmd.Context(), m)
}

func showRoot(ctx context.Context, cmd *cobra.Command, opts *RootsOptions, m meta.Metadata) error {
	root, err := m.GetRoot(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "get root", err)
	}
	res := RootResult{Store: opts.Store}
	text := "<none>"
	if root != nil {
		res.Bound = true
		res.Root = root.RootID()
		text = res.Root
	}
	return opts.formatter(cmd).Result(text, res)
}
