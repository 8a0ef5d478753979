/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suparena/metastore/schema"
)

// FieldInfo is the JSON shape of one catalogue entry.
type FieldInfo struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Indices []string `json:"indices,omitempty"`
	Enum    []string `json:"enum,omitempty"`
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fields [entity]",
		Short: "List the fields of the catalogue",
		Long: `List every field of the embedded catalogue with its kind and index
names. With an entity argument only that entity's fields are listed.`,
		Example: `  metactl fields
  metactl fields Channel --format json`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := schema.Default()
			fields := reg.Fields()
			if len(args) == 1 {
				if _, ok := reg.Entity(args[0]); !ok {
					return NewExitError(ExitCommandError, fmt.Sprintf("unknown entity %q", args[0]))
				}
				fields = reg.FieldsOf(args[0])
			}

			infos := make([]FieldInfo, 0, len(fields))
			var text strings.Builder
			for i, f := range fields {
				infos = append(infos, FieldInfo{
					ID:      string(f.ID),
					Kind:    string(f.Kind),
					Indices: f.Indices,
					Enum:    f.Enum,
				})
				if i > 0 {
					text.WriteByte('\n')
				}
				fmt.Fprintf(&text, "%s\t%s\t[%s]", f.ID, f.Kind, strings.Join(f.Indices, ","))
				if len(f.Enum) > 0 {
					fmt.Fprintf(&text, "\t%s", strings.Join(f.Enum, "|"))
				}
			}
			return rootOpts.formatter(cmd).Result(text.String(), infos)
		},
	}
}
