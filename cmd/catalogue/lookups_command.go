package main

import (
	"fmt"
	"strconv"

	"github.com/phage-catalogue/platform/pkg/lookups"
	"github.com/spf13/cobra"
)

func newLookupsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookups",
		Short: "Inspect and seed lookup values",
	}
	cmd.AddCommand(newLookupsListCommand(ctx))
	cmd.AddCommand(newLookupsSeedCommand(ctx))
	return cmd
}

func newLookupsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List the registered values of one lookup kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := lookups.ParseKind(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			names, err := a.Lookups.Choices(cmd.Context(), kind)
			if err != nil {
				return err
			}
			rows := make([][]string, len(names))
			for i, name := range names {
				rows[i] = []string{strconv.Itoa(i + 1), name}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", string(kind)}, rows, []columnAlignment{alignRight, alignLeft}))
			return nil
		},
	}
}

// Species must be seeded before uploads can reference them; every other kind
// is created on demand.
func newLookupsSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <kind> <name>...",
		Short: "Register lookup values, skipping ones that already exist",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := lookups.ParseKind(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			created, err := a.Lookups.Seed(cmd.Context(), kind, args[1:])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %d new %s values\n", created, kind)
			return nil
		},
	}
}
