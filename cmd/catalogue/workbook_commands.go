package main

import (
	"fmt"
	"os"

	"github.com/phage-catalogue/platform/pkg/specimens"
	"github.com/phage-catalogue/platform/pkg/spreadsheet"
	"github.com/phage-catalogue/platform/pkg/uploads"
	"github.com/spf13/cobra"
)

func newTemplateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "template <out.xlsx>",
		Short: "Write an empty upload spreadsheet with every expected column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue, err := ctx.catalogue()
			if err != nil {
				return err
			}
			if err := writeWorkbook(args[0], catalogue.UploadAll.Names(), nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote template with %d columns to %s\n", catalogue.UploadAll.Len(), args[0])
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "export <out.xlsx>",
		Short: "Write specimens as an upload spreadsheet keyed for re-import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := specimens.Kind(kind)
			if filter != "" && !filter.Valid() {
				return fmt.Errorf("unknown specimen type %q", kind)
			}
			a, err := ctx.ensureApp()
			if err != nil {
				return err
			}

			set := a.Catalogue.UploadAll
			var rows [][]interface{}
			err = specimens.NewRepository(a.DB).Each(cmd.Context(), func(s *specimens.Specimen) error {
				if filter == "" || s.Kind == filter {
					rows = append(rows, uploads.Cells(s.Fields(), set))
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("read specimens: %w", err)
			}

			if err := writeWorkbook(args[0], set.Names(), rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d specimens to %s\n", len(rows), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "type", "", "Only export Bacterium or Phage specimens")
	return cmd
}

func writeWorkbook(path string, headers []string, rows [][]interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := spreadsheet.Write(f, headers, rows); err != nil {
		f.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	return f.Close()
}
