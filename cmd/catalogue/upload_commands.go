package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/phage-catalogue/platform/pkg/spreadsheet"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("spreadsheet has validation errors")

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.xlsx>",
		Short: "Check an upload spreadsheet against the catalogue without saving anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := spreadsheet.OpenFile(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.ensureApp()
			if err != nil {
				return err
			}

			messages, err := a.Uploads.Validate(cmd.Context(), source)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(messages) == 0 {
				fmt.Fprintf(out, "%s: %d rows, no problems found\n", filepath.Base(args[0]), source.Len())
				return nil
			}
			fmt.Fprintln(out, messageTable(messages))
			return errValidationFailed
		},
	}
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Upload a spreadsheet and save its specimens when it is valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open spreadsheet: %w", err)
			}
			defer f.Close()

			upload, uploadErr := a.Uploads.Upload(cmd.Context(), filepath.Base(args[0]), f)
			if upload == nil {
				return uploadErr
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Upload", "File", "Status", "Created", "Updated"},
				[][]string{{
					strconv.FormatUint(uint64(upload.ID), 10),
					upload.Filename,
					upload.Status,
					strconv.Itoa(upload.Created),
					strconv.Itoa(upload.Updated),
				}},
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
			))
			if upload.IsError() {
				fmt.Fprintln(out, messageTable(upload.ErrorList()))
				if uploadErr != nil {
					return uploadErr
				}
				return errValidationFailed
			}
			return uploadErr
		},
	}
}
