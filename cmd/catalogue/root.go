package main

import (
	"strings"
	"sync"

	"github.com/phage-catalogue/platform/pkg/app"
	"github.com/phage-catalogue/platform/pkg/common/config"
	"github.com/phage-catalogue/platform/pkg/common/logger"
	"github.com/phage-catalogue/platform/pkg/schema"
	"github.com/spf13/cobra"
)

type commandContext struct {
	schemaFlag *string

	appOnce sync.Once
	app     *app.App
	appErr  error
}

func newCommandContext(schemaFlag *string) *commandContext {
	return &commandContext{schemaFlag: schemaFlag}
}

func (c *commandContext) config() *config.Config {
	cfg := config.Load()
	if c.schemaFlag != nil && strings.TrimSpace(*c.schemaFlag) != "" {
		cfg.ColumnSchemaPath = strings.TrimSpace(*c.schemaFlag)
	}
	return cfg
}

func (c *commandContext) catalogue() (schema.Catalogue, error) {
	return schema.Load(c.config().ColumnSchemaPath)
}

// ensureApp connects to the database and migrates it once per process.
func (c *commandContext) ensureApp() (*app.App, error) {
	c.appOnce.Do(func() {
		a, err := app.New(c.config())
		if err != nil {
			c.appErr = err
			return
		}
		if err := a.Migrate(); err != nil {
			a.Close()
			c.appErr = err
			return
		}
		c.app = a
	})
	return c.app, c.appErr
}

func (c *commandContext) close() {
	if c.app != nil {
		c.app.Close()
	}
}

func newRootCommand() *cobra.Command {
	var schemaFlag string
	ctx := newCommandContext(&schemaFlag)

	rootCmd := &cobra.Command{
		Use:           "catalogue",
		Short:         "Specimen catalogue operator tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&schemaFlag, "schema", "", "Column schema file (defaults to COLUMN_SCHEMA_PATH or the built-in columns)")

	rootCmd.AddCommand(newValidateCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newTemplateCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newLookupsCommand(ctx))

	return rootCmd
}
