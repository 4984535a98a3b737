// Command sqlforge compiles a YAML file of portable statements into the
// SQL of one dialect, without connecting to a database.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/sqlforge/dialect"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	verbose bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "sqlforge",
		Short: "Compile portable statements into dialect SQL",
		Long: `sqlforge renders inserts, upserts, updates, deletes and DDL described in a
YAML file as the SQL of MySQL/MariaDB, PostgreSQL, Oracle, SQL Server or SQLite.
Table metadata declared in the file stands in for the database schema.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level:     level,
				AddSource: opts.verbose,
			}))
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	root.AddCommand(newRenderCmd(opts), newTypesCmd(opts))
	return root
}

func newTypesCmd(opts *options) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Print the physical type of every abstract column type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			qb, err := newQueryBuilder(name, nil)
			if err != nil {
				return err
			}
			opts.logger.Debug("resolving types", "dialect", qb.Dialect())
			return printTypes(cmd.Context(), cmd.OutOrStdout(), qb)
		},
	}
	cmd.Flags().StringVarP(&name, "dialect", "d", dialect.MySQL, "Target dialect")
	return cmd
}

func newRenderCmd(opts *options) *cobra.Command {
	var (
		file string
		name string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the statements of a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(file)
			if err != nil {
				return err
			}
			if name != "" {
				cfg.Dialect = name
			}
			conn, err := cfg.connection(opts.logger)
			if err != nil {
				return err
			}
			qb, err := newQueryBuilder(cfg.Dialect, conn)
			if err != nil {
				return err
			}
			opts.logger.Info("rendering statements",
				"file", file,
				"dialect", qb.Dialect(),
				"server_version", cfg.ServerVersion,
				"tables", len(cfg.Tables),
				"statements", len(cfg.Statements),
			)
			return render(cmd.Context(), cmd.OutOrStdout(), qb, cfg.Statements, opts.logger)
		},
	}
	cmd.Flags().StringVarP(&file, "config", "c", "", "Path to the statement file (required)")
	cmd.Flags().StringVarP(&name, "dialect", "d", "", "Target dialect, overriding the file")
	cmd.MarkFlagRequired("config")
	return cmd
}
