package cli

import (
	"database/sql"
	"fmt"
	"strings"

	"claim-ledger/internal/cli/output"
	"claim-ledger/internal/config"
	"claim-ledger/internal/logger"
	sqlitestore "claim-ledger/internal/store/sqlite"
	"github.com/spf13/cobra"
)

type RootOptions struct {
	Output     string
	DBPath     string
	LogLevel   string
	SubjectDID string

	db *sql.DB
}

func NewRootCmd() *cobra.Command {
	defaultDBPath, err := config.DefaultDBPath()
	if err != nil {
		defaultDBPath = config.DefaultDBFile
	}

	opts := &RootOptions{
		Output:     output.FormatHuman,
		DBPath:     defaultDBPath,
		LogLevel:   config.EnvOrDefault(config.EnvLogLevel, logger.DefaultLevel),
		SubjectDID: config.EnvOrDefault(config.EnvSubjectDID, ""),
	}

	cmd := &cobra.Command{
		Use:           "claim-ledger",
		Short:         "Reconcile promised and paid amounts from signed claim feeds",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !output.IsValidFormat(opts.Output) {
				err := fmt.Errorf("invalid --output value %q: supported values are %s|%s", opts.Output, output.FormatHuman, output.FormatJSON)
				return reportStartupError(cmd, output.FormatHuman, output.CodeConfigError, err)
			}
			opts.Output = strings.ToLower(strings.TrimSpace(opts.Output))

			log := logger.New(opts.LogLevel)
			ctx := logger.WithContext(cmd.Context(), log)
			cmd.SetContext(ctx)

			db, err := sqlitestore.OpenAndMigrate(ctx, opts.DBPath, nil)
			if err != nil {
				return reportStartupError(cmd, opts.Output, output.CodeDBError, fmt.Errorf("initialize sqlite: %w", err))
			}
			log.Debug().Str("db_path", opts.DBPath).Msg("opened snapshot store")

			opts.db = db
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.db != nil {
				if err := opts.db.Close(); err != nil {
					return fmt.Errorf("close sqlite db: %w", err)
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Output, "output", output.FormatHuman, "Output format: human|json")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db-path", opts.DBPath, "SQLite snapshot path (env "+config.EnvDBPath+")")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level on stderr: debug|info|warn|error (env "+config.EnvLogLevel+")")

	cmd.AddCommand(
		NewClaimsCmd(opts),
		NewLedgerCmd(opts),
		NewSettingsCmd(opts),
	)

	return cmd
}

func outputFormat(opts *RootOptions) string {
	if opts == nil {
		return output.FormatHuman
	}
	return opts.Output
}

// reportStartupError prints the failure as an envelope so the exit code is
// set, then hands it back to cobra to stop the run.
func reportStartupError(cmd *cobra.Command, format, code string, err error) error {
	env := output.Failure(code, err.Error(), nil)
	if printErr := output.Print(cmd.OutOrStdout(), format, env); printErr != nil {
		return printErr
	}
	return err
}
