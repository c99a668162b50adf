package cli

import (
	"claim-ledger/internal/cli/output"
	"claim-ledger/internal/service"
	sqlitestore "claim-ledger/internal/store/sqlite"
	"github.com/spf13/cobra"
)

type settingsSetFlags struct {
	subjectDID string
}

func NewSettingsCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the default subject",
	}

	cmd.AddCommand(
		newSettingsSetCmd(opts),
		newSettingsShowCmd(opts),
	)

	return cmd
}

func newSettingsSetCmd(opts *RootOptions) *cobra.Command {
	flags := &settingsSetFlags{}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the subject DID used when ledger show names none",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printCommandError(cmd, opts, invalidArgsError("settings set", args))
			}
			if flags.subjectDID == "" {
				return printCommandError(cmd, opts, requiredFlagError("subject-did"))
			}

			svc, err := newSettingsService(opts)
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			settings, err := svc.SetSubject(cmd.Context(), flags.subjectDID)
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			env := output.Success(map[string]any{"settings": settings})
			return output.Print(cmd.OutOrStdout(), outputFormat(opts), env)
		},
	}

	cmd.Flags().StringVar(&flags.subjectDID, "subject-did", "", "Subject DID, e.g. did:ethr:0x...")
	return cmd
}

func newSettingsShowCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show stored settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printCommandError(cmd, opts, invalidArgsError("settings show", args))
			}

			svc, err := newSettingsService(opts)
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			settings, err := svc.Get(cmd.Context())
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			env := output.Success(map[string]any{"settings": settings})
			return output.Print(cmd.OutOrStdout(), outputFormat(opts), env)
		},
	}
}

func newSettingsService(opts *RootOptions) (*service.SettingsService, error) {
	if opts == nil || opts.db == nil {
		return nil, dbUnavailableError()
	}
	return service.NewSettingsService(sqlitestore.NewSettingsRepo(opts.db))
}
