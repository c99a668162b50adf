package cli

import (
	"claim-ledger/internal/cli/output"
	"claim-ledger/internal/domain"
	"claim-ledger/internal/service"
	sqlitestore "claim-ledger/internal/store/sqlite"
	"github.com/spf13/cobra"
)

type claimsImportFlags struct {
	files []string
}

type claimsListFlags struct {
	claimType string
	limit     int
}

type claimsExportFlags struct {
	file string
}

func NewClaimsCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claims",
		Short: "Import, list and export the local claim snapshot",
	}

	cmd.AddCommand(
		newClaimsImportCmd(opts),
		newClaimsListCmd(opts),
		newClaimsExportCmd(opts),
	)

	return cmd
}

func newClaimsImportCmd(opts *RootOptions) *cobra.Command {
	flags := &claimsImportFlags{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import feed pages into the snapshot, replacing records by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printCommandError(cmd, opts, invalidArgsError("claims import", args))
			}
			if len(flags.files) == 0 {
				return printCommandError(cmd, opts, requiredFlagError("file"))
			}

			svc, err := newClaimService(opts)
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			result, err := svc.Import(cmd.Context(), flags.files)
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			env := output.Success(map[string]any{"import": result.Run}, result.Warnings...)
			return output.Print(cmd.OutOrStdout(), outputFormat(opts), env)
		},
	}

	cmd.Flags().StringArrayVar(&flags.files, "file", nil, "Feed page JSON file (repeatable)")
	return cmd
}

func newClaimsListCmd(opts *RootOptions) *cobra.Command {
	flags := &claimsListFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored claims, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printCommandError(cmd, opts, invalidArgsError("claims list", args))
			}

			svc, err := newClaimService(opts)
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			claims, err := svc.List(cmd.Context(), domain.ClaimListFilter{
				ClaimType: flags.claimType,
				Limit:     flags.limit,
			})
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			env := output.Success(map[string]any{
				"claims": claims,
				"count":  len(claims),
			})
			return output.Print(cmd.OutOrStdout(), outputFormat(opts), env)
		},
	}

	cmd.Flags().StringVar(&flags.claimType, "type", "", "Filter by claim @type, e.g. Offer|GiveAction")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Maximum number of claims to list (0 for all)")
	return cmd
}

func newClaimsExportCmd(opts *RootOptions) *cobra.Command {
	flags := &claimsExportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the snapshot as a single feed page",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printCommandError(cmd, opts, invalidArgsError("claims export", args))
			}
			if flags.file == "" {
				return printCommandError(cmd, opts, requiredFlagError("file"))
			}

			svc, err := newClaimService(opts)
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			exported, err := svc.Export(cmd.Context(), flags.file)
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			env := output.Success(map[string]any{
				"exported": exported,
				"file":     flags.file,
			})
			return output.Print(cmd.OutOrStdout(), outputFormat(opts), env)
		},
	}

	cmd.Flags().StringVar(&flags.file, "file", "", "Output file path")
	return cmd
}

func newClaimService(opts *RootOptions) (*service.ClaimService, error) {
	if opts == nil || opts.db == nil {
		return nil, dbUnavailableError()
	}
	return service.NewClaimService(sqlitestore.NewClaimRepo(opts.db))
}
