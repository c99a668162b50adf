package cli

import (
	"fmt"
	"sort"

	"claim-ledger/internal/cli/output"
	"claim-ledger/internal/config"
	"claim-ledger/internal/domain"
	"claim-ledger/internal/service"
	sqlitestore "claim-ledger/internal/store/sqlite"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const (
	ledgerSourceSnapshot = "snapshot"
	ledgerSourceFiles    = "files"
)

type ledgerShowFlags struct {
	subjects []string
	asOf     string
	files    []string
}

// ledgerReport is the ledger show payload. Its JSON form is the service result
// plus the record source.
type ledgerReport struct {
	service.LedgerResult
	Source string `json:"source"`
}

func NewLedgerCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Reconcile offers against payments",
	}

	cmd.AddCommand(newLedgerShowCmd(opts))
	return cmd
}

func newLedgerShowCmd(opts *RootOptions) *cobra.Command {
	flags := &ledgerShowFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show outstanding, promised and paid totals for one or more subjects",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return printCommandError(cmd, opts, invalidArgsError("ledger show", args))
			}

			svc, err := newLedgerService(opts)
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			req := service.LedgerRequest{
				Subjects: flags.subjects,
				AsOf:     flags.asOf,
			}
			source := ledgerSourceSnapshot
			if len(flags.files) > 0 {
				records, err := readRecordFiles(flags.files)
				if err != nil {
					return printCommandError(cmd, opts, err)
				}
				req.Records = records
				source = ledgerSourceFiles
			}

			result, err := svc.Compute(cmd.Context(), req)
			if err != nil {
				return printCommandError(cmd, opts, err)
			}

			report := ledgerReport{LedgerResult: result, Source: source}
			env := output.Success(report, result.Warnings...)
			return output.Print(cmd.OutOrStdout(), outputFormat(opts), env)
		},
	}

	cmd.Flags().StringArrayVar(&flags.subjects, "subject", nil, "Subject DID (repeatable; defaults to settings, then "+config.EnvSubjectDID+")")
	cmd.Flags().StringVar(&flags.asOf, "as-of", "", "Treat offers as expired relative to this time (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&flags.files, "file", nil, "Aggregate these feed page files instead of the snapshot (repeatable)")
	return cmd
}

func newLedgerService(opts *RootOptions) (*service.LedgerService, error) {
	if opts == nil || opts.db == nil {
		return nil, dbUnavailableError()
	}

	return service.NewLedgerService(
		sqlitestore.NewClaimRepo(opts.db),
		service.WithLedgerSubjectLookup(sqlitestore.NewSettingsRepo(opts.db)),
		service.WithLedgerDefaultSubject(opts.SubjectDID),
	)
}

func readRecordFiles(paths []string) ([]domain.ClaimRecord, error) {
	records := []domain.ClaimRecord{}
	for _, path := range paths {
		page, err := service.ReadClaimFile(path)
		if err != nil {
			return nil, err
		}
		records = append(records, page.Data...)
	}
	return records, nil
}

func (r ledgerReport) HumanLines() []string {
	lines := []string{
		fmt.Sprintf("as of %s, %d records from %s", r.AsOfUTC, r.RecordCount, r.Source),
	}

	for _, subject := range r.Ledgers {
		result := subject.Result
		lines = append(lines, "", fmt.Sprintf("subject %s (%s)", subject.SubjectLabel, subject.SubjectDID))
		lines = append(lines, currencyLines("outstanding", result.OutstandingCurrencyTotals)...)
		lines = append(lines, currencyLines("promised", result.TotalCurrencyPromised)...)
		lines = append(lines, currencyLines("paid", result.TotalCurrencyPaid)...)

		if len(result.OutstandingInvoiceTotals) > 0 {
			lines = append(lines, "  open invoices:")
			for _, key := range sortedKeys(result.OutstandingInvoiceTotals) {
				lines = append(lines, fmt.Sprintf("    %s  %s", key, humanize.Commaf(result.OutstandingInvoiceTotals[key])))
			}
		}
		lines = append(lines, fmt.Sprintf("  offers=%d payments=%d unmeasurable=%d",
			len(result.AllPromised), len(result.AllPaid), subject.Unmeasurable))
	}

	return lines
}

func currencyLines(title string, totals map[string]float64) []string {
	if len(totals) == 0 {
		return []string{fmt.Sprintf("  %s: none", title)}
	}

	lines := []string{fmt.Sprintf("  %s:", title)}
	for _, code := range sortedKeys(totals) {
		lines = append(lines, fmt.Sprintf("    %s  %s", code, domain.DisplayAmount(code, totals[code])))
	}
	return lines
}

func sortedKeys(values map[string]float64) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
