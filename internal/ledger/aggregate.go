// Package ledger reconciles promised and paid amounts from a feed of signed
// Offer and GiveAction claims.
package ledger

import (
	"sort"
	"time"

	"claim-ledger/internal/domain"
)

type offerRef struct {
	index      int
	invoiceKey string
	currency   string
	record     domain.ClaimRecord
}

// Aggregate folds records into totals for subjectDID, treating offers whose
// validThrough has passed as expired.
func Aggregate(records []domain.ClaimRecord, subjectDID string) domain.AggregateResult {
	return AggregateAt(records, subjectDID, time.Now().UTC())
}

// AggregateAt is Aggregate with an explicit clock for expiry checks.
//
// Outstanding totals are never clamped: a payment in a different currency
// than its invoice, or a re-offer in a different currency, can leave a
// currency total negative.
func AggregateAt(records []domain.ClaimRecord, subjectDID string, now time.Time) domain.AggregateResult {
	result := domain.NewAggregateResult()

	// Offers that still count toward outstanding, and the latest offer per invoice.
	var live []offerRef
	latestForInvoice := map[string]int{}

	for _, record := range SortRecords(records) {
		switch tx := domain.ClassifyClaim(record, subjectDID).(type) {
		case domain.Offer:
			if !tx.Expired(now) {
				if tx.InvoiceKey != "" {
					if prior, ok := result.OutstandingInvoiceTotals[tx.InvoiceKey]; ok {
						result.OutstandingCurrencyTotals[tx.Currency] -= prior
					}
					result.OutstandingInvoiceTotals[tx.InvoiceKey] = tx.Amount
					latestForInvoice[tx.InvoiceKey] = len(live)
				}
				result.OutstandingCurrencyTotals[tx.Currency] += tx.Amount
				live = append(live, offerRef{
					index:      len(live),
					invoiceKey: tx.InvoiceKey,
					currency:   tx.Currency,
					record:     record,
				})
			}
			result.TotalCurrencyPromised[tx.Currency] += tx.Amount
			result.AllPromised = append(result.AllPromised, record)

		case domain.Give:
			if tx.InvoiceKey != "" {
				if outstanding, ok := result.OutstandingInvoiceTotals[tx.InvoiceKey]; ok && outstanding > 0 {
					applied := min(tx.Amount, outstanding)
					result.OutstandingInvoiceTotals[tx.InvoiceKey] -= applied
					result.OutstandingCurrencyTotals[tx.Currency] -= applied
				}
			}
			result.TotalCurrencyPaid[tx.Currency] += tx.Amount
			result.AllPaid = append(result.AllPaid, record)
			result.PaidCurrencyEntries[tx.Currency] = append(result.PaidCurrencyEntries[tx.Currency], domain.InvoiceEntry{
				InvoiceKey: tx.InvoiceKey,
				Record:     record,
			})

		case domain.Strange:
			result.IDsOfStranges = append(result.IDsOfStranges, record.ID)

		default:
			result.IDsOfUnknowns = append(result.IDsOfUnknowns, record.ID)
		}
	}

	for _, ref := range live {
		if ref.invoiceKey != "" {
			if latestForInvoice[ref.invoiceKey] != ref.index || result.OutstandingInvoiceTotals[ref.invoiceKey] <= 0 {
				continue
			}
		}
		result.OutstandingCurrencyEntries[ref.currency] = append(result.OutstandingCurrencyEntries[ref.currency], domain.InvoiceEntry{
			InvoiceKey: ref.invoiceKey,
			Record:     ref.record,
		})
	}

	return result
}

// SortRecords returns a copy of records ordered by issuedAt. Records with a
// missing or unparseable timestamp sort first; ties keep input order.
func SortRecords(records []domain.ClaimRecord) []domain.ClaimRecord {
	type keyed struct {
		at     time.Time
		record domain.ClaimRecord
	}

	items := make([]keyed, 0, len(records))
	for _, record := range records {
		at, _ := domain.ParseLooseTimestamp(record.IssuedAt)
		items = append(items, keyed{at: at, record: record})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].at.Before(items[j].at)
	})

	sorted := make([]domain.ClaimRecord, 0, len(items))
	for _, item := range items {
		sorted = append(sorted, item.record)
	}
	return sorted
}
