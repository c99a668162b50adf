package domain

// InvoiceEntry pairs a record with the invoice key it was applied under.
// InvoiceKey is empty for records without an invoice or recipient.
type InvoiceEntry struct {
	InvoiceKey string      `json:"invoiceKey,omitempty"`
	Record     ClaimRecord `json:"record"`
}

type AggregateResult struct {
	OutstandingCurrencyTotals  map[string]float64        `json:"outstandingCurrencyTotals"`
	OutstandingInvoiceTotals   map[string]float64        `json:"outstandingInvoiceTotals"`
	TotalCurrencyPaid          map[string]float64        `json:"totalCurrencyPaid"`
	TotalCurrencyPromised      map[string]float64        `json:"totalCurrencyPromised"`
	AllPromised                []ClaimRecord             `json:"allPromised"`
	AllPaid                    []ClaimRecord             `json:"allPaid"`
	IDsOfStranges              []RecordID                `json:"idsOfStranges"`
	IDsOfUnknowns              []RecordID                `json:"idsOfUnknowns"`
	OutstandingCurrencyEntries map[string][]InvoiceEntry `json:"outstandingCurrencyEntries"`
	PaidCurrencyEntries        map[string][]InvoiceEntry `json:"paidCurrencyEntries"`
}

func NewAggregateResult() AggregateResult {
	return AggregateResult{
		OutstandingCurrencyTotals:  map[string]float64{},
		OutstandingInvoiceTotals:   map[string]float64{},
		TotalCurrencyPaid:          map[string]float64{},
		TotalCurrencyPromised:      map[string]float64{},
		AllPromised:                []ClaimRecord{},
		AllPaid:                    []ClaimRecord{},
		IDsOfStranges:              []RecordID{},
		IDsOfUnknowns:              []RecordID{},
		OutstandingCurrencyEntries: map[string][]InvoiceEntry{},
		PaidCurrencyEntries:        map[string][]InvoiceEntry{},
	}
}

// NumUnmeasurable counts records excluded from every total.
func (r AggregateResult) NumUnmeasurable() int {
	return len(r.IDsOfStranges) + len(r.IDsOfUnknowns)
}
