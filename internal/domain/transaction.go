package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

const (
	ClaimTypeOffer      = "Offer"
	ClaimTypeGiveAction = "GiveAction"
)

const (
	ReasonNoClaim         = "no claim"
	ReasonUndecodable     = "claim is not a JSON object"
	ReasonMissingContext  = "missing context or type"
	ReasonUnrecognized    = "unrecognized context or type"
	ReasonWrongParty      = "party does not match subject"
	ReasonMissingAmount   = "missing amount"
	ReasonInvalidAmount   = "amount is not a number"
	ReasonMissingCurrency = "missing currency"
)

// Transaction is the closed set of outcomes of classifying a claim.
type Transaction interface {
	isTransaction()
}

type Offer struct {
	Quantity
	InvoiceKey   string
	ValidThrough *time.Time
}

type Give struct {
	Quantity
	InvoiceKey string
}

// Strange is a recognized Offer or GiveAction that cannot be applied.
type Strange struct {
	Reason string
}

// Unknown is a record whose claim is absent or not a recognized type.
type Unknown struct {
	Reason string
}

func (Offer) isTransaction()   {}
func (Give) isTransaction()    {}
func (Strange) isTransaction() {}
func (Unknown) isTransaction() {}

// Expired reports whether the offer's validThrough lies before now.
func (o Offer) Expired(now time.Time) bool {
	return o.ValidThrough != nil && o.ValidThrough.Before(now)
}

// ClassifyClaim decodes a record's claim and validates it for subjectDID.
func ClassifyClaim(record ClaimRecord, subjectDID string) Transaction {
	if !record.HasClaim() {
		return Unknown{Reason: ReasonNoClaim}
	}

	claim, ok := decodeObject(record.Claim)
	if !ok {
		return Unknown{Reason: ReasonUndecodable}
	}

	claimContext := stringField(claim, "@context", "context")
	claimType := stringField(claim, "@type", "type")
	if claimContext == "" || claimType == "" {
		return Unknown{Reason: ReasonMissingContext}
	}
	if !IsSchemaOrgContext(claimContext) {
		return Unknown{Reason: ReasonUnrecognized}
	}

	switch claimType {
	case ClaimTypeOffer:
		return classifyOffer(claim, subjectDID)
	case ClaimTypeGiveAction:
		return classifyGive(claim, subjectDID)
	default:
		return Unknown{Reason: ReasonUnrecognized}
	}
}

func IsSchemaOrgContext(context string) bool {
	switch strings.TrimSuffix(strings.TrimSpace(context), "/") {
	case "http://schema.org", "https://schema.org":
		return true
	default:
		return false
	}
}

func classifyOffer(claim map[string]any, subjectDID string) Transaction {
	party := identifierOf(claim["offeredBy"])
	if party == "" {
		party = identifierOf(claim["seller"])
	}
	if party == "" || party != subjectDID {
		return Strange{Reason: ReasonWrongParty}
	}

	node, _ := claim["includesObject"].(map[string]any)
	if node == nil {
		node, _ = claim["itemOffered"].(map[string]any)
	}
	quantity, err := NormalizeQuantity(node)
	if err != nil {
		return Strange{Reason: reasonForQuantityError(err)}
	}

	invoiceKey := stringField(claim, "identifier")
	if invoiceKey == "" {
		invoiceKey = identifierOf(claim["recipient"])
	}

	offer := Offer{Quantity: quantity, InvoiceKey: invoiceKey}
	if validThrough, ok := ParseLooseTimestamp(stringField(claim, "validThrough")); ok {
		offer.ValidThrough = &validThrough
	}
	return offer
}

func classifyGive(claim map[string]any, subjectDID string) Transaction {
	agent := identifierOf(claim["agent"])
	if agent == "" || agent != subjectDID {
		return Strange{Reason: ReasonWrongParty}
	}

	node, _ := claim["object"].(map[string]any)
	quantity, err := NormalizeQuantity(node)
	if err != nil {
		return Strange{Reason: reasonForQuantityError(err)}
	}

	invoiceKey := stringField(claim, "offerId")
	if invoiceKey == "" {
		invoiceKey = identifierOf(claim["recipient"])
	}

	return Give{Quantity: quantity, InvoiceKey: invoiceKey}
}

func reasonForQuantityError(err error) string {
	switch err {
	case ErrMissingCurrency:
		return ReasonMissingCurrency
	case ErrInvalidAmount:
		return ReasonInvalidAmount
	default:
		return ReasonMissingAmount
	}
}

func decodeObject(raw json.RawMessage) (map[string]any, bool) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var claim map[string]any
	if err := decoder.Decode(&claim); err != nil || claim == nil {
		return nil, false
	}
	return claim, true
}

func stringField(node map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := node[key].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func identifierOf(value any) string {
	node, ok := value.(map[string]any)
	if !ok {
		return ""
	}
	return stringField(node, "identifier")
}
