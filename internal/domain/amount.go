package domain

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	ErrMissingAmount   = errors.New("missing amount")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMissingCurrency = errors.New("missing currency")
)

// Quantity is the canonical amount/currency pair read from a claim's
// amountOfThisGood/unitCode node.
type Quantity struct {
	Amount   float64
	Currency string
}

var currencyLabels = map[string][2]string{
	"HUR": {"hour", "hours"},
}

// NormalizeAmount accepts JSON numbers and decimal strings.
func NormalizeAmount(value any) (float64, error) {
	var parsed float64
	switch typed := value.(type) {
	case nil:
		return 0, ErrMissingAmount
	case json.Number:
		f, err := strconv.ParseFloat(typed.String(), 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		parsed = f
	case float64:
		parsed = typed
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, ErrInvalidAmount
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		parsed = f
	default:
		return 0, ErrInvalidAmount
	}

	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, ErrInvalidAmount
	}
	return parsed, nil
}

// NormalizeQuantity reads amountOfThisGood and unitCode from a node.
func NormalizeQuantity(node map[string]any) (Quantity, error) {
	if node == nil {
		return Quantity{}, ErrMissingAmount
	}

	amount, err := NormalizeAmount(node["amountOfThisGood"])
	if err != nil {
		return Quantity{}, err
	}

	currency, _ := node["unitCode"].(string)
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return Quantity{}, ErrMissingCurrency
	}

	return Quantity{Amount: amount, Currency: currency}, nil
}

// CurrencyLabel returns a short word for a unit code.
func CurrencyLabel(currencyCode string, amount float64) string {
	labels, ok := currencyLabels[strings.ToUpper(strings.TrimSpace(currencyCode))]
	if !ok {
		return currencyCode
	}
	if amount == 1 {
		return labels[0]
	}
	return labels[1]
}

func DisplayAmount(currencyCode string, amount float64) string {
	return humanize.Commaf(amount) + " " + CurrencyLabel(currencyCode, amount)
}
