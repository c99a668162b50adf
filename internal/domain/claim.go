package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidClaimID    = errors.New("invalid claim id")
	ErrInvalidClaimPage  = errors.New("invalid claim page")
	ErrInvalidSubjectDID = errors.New("invalid subject did")
	ErrInvalidAsOf       = errors.New("invalid as_of timestamp")
)

// RecordID is the opaque id of a feed record. The feed emits either JSON
// strings or JSON numbers; both are kept in textual form.
type RecordID struct {
	value   string
	numeric bool
}

func NewRecordID(value string) RecordID {
	return RecordID{value: value}
}

func NewNumericRecordID(value int64) RecordID {
	return RecordID{value: strconv.FormatInt(value, 10), numeric: true}
}

// ParseStoredRecordID rebuilds an id saved with String and IsNumeric.
func ParseStoredRecordID(value string, numeric bool) RecordID {
	return RecordID{value: value, numeric: numeric}
}

func (id RecordID) String() string {
	return id.value
}

func (id RecordID) IsNumeric() bool {
	return id.numeric
}

func (id RecordID) IsZero() bool {
	return id.value == ""
}

func (id RecordID) MarshalJSON() ([]byte, error) {
	if id.value == "" {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *RecordID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = RecordID{}
		return nil
	}

	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*id = RecordID{value: value}
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return ErrInvalidClaimID
	}
	*id = RecordID{value: number.String(), numeric: true}
	return nil
}

// ClaimRecord is one entry from a claims feed.
type ClaimRecord struct {
	ID       RecordID        `json:"id"`
	IssuedAt string          `json:"issuedAt,omitempty"`
	Issuer   string          `json:"issuer,omitempty"`
	Claim    json.RawMessage `json:"claim,omitempty"`
}

func (r ClaimRecord) HasClaim() bool {
	trimmed := bytes.TrimSpace(r.Claim)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// ClaimPage is the shape returned by the feed's paged report endpoints.
type ClaimPage struct {
	Data     []ClaimRecord `json:"data"`
	HitLimit bool          `json:"hitLimit"`
}

// DecodeClaimPage accepts either a feed page object or a bare array of records.
func DecodeClaimPage(raw []byte) (ClaimPage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ClaimPage{}, ErrInvalidClaimPage
	}

	switch trimmed[0] {
	case '[':
		var records []ClaimRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return ClaimPage{}, errors.Join(ErrInvalidClaimPage, err)
		}
		return ClaimPage{Data: records}, nil
	case '{':
		var page ClaimPage
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return ClaimPage{}, errors.Join(ErrInvalidClaimPage, err)
		}
		if page.Data == nil {
			return ClaimPage{}, ErrInvalidClaimPage
		}
		return page, nil
	default:
		return ClaimPage{}, ErrInvalidClaimPage
	}
}

// NormalizeSubjectDID trims value and requires the did:<method>:<id> shape.
// Flags, the environment and stored settings all go through it.
func NormalizeSubjectDID(value string) (string, error) {
	normalized := strings.TrimSpace(value)
	if !IsDID(normalized) {
		return "", ErrInvalidSubjectDID
	}
	return normalized, nil
}

// ParseLooseTimestamp parses ISO-like timestamps as emitted by the feed,
// including the "YYYY-MM-DD hh:mm:ss" form with a space separator.
func ParseLooseTimestamp(value string) (time.Time, bool) {
	normalized := strings.TrimSpace(value)
	if normalized == "" {
		return time.Time{}, false
	}
	normalized = strings.Replace(normalized, " ", "T", 1)

	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999Z0700",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	} {
		parsed, err := time.Parse(layout, normalized)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func NormalizeAsOf(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	parsed, ok := ParseLooseTimestamp(value)
	if !ok {
		return time.Time{}, ErrInvalidAsOf
	}
	return parsed, nil
}
