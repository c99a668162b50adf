package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestRecordIDKeepsStringAndNumberForms(t *testing.T) {
	t.Parallel()

	var records []ClaimRecord
	if err := json.Unmarshal([]byte(`[{"id":42},{"id":"01GXYZ"},{"claim":null}]`), &records); err != nil {
		t.Fatalf("unmarshal records: %v", err)
	}

	if !records[0].ID.IsNumeric() || records[0].ID.String() != "42" {
		t.Fatalf("expected numeric id 42, got %+v", records[0].ID)
	}
	if records[1].ID.IsNumeric() || records[1].ID.String() != "01GXYZ" {
		t.Fatalf("expected string id 01GXYZ, got %+v", records[1].ID)
	}
	if !records[2].ID.IsZero() || records[2].HasClaim() {
		t.Fatalf("expected empty id and no claim, got %+v", records[2])
	}

	raw, err := json.Marshal([]RecordID{records[0].ID, records[1].ID})
	if err != nil {
		t.Fatalf("marshal ids: %v", err)
	}
	if string(raw) != `[42,"01GXYZ"]` {
		t.Fatalf("unexpected encoded ids: %s", raw)
	}
}

func TestRecordIDRejectsNonScalar(t *testing.T) {
	t.Parallel()

	var id RecordID
	if err := json.Unmarshal([]byte(`{"x":1}`), &id); !errors.Is(err, ErrInvalidClaimID) {
		t.Fatalf("expected ErrInvalidClaimID, got %v", err)
	}
}

func TestDecodeClaimPage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		raw      string
		wantLen  int
		hitLimit bool
	}{
		{name: "feed_page", raw: `{"data":[{"id":1},{"id":2}],"hitLimit":true}`, wantLen: 2, hitLimit: true},
		{name: "bare_array", raw: ` [{"id":"a"}]`, wantLen: 1},
		{name: "empty_page", raw: `{"data":[]}`, wantLen: 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			page, err := DecodeClaimPage([]byte(tc.raw))
			if err != nil {
				t.Fatalf("DecodeClaimPage(%q): %v", tc.raw, err)
			}
			if len(page.Data) != tc.wantLen || page.HitLimit != tc.hitLimit {
				t.Fatalf("unexpected page %+v", page)
			}
		})
	}
}

func TestDecodeClaimPageRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "42", `{"hitLimit":false}`, `{"data":`, `"text"`} {
		if _, err := DecodeClaimPage([]byte(raw)); !errors.Is(err, ErrInvalidClaimPage) {
			t.Fatalf("DecodeClaimPage(%q): expected ErrInvalidClaimPage, got %v", raw, err)
		}
	}
}

func TestParseLooseTimestamp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		value string
		want  time.Time
	}{
		{name: "rfc3339", value: "2023-07-21T15:30:00Z", want: time.Date(2023, 7, 21, 15, 30, 0, 0, time.UTC)},
		{name: "space_separator", value: "2023-07-21 15:30:00Z", want: time.Date(2023, 7, 21, 15, 30, 0, 0, time.UTC)},
		{name: "space_no_zone", value: "2023-07-21 15:30:00", want: time.Date(2023, 7, 21, 15, 30, 0, 0, time.UTC)},
		{name: "fraction_and_offset", value: "2023-07-21T17:30:00.250+02:00", want: time.Date(2023, 7, 21, 15, 30, 0, 250000000, time.UTC)},
		{name: "date_only", value: "2023-07-21", want: time.Date(2023, 7, 21, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseLooseTimestamp(tc.value)
			if !ok {
				t.Fatalf("ParseLooseTimestamp(%q) failed", tc.value)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}

	for _, value := range []string{"", "yesterday", "2023-13-40"} {
		if _, ok := ParseLooseTimestamp(value); ok {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}

func TestNormalizeAsOf(t *testing.T) {
	t.Parallel()

	got, err := NormalizeAsOf("")
	if err != nil || !got.IsZero() {
		t.Fatalf("expected zero time for empty as_of, got %v %v", got, err)
	}

	if _, err := NormalizeAsOf("not-a-date"); !errors.Is(err, ErrInvalidAsOf) {
		t.Fatalf("expected ErrInvalidAsOf, got %v", err)
	}
}

func TestNormalizeSubjectDID(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "trims whitespace", input: "  did:ethr:0xabc ", want: "did:ethr:0xabc"},
		{name: "hidden did is still a did", input: HiddenDID, want: HiddenDID},
		{name: "empty", input: "  ", wantErr: true},
		{name: "plain name", input: "alice", wantErr: true},
		{name: "missing id", input: "did:ethr:", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeSubjectDID(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidSubjectDID) {
					t.Fatalf("expected ErrInvalidSubjectDID, got %q %v", got, err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("expected %q, got %q %v", tc.want, got, err)
			}
		})
	}
}
