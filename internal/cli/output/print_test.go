package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"claim-ledger/internal/domain"
)

type humanStub []string

func (h humanStub) HumanLines() []string {
	return h
}

func TestPrintHumanUsesRenderer(t *testing.T) {
	t.Parallel()

	env := Success(humanStub{"HUR  3 hours", "BTC  1.5 BTC"}, domain.Warning{Code: domain.WarningCodeUnmeasurableClaims, Message: "2 of these claims do not have measurable info"})

	var out bytes.Buffer
	if err := Print(&out, FormatHuman, env); err != nil {
		t.Fatalf("print human: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != "[OK] claim-ledger" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "warning[UNMEASURABLE_CLAIMS]: 2 of these claims do not have measurable info" {
		t.Fatalf("unexpected warning line %q", lines[1])
	}
	if lines[2] != "HUR  3 hours" || lines[3] != "BTC  1.5 BTC" {
		t.Fatalf("expected rendered lines, got %v", lines)
	}
	if !strings.HasPrefix(lines[4], "api=v1 timestamp_utc=") {
		t.Fatalf("unexpected footer %q", lines[4])
	}
}

func TestPrintHumanFallsBackToJSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	env := Failure(CodeNotFound, "settings not found", nil)
	if err := Print(&out, FormatHuman, env); err != nil {
		t.Fatalf("print human: %v", err)
	}
	if !strings.Contains(out.String(), "[ERROR] claim-ledger\nNOT_FOUND: settings not found\n") {
		t.Fatalf("unexpected error output %q", out.String())
	}

	out.Reset()
	if err := Print(&out, FormatHuman, Success(map[string]any{"count": 2})); err != nil {
		t.Fatalf("print human: %v", err)
	}
	if !strings.Contains(out.String(), `"count": 2`) {
		t.Fatalf("expected JSON dump of data, got %q", out.String())
	}
}

func TestPrintJSONEnvelopeShape(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := Print(&out, FormatJSON, Success(humanStub{"ignored"})); err != nil {
		t.Fatalf("print json: %v", err)
	}

	payload := map[string]any{}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	for _, key := range []string{"ok", "data", "warnings", "error", "meta"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("expected envelope key %q in %v", key, payload)
		}
	}
	meta, _ := payload["meta"].(map[string]any)
	if meta["app"] != AppName {
		t.Fatalf("expected meta.app=%q, got %v", AppName, meta["app"])
	}
}

func TestPrintRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Print(&bytes.Buffer{}, "yaml", Success(nil)); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestIsValidFormat(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"human", "json", " JSON "} {
		if !IsValidFormat(value) {
			t.Fatalf("expected %q to be valid", value)
		}
	}
	if IsValidFormat("yaml") {
		t.Fatalf("expected yaml to be invalid")
	}
}
