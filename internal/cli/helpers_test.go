package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"claim-ledger/internal/cli/output"
	sqlitestore "claim-ledger/internal/store/sqlite"
	"github.com/spf13/cobra"
)

const (
	cliTestSubject = "did:ethr:0x00000000000000000000000000000000000000aa"
	cliTestOther   = "did:ethr:0x00000000000000000000000000000000000000bb"
)

// cliTestFeed has an offer and a partial payment for cliTestSubject, an offer
// for cliTestOther, and one record with no claim.
const cliTestFeed = `{
  "data": [
    {"id": 1, "issuedAt": "2020-01-01 10:00:00Z", "issuer": "` + cliTestSubject + `",
     "claim": {"@context": "https://schema.org", "@type": "Offer", "identifier": "inv-1",
               "offeredBy": {"identifier": "` + cliTestSubject + `"},
               "includesObject": {"amountOfThisGood": 5, "unitCode": "HUR"}}},
    {"id": 2, "issuedAt": "2020-01-02 10:00:00Z", "issuer": "` + cliTestSubject + `",
     "claim": {"@context": "https://schema.org", "@type": "GiveAction", "offerId": "inv-1",
               "agent": {"identifier": "` + cliTestSubject + `"},
               "object": {"amountOfThisGood": 2, "unitCode": "HUR"}}},
    {"id": 3, "issuedAt": "2020-01-03 10:00:00Z", "issuer": "` + cliTestOther + `",
     "claim": {"@context": "https://schema.org", "@type": "Offer",
               "offeredBy": {"identifier": "` + cliTestOther + `"},
               "includesObject": {"amountOfThisGood": 1500.5, "unitCode": "USD"}}},
    {"id": 4, "issuedAt": "2020-01-04 10:00:00Z"}
  ],
  "hitLimit": false
}`

func newCLITestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "cli_test.db")
	db, err := sqlitestore.OpenAndMigrate(context.Background(), dbPath, nil)
	if err != nil {
		t.Fatalf("open and migrate cli test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func writeFeedFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "feed.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write feed file: %v", err)
	}
	return path
}

func executeCmdRaw(t *testing.T, cmd *cobra.Command, args []string) string {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute %s %v: %v", cmd.Name(), args, err)
	}

	return strings.TrimSpace(buf.String())
}

func executeCmdJSON(t *testing.T, cmd *cobra.Command, args []string) map[string]any {
	t.Helper()

	raw := executeCmdRaw(t, cmd, args)
	payload := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal %s payload: %v raw=%s", cmd.Name(), err, raw)
	}
	return payload
}

func jsonOptions(db *sql.DB) *RootOptions {
	return &RootOptions{Output: output.FormatJSON, db: db}
}

func assertSuccessJSONEnvelope(t *testing.T, payload map[string]any) {
	t.Helper()

	ok, _ := payload["ok"].(bool)
	if !ok {
		t.Fatalf("expected ok=true payload=%v", payload)
	}
	if payload["error"] != nil {
		t.Fatalf("expected error=null on success payload=%v", payload)
	}

	meta := mustMap(t, payload["meta"])
	if meta["api_version"] != output.APIVersionV1 {
		t.Fatalf("expected api_version=%s, got %v", output.APIVersionV1, meta["api_version"])
	}
	if timestamp, _ := meta["timestamp_utc"].(string); strings.TrimSpace(timestamp) == "" {
		t.Fatalf("expected non-empty timestamp_utc")
	}
}

func assertErrorCode(t *testing.T, payload map[string]any, code string) {
	t.Helper()

	if ok, _ := payload["ok"].(bool); ok {
		t.Fatalf("expected ok=false payload=%v", payload)
	}
	if payload["data"] != nil {
		t.Fatalf("expected data=null on error payload=%v", payload)
	}

	errPayload := mustMap(t, payload["error"])
	if errPayload["code"] != code {
		t.Fatalf("expected error code %s, got %v", code, errPayload["code"])
	}
}

func mustMap(t *testing.T, value any) map[string]any {
	t.Helper()

	mapped, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", value)
	}
	return mapped
}

func mustAnySlice(t *testing.T, value any) []any {
	t.Helper()

	slice, ok := value.([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", value)
	}
	return slice
}
