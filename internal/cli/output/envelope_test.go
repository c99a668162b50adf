package output

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"claim-ledger/internal/domain"
)

func TestSuccessCarriesDomainWarnings(t *testing.T) {
	t.Parallel()

	warning := domain.Warning{Code: domain.WarningCodeFeedHitLimit, Message: "feed page was truncated", Details: map[string]any{"file": "feed.json"}}
	env := Success(map[string]any{"count": 1}, warning)

	if !env.Ok || env.Error != nil || env.ExitCode() != 0 {
		t.Fatalf("expected a clean success envelope, got %+v", env)
	}
	if len(env.Warnings) != 1 || env.Warnings[0].Code != domain.WarningCodeFeedHitLimit {
		t.Fatalf("expected the feed warning to be carried, got %+v", env.Warnings)
	}
	if env.Meta.App != AppName || env.Meta.APIVersion != APIVersionV1 {
		t.Fatalf("unexpected meta %+v", env.Meta)
	}
	if _, err := time.Parse(time.RFC3339Nano, env.Meta.TimestampUTC); err != nil || !strings.HasSuffix(env.Meta.TimestampUTC, "Z") {
		t.Fatalf("expected UTC RFC3339 timestamp, got %q (%v)", env.Meta.TimestampUTC, err)
	}
}

func TestFailureForIOError(t *testing.T) {
	t.Parallel()

	_, statErr := os.Stat("/definitely/not/here/feed.json")
	env := Failure(" io_error ", "file operation failed", map[string]any{"reason": statErr.Error()})

	if env.Ok || env.Data != nil {
		t.Fatalf("expected failure without data, got %+v", env)
	}
	if env.Error == nil || env.Error.Code != CodeIOError {
		t.Fatalf("expected normalized %s, got %+v", CodeIOError, env.Error)
	}
	if got := env.ExitCode(); got != 8 {
		t.Fatalf("expected exit 8 for %s, got %d", CodeIOError, got)
	}

	payload, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failure: %v", err)
	}
	decoded := map[string]any{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal failure: %v", err)
	}
	if warnings, ok := decoded["warnings"].([]any); !ok || len(warnings) != 0 {
		t.Fatalf("expected warnings to encode as an empty array, got %s", payload)
	}
	meta, _ := decoded["meta"].(map[string]any)
	if meta["app"] != AppName {
		t.Fatalf("expected meta.app=%q, got %s", AppName, payload)
	}
}

func TestFailureDefaultsDetailsToObject(t *testing.T) {
	t.Parallel()

	env := Failure(CodeInternalError, "unexpected internal failure", nil)
	payload, err := json.Marshal(env.Error)
	if err != nil {
		t.Fatalf("marshal problem: %v", err)
	}
	if !strings.Contains(string(payload), `"details":{}`) {
		t.Fatalf("expected empty details object, got %s", payload)
	}
	if env.ExitCode() != 1 {
		t.Fatalf("expected exit 1 for %s, got %d", CodeInternalError, env.ExitCode())
	}
}
