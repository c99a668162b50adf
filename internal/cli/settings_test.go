package cli

import (
	"testing"

	"claim-ledger/internal/cli/output"
)

func TestSettingsSetAndShow(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)

	assertErrorCode(t, executeCmdJSON(t, NewSettingsCmd(jsonOptions(db)), []string{"show"}), output.CodeNotFound)

	setPayload := executeCmdJSON(t, NewSettingsCmd(jsonOptions(db)), []string{"set", "--subject-did", cliTestSubject})
	assertSuccessJSONEnvelope(t, setPayload)

	showPayload := executeCmdJSON(t, NewSettingsCmd(jsonOptions(db)), []string{"show"})
	assertSuccessJSONEnvelope(t, showPayload)
	settings := mustMap(t, mustMap(t, showPayload["data"])["settings"])
	if settings["subject_did"] != cliTestSubject {
		t.Fatalf("expected subject_did=%s, got %v", cliTestSubject, settings["subject_did"])
	}
}

func TestSettingsSetRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)

	assertErrorCode(t, executeCmdJSON(t, NewSettingsCmd(jsonOptions(db)), []string{"set"}), output.CodeInvalidArgument)
	assertErrorCode(t, executeCmdJSON(t, NewSettingsCmd(jsonOptions(db)), []string{"set", "--subject-did", "alice"}), output.CodeInvalidArgument)
}
