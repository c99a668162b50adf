package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"claim-ledger/internal/cli/output"
	"claim-ledger/internal/domain"
	"github.com/spf13/cobra"
)

type cliError struct {
	Code    string
	Message string
	Details any
}

func (e *cliError) Error() string {
	if e == nil {
		return "command error"
	}
	return e.Message
}

func invalidArgsError(command string, args []string) error {
	return &cliError{
		Code:    output.CodeInvalidArgument,
		Message: fmt.Sprintf("%s does not accept positional arguments", command),
		Details: map[string]any{"args": args},
	}
}

func requiredFlagError(flag string) error {
	return &cliError{
		Code:    output.CodeInvalidArgument,
		Message: flag + " is required",
		Details: map[string]any{"field": flag},
	}
}

func dbUnavailableError() error {
	return &cliError{
		Code:    output.CodeDBError,
		Message: "database operation failed",
		Details: map[string]any{"reason": "database connection unavailable"},
	}
}

func printCommandError(cmd *cobra.Command, opts *RootOptions, err error) error {
	if cmd == nil {
		return fmt.Errorf("nil command")
	}

	format := outputFormat(opts)
	if err == nil {
		env := output.Failure(output.CodeInternalError, "unexpected internal failure", nil)
		return output.Print(cmd.OutOrStdout(), format, env)
	}

	var cmdErr *cliError
	if errors.As(err, &cmdErr) {
		env := output.Failure(cmdErr.Code, cmdErr.Message, cmdErr.Details)
		return output.Print(cmd.OutOrStdout(), format, env)
	}

	env := output.Failure(codeFromError(err), messageFromError(err), map[string]any{"reason": err.Error()})
	return output.Print(cmd.OutOrStdout(), format, env)
}

func codeFromError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidSubjectDID),
		errors.Is(err, domain.ErrInvalidClaimID),
		errors.Is(err, domain.ErrInvalidClaimPage),
		errors.Is(err, domain.ErrInvalidAsOf),
		errors.Is(err, domain.ErrInvalidClaimFilter),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, os.ErrInvalid):
		return output.CodeInvalidArgument
	case errors.Is(err, domain.ErrSettingsNotFound):
		return output.CodeNotFound
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return output.CodeIOError
	}
	return output.CodeDBError
}

func messageFromError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidSubjectDID):
		return "subject must be a DID (did:<method>:<id>); set one with --subject or settings set"
	case errors.Is(err, domain.ErrInvalidClaimID):
		return "every claim record needs an id"
	case errors.Is(err, domain.ErrInvalidClaimPage):
		return "file must hold a feed page {\"data\":[...]} or an array of claim records"
	case errors.Is(err, domain.ErrInvalidAsOf):
		return "as-of must be RFC3339 or YYYY-MM-DD"
	case errors.Is(err, domain.ErrInvalidClaimFilter):
		return "limit must be zero or greater"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "unsupported format"
	case errors.Is(err, os.ErrInvalid):
		return "a file path is required"
	case errors.Is(err, domain.ErrSettingsNotFound):
		return "settings not found"
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return "file operation failed"
	}
	return "database operation failed"
}
