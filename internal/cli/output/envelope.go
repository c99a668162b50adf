package output

import (
	"strings"
	"time"

	"claim-ledger/internal/domain"
)

const (
	APIVersionV1 = "v1"
	AppName      = "claim-ledger"
	FormatHuman  = "human"
	FormatJSON   = "json"
)

// Envelope is the one document a command prints, whatever the format.
// Warnings is always an array in JSON, and Error is null on success.
type Envelope struct {
	Ok       bool             `json:"ok"`
	Data     any              `json:"data"`
	Warnings []domain.Warning `json:"warnings"`
	Error    *Problem         `json:"error"`
	Meta     Meta             `json:"meta"`
}

type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

type Meta struct {
	App          string `json:"app"`
	APIVersion   string `json:"api_version"`
	TimestampUTC string `json:"timestamp_utc"`
}

// Success wraps a command result along with whatever the run had to warn about.
func Success(data any, warnings ...domain.Warning) Envelope {
	return Envelope{
		Ok:       true,
		Data:     data,
		Warnings: append([]domain.Warning{}, warnings...),
		Meta:     metaAt(time.Now()),
	}
}

// Failure reports a failed command under one of the Code* constants.
func Failure(code, message string, details any) Envelope {
	if details == nil {
		details = map[string]any{}
	}

	return Envelope{
		Warnings: []domain.Warning{},
		Error: &Problem{
			Code:    strings.ToUpper(strings.TrimSpace(code)),
			Message: message,
			Details: details,
		},
		Meta: metaAt(time.Now()),
	}
}

// ExitCode is the process status this envelope maps to; zero on success.
func (e Envelope) ExitCode() int {
	if e.Ok || e.Error == nil {
		return 0
	}
	return ExitCodeForErrorCode(e.Error.Code)
}

func metaAt(now time.Time) Meta {
	return Meta{
		App:          AppName,
		APIVersion:   APIVersionV1,
		TimestampUTC: now.UTC().Format(time.RFC3339Nano),
	}
}
