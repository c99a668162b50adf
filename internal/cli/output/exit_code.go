package output

import (
	"strings"
	"sync/atomic"
)

const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeNotFound        = "NOT_FOUND"
	CodeDBError         = "DB_ERROR"
	CodeConfigError     = "CONFIG_ERROR"
	CodeIOError         = "IO_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// Codes missing here, CodeInternalError included, exit with 1.
var exitCodes = map[string]int{
	CodeInvalidArgument: 2,
	CodeNotFound:        3,
	CodeDBError:         5,
	CodeConfigError:     7,
	CodeIOError:         8,
}

// lastExitCode holds the status of the most recently printed envelope, which
// main turns into the process exit status.
var lastExitCode atomic.Int32

func ExitCodeForErrorCode(errorCode string) int {
	if code, ok := exitCodes[strings.ToUpper(strings.TrimSpace(errorCode))]; ok {
		return code
	}
	return 1
}

func ResetExitCode() {
	lastExitCode.Store(0)
}

func LastExitCode() int {
	return int(lastExitCode.Load())
}

func recordExitCode(envelope Envelope) {
	lastExitCode.Store(int32(envelope.ExitCode()))
}
