package cmd

import (
	"errors"

	"github.com/blockkit/fat32grow/internal/fat32"
)

// ExitCode maps an error returned from Execute to the process exit code
// the specification assigns it (§6).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var fatErr *fat32.Error
	if errors.As(err, &fatErr) {
		switch fatErr.Kind {
		case fat32.KindAlreadyMaxSize:
			return 3
		case fat32.KindMounted:
			return 4
		case fat32.KindNotFat32, fat32.KindBackupMismatch, fat32.KindBadFsInfo:
			return 5
		case fat32.KindUnrecoverableState, fat32.KindCheckpointMismatch:
			return 6
		}
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return 2
	}

	return 1
}

// UsageError marks a command-line argument error, distinct from a
// fat32 engine error, so ExitCode can report exit code 2 for it.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }
