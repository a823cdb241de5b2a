package main

import (
	"errors"
	"fmt"

	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core"
)

// Process exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitUsage      = 3
	exitDatabase   = 4
	exitJobFailed  = 5
)

var errUsage = errors.New("usage error")

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errUsage, err)
}

// exitCode maps a command error onto the process exit code. A failed job
// wins over the infrastructure cause that failed it.
func exitCode(err error) int {
	var appErr *common.AppError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, core.ErrJobFailed):
		return exitJobFailed
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, common.ErrInvalidInput),
		common.IsValidation(err),
		errors.As(err, &appErr) && appErr.Code == "CONFIG_ERROR":
		return exitValidation
	case common.IsInfrastructure(err), errors.Is(err, common.ErrDatabase):
		return exitDatabase
	default:
		return exitFailure
	}
}
