// Package pgerr sorts Postgres driver errors into the engine's error taxonomy.
package pgerr

import (
	"context"
	"errors"
	"fmt"

	"mercuri/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateKey marks a unique violation.
var ErrDuplicateKey = errors.New("duplicate key")

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
	codeAdminShutdown        = "57P01"
	codeCannotConnectNow     = "57P03"
	classConnectionException = "08"
)

// Classify wraps err as errs.TransientError when retrying the same operation may succeed:
// lock contention, serialization failures, timeouts and lost connections. Unique violations
// wrap ErrDuplicateKey. Anything else is returned unchanged.
func Classify(operation string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.NewTransientError(operation, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%s: %w: %w", operation, ErrDuplicateKey, err)
		case isRetryableCode(pgErr.Code):
			return errs.NewTransientError(operation, err)
		default:
			return err
		}
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return errs.NewTransientError(operation, err)
	}

	return err
}

func isRetryableCode(code string) bool {
	switch code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable,
		codeQueryCanceled, codeAdminShutdown, codeCannotConnectNow:
		return true
	}
	return len(code) == 5 && code[:2] == classConnectionException
}
