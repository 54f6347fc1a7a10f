package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/liveballot/elect/internal/core/domain"
)

// storeErr maps driver failures onto the domain taxonomy: serialization
// failures (SQLSTATE class 40) become retryable conflicts, connection-level
// failures become ErrStoreUnavailable. Everything else passes through for
// the caller to wrap.
func storeErr(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "40": // transaction rollback: serialization failure, deadlock
			return domain.ErrConflict
		case "08": // connection exception
			return domain.ErrStoreUnavailable
		}
		return err
	}

	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return domain.ErrStoreUnavailable
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
