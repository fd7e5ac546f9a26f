// Package pgerr translates driver-level Postgres errors into the registry
// error taxonomy so repositories never leak raw store errors upward.
package pgerr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdenisov/roost/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
)

// Map converts err into one of the common sentinels:
//   - sql.ErrNoRows               -> ErrNotFound
//   - unique violation            -> ErrConflict
//   - serialization failure       -> ErrConflict (losing side of a
//     concurrent duplicate create; the winner's row already committed)
//   - anything else               -> wrapped ErrUnavailable
func Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrConflict, pgErr.ConstraintName)
		case codeSerializationFailure:
			return fmt.Errorf("%w: serialization failure", common.ErrConflict)
		}
	}

	return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
}
