package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error taxonomy for the drawer subsystem. Handlers match these with
// errors.Is to pick a status code; none of them is ever recovered silently —
// a financial figure is either computed from complete inputs or not returned.
var (
	// ErrInvalidAmount rejects non-positive amounts on movements and
	// negative floats on open. Never persisted.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrMissingReason rejects movements without a justification.
	ErrMissingReason = errors.New("a reason is required for cash movements")

	// ErrSessionNotOpen covers closing a session that is already closed or
	// does not exist. The stored snapshot of a prior close is never altered.
	ErrSessionNotOpen = errors.New("cash session is not open")

	// ErrNoActiveSession gates shift-scoped operations: the remedy is to
	// open a drawer first, never to auto-create one here.
	ErrNoActiveSession = errors.New("no active cash session for this store")

	// ErrSessionConflict signals that another open session already exists
	// for the store. Raised by the pre-check and, decisively, by the
	// partial unique index when two terminals race.
	ErrSessionConflict = errors.New("an open cash session already exists for this store")

	// ErrSchemaUnavailable means a required relation is missing — an
	// undeployed migration, i.e. misconfiguration rather than user error.
	ErrSchemaUnavailable = errors.New("required database schema is not deployed")

	// ErrExternalFetch aborts a reconciliation whose sales or movements
	// could not be read. A partial figure would imply false confidence in
	// a cash count, so none is produced.
	ErrExternalFetch = errors.New("could not fetch records for reconciliation")
)

// translateStoreErr maps driver-level failures onto the taxonomy above.
// SQLSTATE 42P01 (undefined_table) means the migration was never applied;
// 23505 (unique_violation) on a session insert means we lost the open race.
func translateStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01":
			return fmt.Errorf("%w: %s", ErrSchemaUnavailable, pgErr.Message)
		case "23505":
			return ErrSessionConflict
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSessionConflict
	}
	return err
}
