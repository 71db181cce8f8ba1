package infra

import (
	"fmt"

	"github.com/haroldrospa/Cobroapp-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, migrates the
// tables this service owns, then applies the idempotent SQL patches that GORM
// cannot express (the partial unique index guarding the singleton-open
// invariant).
//
// The sales table is deliberately NOT migrated here: it belongs to the
// checkout subsystem. If its migration was never deployed, queries against it
// fail with SQLSTATE 42P01 and surface as a schema error, which is the
// desired signal for a misconfigured deployment.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Store{},
		&model.Operator{},
		&model.CashSession{},
		&model.CashMovement{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
// Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Singleton open session per store. The application pre-checks for
		// an open session before inserting, but two terminals can pass that
		// check simultaneously; this index makes the insert itself the
		// deciding compare-and-swap — the loser gets a unique violation.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cash_sessions_open_store') THEN
		    CREATE UNIQUE INDEX idx_cash_sessions_open_store
		        ON cash_sessions (store_id)
		        WHERE status = 'open';
		  END IF;
		END $$`,
		// History listing sorts closed sessions newest first.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cash_sessions_store_closed') THEN
		    CREATE INDEX idx_cash_sessions_store_closed
		        ON cash_sessions (store_id, closed_at DESC)
		        WHERE status = 'closed';
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// RunMigrations applies the owned-table migrations and patches for tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Store{},
		&model.Operator{},
		&model.CashSession{},
		&model.CashMovement{},
	); err != nil {
		return err
	}
	return applySchemaPatches(db)
}
