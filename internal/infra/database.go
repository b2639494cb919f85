package infra

import (
	"fmt"

	"luminapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (partial indexes, etc.).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates or updates the schema. Safe to re-run.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.ProductVariant{},
		&model.CashShift{},
		&model.CashMovement{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.TransactionPayment{},
		&model.StockMovement{},
		&model.Settings{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open shift per register. Enforced at the DB level so a
		// race between two concurrent opens cannot produce a second open shift.
		{"one open shift partial unique index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cash_shifts_single_open') THEN
    CREATE UNIQUE INDEX idx_cash_shifts_single_open
        ON cash_shifts ((status))
        WHERE status = 'open';
  END IF;
END $$`},
		// Movement lookups during reconciliation are always scoped to a shift.
		{"cash movements by shift index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cash_movements_shift') THEN
    CREATE INDEX idx_cash_movements_shift ON cash_movements (shift_id, type);
  END IF;
END $$`},
		// The pending-orders view filters on origin + status.
		{"pending web orders index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_transactions_pending_web') THEN
    CREATE INDEX idx_transactions_pending_web
        ON transactions (created_at)
        WHERE origin = 'web' AND status = 'pending';
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
