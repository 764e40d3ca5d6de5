package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/itfy/evoting/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	// Create custom types BEFORE auto-migrate
	if err := createCustomTypes(db); err != nil {
		logger.Error("Failed to create custom types", zap.Error(err))
		return err
	}

	// Auto-migrate all models
	err := db.AutoMigrate(
		&model.Event{},
		&model.Category{},
		&model.Candidate{},
		&model.Nomination{},
		&model.VoteBundle{},
		&model.Coupon{},
		&model.CouponRedemption{},
		&model.Payment{},
		&model.Vote{},
		&model.GatewayWebhookEvent{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	// Create custom indexes and constraints
	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates custom indexes that GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// One open order per voter per category: pending and success payments
	// block a second checkout, terminal ones don't.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_open_order ON payments (voter_email, event_id, category_id) WHERE status IN ('pending', 'success')`).Error; err != nil {
		return err
	}

	// Reaper scan: pending payments ordered by expiry.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payments_pending_expiry ON payments (expires_at) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	// Webhook audit: unprocessed deliveries by arrival time.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_webhook_events_unprocessed ON gateway_webhook_events (created_at) WHERE status IN ('pending', 'failed')`).Error; err != nil {
		return err
	}

	return nil
}

// createCustomTypes creates custom PostgreSQL types
func createCustomTypes(db *gorm.DB) error {
	types := map[string]string{
		"payment_status":   `CREATE TYPE payment_status AS ENUM ('pending', 'success', 'failed', 'abandoned', 'expired')`,
		"category_status":  `CREATE TYPE category_status AS ENUM ('draft', 'active', 'voting_open', 'voting_closed', 'completed')`,
		"tie_break_method": `CREATE TYPE tie_break_method AS ENUM ('timestamp', 'random', 'manual')`,
		"discount_type":    `CREATE TYPE discount_type AS ENUM ('percentage', 'fixed')`,
		"webhook_status":   `CREATE TYPE webhook_status AS ENUM ('pending', 'processing', 'completed', 'failed')`,
	}

	for name, ddl := range types {
		var exists bool
		db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = ?)`, name).Scan(&exists)
		if !exists {
			if err := db.Exec(ddl).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
