package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/spareshop-api/internal/config"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info("Connected to PostgreSQL database",
		zap.String("host", cfg.Host),
		zap.String("db_name", cfg.Name),
	)
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations")

	err := db.AutoMigrate(
		// Catalog
		&entity.Category{},
		&entity.Product{},
		&entity.InventoryMovement{},

		// Agent consignment
		&entity.Agent{},
		&entity.AgentLedger{},
		&entity.AgentPayment{},
		&entity.PaymentAllocation{},

		// Point of sale
		&entity.Transaction{},
		&entity.TransactionItem{},

		// Stock counts
		&entity.Reconciliation{},
		&entity.ReconciliationItem{},

		// System entities
		&entity.AuditLog{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migration completed")
	return nil
}

var defaultCategories = []string{
	"Engine Parts",
	"Brakes",
	"Electrical",
	"Suspension",
	"Filters",
	"Lubricants",
	"Body Parts",
	"Accessories",
}

// SeedDefaultData creates the default spare-part categories on an empty database
func SeedDefaultData(db *gorm.DB, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Category{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, name := range defaultCategories {
			if err := tx.Create(&entity.Category{Name: name, IsActive: true}).Error; err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
		}
		log.Info("Seeded default categories", zap.Int("count", len(defaultCategories)))
		return nil
	})
}

// Ping checks connectivity for the health endpoint
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if sqlDB == nil {
		return errors.New("database handle is not initialised")
	}
	return sqlDB.PingContext(ctx)
}
