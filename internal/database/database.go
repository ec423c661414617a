package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/estudiolex/subastas-backend/internal/config"
	"github.com/estudiolex/subastas-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres pool. The handle is passed explicitly into
// every service; there is no package-global client.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return db, nil
}

// Migrate runs AutoMigrate for all entities and installs the partial
// unique index backing the one-primary-image-per-auction invariant.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.ActivityLog{},
		&models.Auction{},
		&models.AuctionImage{},
		&models.PracticeArea{},
		&models.TeamMember{},
		&models.PageContent{},
		&models.StudioContent{},
		&models.Information{},
		&models.NewsletterSubscriber{},
		&models.EmailCampaign{},
		&models.Setting{},
		&models.SystemLog{},
	); err != nil {
		return err
	}

	// Partial indexes are Postgres-only; SQLite test databases rely on
	// the transactional clear-then-set in AuctionService instead.
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_auction_images_one_primary
			 ON auction_images (auction_id) WHERE is_primary`,
		).Error; err != nil {
			return fmt.Errorf("failed to create primary-image index: %w", err)
		}
	}
	return nil
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
