package database

import (
	"os"
	"time"

	"gym-backoffice/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal().Msg("DB_DSN not set. Please configure your database.")
	}

	var err error

	// Wait for the DB to be ready (docker-compose startup order)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database after 5 attempts")
	}

	log.Info().Msg("Connected to MySQL")

	if err := Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("Failed to sync database schema")
	}
	log.Info().Msg("Database schema synced")
}

// Migrate syncs the schema. Exposed separately so tests can migrate an
// in-memory sqlite database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Setting{},
		&models.MembershipPackage{},
		&models.ClassPackage{},
		&models.PTPackage{},
		&models.Product{},
		&models.BranchStock{},
		&models.StockLog{},
		&models.Promo{},
		&models.Voucher{},
		&models.DiscountUsage{},
		&models.Transaction{},
		&models.TransactionLine{},
		&models.MembershipGrant{},
		&models.ClassPassGrant{},
		&models.PTSessionGrant{},
	)
}
