package config

import (
	"fmt"
	"time"

	"parking-marketplace-backend/db/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// allModels defines all models that should be migrated.
// This is the only place you need to add new models
var allModels = []interface{}{
	&models.User{},
	&models.Vehicle{},
	&models.ParkingSpace{},
	&models.SpaceAvailability{},
	&models.PromoCode{},
	&models.Reservation{},
	&models.Payment{},
}

func ConfigureDatabase() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		GetEnv("DB_HOST"),
		GetEnv("POSTGRES_USER"),
		GetEnv("POSTGRES_PASSWORD"),
		GetEnv("POSTGRES_DB"),
		GetEnvDefault("DB_PORT", "5432"),
		GetEnvDefault("DB_TIMEZONE", "UTC"),
	)

	logLevel := gormlogger.Warn
	if IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		Logger.Fatal("[DB-CONNECT] Failed to connect to database", zap.Error(err))
	}

	// The range exclusion constraints need equality operators on uuid/int inside a gist index.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		Logger.Fatal("[DB-MIGRATE] Failed to enable btree_gist", zap.Error(err))
	}

	if err := db.AutoMigrate(allModels...); err != nil {
		Logger.Fatal("[DB-MIGRATE] Failed to migrate tables", zap.Error(err))
	}
	Logger.Info("[DB-MIGRATE] Tables migrated successfully")

	if err := runExtraMigrations(db); err != nil {
		Logger.Fatal("[DB-MIGRATE] Extra migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		Logger.Fatal("[DB-POOL] Failed to get underlying DB connection", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	Logger.Info("[DB-STATUS] Database setup complete")
	return db
}
