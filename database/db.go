package database

import (
	"database/sql"
	"log"
	"time"

	"domik/config"
	"domik/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DB is the global gorm handle. Every statement issued through it runs on
// top of the reconnecting pool from reconnect.go.
var DB *gorm.DB

// InitDB opens the MySQL connection behind the retry adapter and migrates
// the schema.
func InitDB() {
	sqlDB, err := sql.Open("mysql", config.DSN())
	if err != nil {
		log.Fatalf("failed to open MySQL connection: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn: NewRetryPool(sqlDB),
	}), &gorm.Config{
		// Default per-write transactions would bypass the retry pool.
		SkipDefaultTransaction: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to MySQL: %v", err)
	}

	if err := gormDB.AutoMigrate(&models.Resource{}, &models.Image{}, &models.Booking{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	DB = gormDB
	log.Println("Connected to MySQL successfully!")
}

// GetDB returns the global handle, initializing it on first use.
func GetDB() *gorm.DB {
	if DB == nil {
		InitDB()
	}
	return DB
}

// NewDB swaps the global handle; used by tests to install a mock.
func NewDB(db *gorm.DB) {
	DB = db
}
