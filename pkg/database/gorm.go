package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func getLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true, // Ignore ErrRecordNotFound error for logger
			ParameterizedQueries:      true, // Don't include params in the SQL log
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB, maxOpen int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

// Open connects to postgres or sqlite depending on driver. For sqlite the dsn
// is a file path or ":memory:".
func Open(driver, dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	cfg := &gorm.Config{Logger: getLogger(level)}

	switch driver {
	case DriverPostgres, "":
		db, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
		return db, configureConnectionPool(db, 100)
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
		// sqlite serialises writers; a single connection also keeps ":memory:" shared.
		return db, configureConnectionPool(db, 1)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// NewInMemorySQLite is used by tests and local runs without postgres.
func NewInMemorySQLite() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: getLogger(logger.Silent)})
	if err != nil {
		return nil, err
	}
	return db, configureConnectionPool(db, 1)
}

// EnableExtensions installs what the schema needs on postgres. It is a no-op
// for other dialects.
func EnableExtensions(db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error
}
