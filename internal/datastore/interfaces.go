// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vmcollection/spidermap-go/internal/conf"
)

// Interface abstracts the underlying database implementation and defines the
// operations the rest of the application may perform against the relational store.
type Interface interface {
	Open() error
	Close() error
	SearchSpecimens(ctx context.Context, filters *CompiledFilters) ([]SpecimenRow, error)
	GetSpecimen(ctx context.Context, vmNumber int) (SpecimenRow, error)
	IdentificationsForSpecimen(ctx context.Context, vmNumber int) ([]Identification, error)
	SearchTaxa(ctx context.Context, query string) ([]Taxon, error)
	GetTaxon(ctx context.Context, spCode string) (Taxon, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Database.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Database.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// Close closes the underlying SQL connection pool.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return fmt.Errorf("retrieving generic DB object: %w", err)
	}
	return sqlDB.Close()
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Specimen{}, &Taxon{}, &Identification{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)
}
