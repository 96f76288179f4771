// Package store is the client-local state database: the two-key
// credential mirror that survives restarts, and the append-only sales
// log used for receipt reprints and daily digests. It lives in a SQLite
// file under the configured state directory.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vantrevi/gatehouse/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Fixed credential keys. These two entries are the whole durable session
// layout: the bearer token and the identity serialized as JSON.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store wraps the local SQLite database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the state database at path and
// migrates its tables. The parent directory is created when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("store: create %s: %w", dir, err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return NewWithDB(db)
}

// OpenMemory opens an in-memory store, used by tests.
func OpenMemory() (*Store, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open in-memory: %w", err)
	}
	return NewWithDB(db)
}

// NewWithDB wraps an existing gorm connection and migrates the tables.
func NewWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.Credential{}, &models.SaleRecord{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the value for key, or "" when the key is absent.
func (s *Store) Get(key string) (string, error) {
	var cred models.Credential
	err := s.db.First(&cred, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: get %s: %w", key, err)
	}
	return cred.Value, nil
}

// Put upserts key to value.
func (s *Store) Put(key, value string) error {
	cred := models.Credential{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&cred).Error
	if err != nil {
		return fmt.Errorf("store: put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if err := s.db.Delete(&models.Credential{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

// AppendSale records a successfully submitted ticket in the sales log.
func (s *Store) AppendSale(rec models.SaleRecord) error {
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("store: append sale: %w", err)
	}
	return nil
}

// RecentSales returns the newest sales first, capped at limit.
func (s *Store) RecentSales(limit int) ([]models.SaleRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []models.SaleRecord
	if err := s.db.Order("id DESC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("store: recent sales: %w", err)
	}
	return recs, nil
}

// SalesSince returns sales recorded at or after t, oldest first.
func (s *Store) SalesSince(t time.Time) ([]models.SaleRecord, error) {
	var recs []models.SaleRecord
	if err := s.db.Where("created_at >= ?", t).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("store: sales since %s: %w", t.Format(time.RFC3339), err)
	}
	return recs, nil
}

// LastSaleID returns the newest sale ID, or 0 when the log is empty.
func (s *Store) LastSaleID() (uint, error) {
	var rec models.SaleRecord
	err := s.db.Order("id DESC").Limit(1).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: last sale id: %w", err)
	}
	return rec.ID, nil
}

// SalesAfter returns sales with an ID greater than afterID, oldest first.
// The dashboard SSE loop uses this for new-sale detection.
func (s *Store) SalesAfter(afterID uint) ([]models.SaleRecord, error) {
	var recs []models.SaleRecord
	if err := s.db.Where("id > ?", afterID).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("store: sales after %d: %w", afterID, err)
	}
	return recs, nil
}
