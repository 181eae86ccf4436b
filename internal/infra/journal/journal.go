// Package journal persists each request/result pair to a local SQLite file.
// It is the durable counterpart of the console log: an append-only audit
// trail, not an order book or position store.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"futures_go/internal/domain"
)

// Entry is one recorded operation outcome.
type Entry struct {
	ID            uint   `gorm:"primaryKey"`
	Operation     string `gorm:"index"`
	Symbol        string `gorm:"index"`
	Side          string
	OrderType     string
	Status        string
	OrderID       int64
	ClientOrderID string
	ErrorMessage  string
	Result        string // full OrderResult as JSON
	CreatedAt     time.Time
}

// Journal is an append-only store of operation outcomes.
type Journal struct {
	db *gorm.DB
}

// Open creates or opens the journal database at path.
func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends the outcome of one operation.
func (j *Journal) Record(operation string, result *domain.OrderResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	entry := Entry{
		Operation:     operation,
		Symbol:        result.Symbol,
		Side:          result.Side,
		OrderType:     result.OrderType,
		Status:        result.Status,
		OrderID:       result.OrderID,
		ClientOrderID: result.ClientOrderID,
		ErrorMessage:  result.ErrorMessage,
		Result:        string(payload),
		CreatedAt:     time.Now(),
	}
	return j.db.Create(&entry).Error
}

// Recent returns the latest entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	err := j.db.Order("id desc").Limit(limit).Find(&entries).Error
	return entries, err
}
