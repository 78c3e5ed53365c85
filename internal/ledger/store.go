package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store is the sqlite-backed ledger. It both appends the per-cycle record
// and serves the trailing-window reads.
type Store struct {
	db    *gorm.DB
	nowFn func() time.Time
}

func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("ledger store path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger dir failed: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&tradeModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One writer (the cycle) plus occasional HTTP reads.
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Store{db: db, nowFn: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Append writes exactly one record. Called once per cycle, order or not.
func (s *Store) Append(ctx context.Context, rec TradeRecord) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("ledger store not initialized")
	}
	model := newTradeModel(rec)
	return s.db.WithContext(ctx).Create(&model).Error
}

// RecentTrades returns records newer than windowDays ago, most recent first.
func (s *Store) RecentTrades(ctx context.Context, windowDays int) ([]TradeRecord, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("ledger store not initialized")
	}
	cutoff := s.nowFn().UTC().AddDate(0, 0, -windowDays).Format(time.RFC3339)
	var models []tradeModel
	if err := s.db.WithContext(ctx).
		Where("timestamp > ?", cutoff).
		Order("timestamp DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	records := make([]TradeRecord, 0, len(models))
	for _, m := range models {
		records = append(records, m.toRecord())
	}
	return records, nil
}

// Latest returns up to limit records, most recent first. Serves the HTTP API.
func (s *Store) Latest(ctx context.Context, limit int) ([]TradeRecord, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("ledger store not initialized")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var models []tradeModel
	if err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	records := make([]TradeRecord, 0, len(models))
	for _, m := range models {
		records = append(records, m.toRecord())
	}
	return records, nil
}
