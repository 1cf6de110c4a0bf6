package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sparklabs/sparkchat/internal/model/chat"
)

// turnRecord is the persisted row shape. Seq is an auto-increment column
// used only to break timestamp ties in insertion order; it never leaves
// the store.
type turnRecord struct {
	Seq       uint   `gorm:"primaryKey;autoIncrement"`
	ID        string `gorm:"uniqueIndex;size:36"`
	Role      string `gorm:"size:16"`
	Text      string
	Timestamp time.Time `gorm:"index"`
}

func (turnRecord) TableName() string { return "turns" }

// GormStore implements Store on top of a relational database via GORM.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the database selected by the DSN and runs migrations.
// A postgres:// URL opens PostgreSQL; anything else is a SQLite path
// (including file::memory: for tests).
func Open(dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := db.AutoMigrate(&turnRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}

	return &GormStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Append persists one turn. Id and timestamp are assigned here when the
// caller left them empty, so timestamps are non-decreasing in insertion
// order for a single writer.
func (s *GormStore) Append(ctx context.Context, turn chat.Turn) (chat.Turn, error) {
	if turn.Text == "" || !turn.Role.Valid() {
		return chat.Turn{}, ErrInvalidTurn
	}

	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}

	record := turnRecord{
		ID:        turn.ID,
		Role:      string(turn.Role),
		Text:      turn.Text,
		Timestamp: turn.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return chat.Turn{}, fmt.Errorf("failed to append turn: %w", err)
	}

	return turn, nil
}

// ListAll returns the full log ordered by timestamp, insertion order as
// tiebreak. Legacy role tags are normalized on the way out.
func (s *GormStore) ListAll(ctx context.Context) ([]chat.Turn, error) {
	var records []turnRecord
	err := s.db.WithContext(ctx).
		Order("timestamp ASC, seq ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}

	turns := make([]chat.Turn, 0, len(records))
	for _, record := range records {
		turns = append(turns, chat.Turn{
			ID:        record.ID,
			Role:      chat.Role(record.Role).Normalize(),
			Text:      record.Text,
			Timestamp: record.Timestamp,
		})
	}
	return turns, nil
}

// ClearAll removes every turn with one bulk delete.
func (s *GormStore) ClearAll(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&turnRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear turns: %w", err)
	}
	return nil
}
