package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"altrion-client/internal/domain/kv"
	loanDomain "altrion-client/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ kv.Store = (*DocumentStore)(nil)

// Table: kv_documents
type document struct {
	Key       string    `gorm:"primaryKey;column:doc_key;size:128"`
	Value     string    `gorm:"column:doc_value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (document) TableName() string { return "kv_documents" }

// DocumentStore is the SQL-backed kv.Store used when no Redis is configured.
type DocumentStore struct{ db *gorm.DB }

func NewDocumentStore(db *gorm.DB) *DocumentStore { return &DocumentStore{db: db} }

func (s *DocumentStore) Get(ctx context.Context, key string, out any) error {
	var d document
	err := s.db.WithContext(ctx).Where("doc_key = ?", key).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return kv.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(d.Value), out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *DocumentStore) Set(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	d := document{Key: key, Value: string(payload), UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"doc_value", "updated_at"}),
		}).
		Create(&d).Error
}

func (s *DocumentStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("doc_key IN ?", keys).Delete(&document{}).Error
}

// Migrate creates the tables owned by this package.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&document{}, &loanDomain.Application{})
}
