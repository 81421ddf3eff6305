package cart

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/burhanistore/storefront-api/models"
)

// GormStore persists a session's cart as a single CartSnapshot row,
// rewritten in full on every save.
type GormStore struct {
	db         *gorm.DB
	sessionKey string
}

func NewGormStore(db *gorm.DB, sessionKey string) *GormStore {
	return &GormStore{db: db, sessionKey: sessionKey}
}

func (s *GormStore) Load() ([]LineItem, error) {
	var snap models.CartSnapshot
	if err := s.db.First(&snap, "session_key = ?", s.sessionKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(snap.Payload), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) Save(items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	snap := models.CartSnapshot{SessionKey: s.sessionKey, Payload: string(payload)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snap).Error
}

func (s *GormStore) Clear() error {
	return s.db.Delete(&models.CartSnapshot{}, "session_key = ?", s.sessionKey).Error
}
