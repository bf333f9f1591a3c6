package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
)

// Ensure AccessIPStore implements store.AccessIPStore
var _ store.AccessIPStore = (*AccessIPStore)(nil)

// AccessIPStore implements store.AccessIPStore using GORM
type AccessIPStore struct {
	db *gorm.DB
}

// NewAccessIPStore creates a new AccessIPStore
func NewAccessIPStore(db *gorm.DB) *AccessIPStore {
	return &AccessIPStore{db: db}
}

// FindAccessIPByAddress returns the allow-list entry for addr
func (s *AccessIPStore) FindAccessIPByAddress(ctx context.Context, addr string) (*model.AccessIP, error) {
	var entry model.AccessIP
	if err := s.db.WithContext(ctx).Where("ip_address = ?", addr).First(&entry).Error; err != nil {
		return nil, classify("find access ip", err)
	}
	return &entry, nil
}

// SaveAccessIP inserts or updates an allow-list entry
func (s *AccessIPStore) SaveAccessIP(ctx context.Context, entry *model.AccessIP) error {
	return classify("save access ip", s.db.WithContext(ctx).Save(entry).Error)
}

// ListAccessIPs returns every allow-listed address ordered by id
func (s *AccessIPStore) ListAccessIPs(ctx context.Context) ([]model.AccessIP, error) {
	var entries []model.AccessIP
	if err := s.db.WithContext(ctx).Order("id").Find(&entries).Error; err != nil {
		return nil, classify("list access ips", err)
	}
	return entries, nil
}
