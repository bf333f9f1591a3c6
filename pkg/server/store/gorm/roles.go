package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
)

// Ensure RolesStore implements store.RolesStore
var _ store.RolesStore = (*RolesStore)(nil)

// RolesStore implements store.RolesStore using GORM
type RolesStore struct {
	db *gorm.DB
}

// NewRolesStore creates a new RolesStore
func NewRolesStore(db *gorm.DB) *RolesStore {
	return &RolesStore{db: db}
}

// FindRoleByName returns the role named name
func (s *RolesStore) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := s.db.WithContext(ctx).Where("role_name = ?", name).First(&role).Error; err != nil {
		return nil, classify("find role", err)
	}
	return &role, nil
}

// SaveRole inserts or updates a role
func (s *RolesStore) SaveRole(ctx context.Context, role *model.Role) error {
	return classify("save role", s.db.WithContext(ctx).Save(role).Error)
}
