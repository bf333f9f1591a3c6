package gorm

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
)

// Ensure RoleHierarchyStore implements store.RoleHierarchyStore
var _ store.RoleHierarchyStore = (*RoleHierarchyStore)(nil)

// RoleHierarchyStore implements store.RoleHierarchyStore using GORM
type RoleHierarchyStore struct {
	db *gorm.DB
}

// NewRoleHierarchyStore creates a new RoleHierarchyStore
func NewRoleHierarchyStore(db *gorm.DB) *RoleHierarchyStore {
	return &RoleHierarchyStore{db: db}
}

// FindHierarchyByChildName returns the node for a role name
func (s *RoleHierarchyStore) FindHierarchyByChildName(ctx context.Context, childName string) (*model.RoleHierarchy, error) {
	var node model.RoleHierarchy
	if err := s.db.WithContext(ctx).Where("child_name = ?", childName).First(&node).Error; err != nil {
		return nil, classify("find role hierarchy", err)
	}
	return &node, nil
}

// SaveHierarchy inserts or updates a node. Only ParentID is written for the
// parent link; the Parent association itself is never upserted.
func (s *RoleHierarchyStore) SaveHierarchy(ctx context.Context, node *model.RoleHierarchy) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(node).Error
	return classify("save role hierarchy", err)
}

// ListHierarchy returns every node ordered by id with its parent preloaded
func (s *RoleHierarchyStore) ListHierarchy(ctx context.Context) ([]model.RoleHierarchy, error) {
	var nodes []model.RoleHierarchy
	if err := s.db.WithContext(ctx).Preload("Parent").Order("id").Find(&nodes).Error; err != nil {
		return nil, classify("list role hierarchy", err)
	}
	return nodes, nil
}
