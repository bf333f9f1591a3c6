package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
)

// Ensure ResourcesStore implements store.ResourcesStore
var _ store.ResourcesStore = (*ResourcesStore)(nil)

// ResourcesStore implements store.ResourcesStore using GORM
type ResourcesStore struct {
	db *gorm.DB
}

// NewResourcesStore creates a new ResourcesStore
func NewResourcesStore(db *gorm.DB) *ResourcesStore {
	return &ResourcesStore{db: db}
}

// FindResourceByNameAndMethod returns the resource with its roles preloaded
func (s *ResourcesStore) FindResourceByNameAndMethod(ctx context.Context, name, httpMethod string) (*model.Resource, error) {
	var resource model.Resource
	err := s.db.WithContext(ctx).
		Preload("Roles").
		Where("resource_name = ? AND http_method = ?", name, httpMethod).
		First(&resource).Error
	if err != nil {
		return nil, classify("find resource", err)
	}
	return &resource, nil
}

// SaveResource inserts or updates a resource. Role bindings are added, never removed.
func (s *ResourcesStore) SaveResource(ctx context.Context, resource *model.Resource) error {
	return classify("save resource", s.db.WithContext(ctx).Save(resource).Error)
}
