package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store implements store.Store by composing the GORM stores over one handle
type Store struct {
	*RolesStore
	*UsersStore
	*ResourcesStore
	*RoleHierarchyStore
	*AccessIPStore

	db *gorm.DB
}

// NewStore creates a new Store
func NewStore(db *gorm.DB) *Store {
	return &Store{
		RolesStore:         NewRolesStore(db),
		UsersStore:         NewUsersStore(db),
		ResourcesStore:     NewResourcesStore(db),
		RoleHierarchyStore: NewRoleHierarchyStore(db),
		AccessIPStore:      NewAccessIPStore(db),
		db:                 db,
	}
}

// Transaction wraps operations in a database transaction.
// Every store handed to fn shares the same transaction.
func (s *Store) Transaction(ctx context.Context, fn func(store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
