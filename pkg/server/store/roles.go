package store

import (
	"context"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
)

// RolesStore abstracts role storage operations
type RolesStore interface {
	// FindRoleByName returns the role named name.
	// Returns ErrNotFound if the role doesn't exist.
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)

	// SaveRole inserts or updates a role, populating its ID
	SaveRole(ctx context.Context, role *model.Role) error
}
