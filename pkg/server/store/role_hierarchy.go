package store

import (
	"context"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
)

// RoleHierarchyStore abstracts role hierarchy storage operations
type RoleHierarchyStore interface {
	// FindHierarchyByChildName returns the node for a role name.
	// Returns ErrNotFound if the node doesn't exist.
	FindHierarchyByChildName(ctx context.Context, childName string) (*model.RoleHierarchy, error)

	// SaveHierarchy inserts or updates a node, including its parent link
	SaveHierarchy(ctx context.Context, node *model.RoleHierarchy) error

	// ListHierarchy returns every node with its parent preloaded
	ListHierarchy(ctx context.Context) ([]model.RoleHierarchy, error)
}
