package store

import (
	"context"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
)

// ResourcesStore abstracts protected resource storage operations
type ResourcesStore interface {
	// FindResourceByNameAndMethod returns the resource with its roles.
	// Returns ErrNotFound if no resource has that (name, method) key.
	FindResourceByNameAndMethod(ctx context.Context, name, httpMethod string) (*model.Resource, error)

	// SaveResource inserts or updates a resource together with its role bindings
	SaveResource(ctx context.Context, resource *model.Resource) error
}
