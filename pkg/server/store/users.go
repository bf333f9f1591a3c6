package store

import (
	"context"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
)

// UsersStore abstracts user storage operations
type UsersStore interface {
	// FindUserByUsername returns the user with its roles.
	// Returns ErrNotFound if the user doesn't exist.
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)

	// SaveUser inserts or updates a user together with its role bindings
	SaveUser(ctx context.Context, user *model.User) error
}
