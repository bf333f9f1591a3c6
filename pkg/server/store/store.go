package store

import "context"

// Store groups the collaborators the bootstrap seeder writes through
type Store interface {
	RolesStore
	UsersStore
	ResourcesStore
	RoleHierarchyStore
	AccessIPStore

	// Transaction wraps operations in a database transaction.
	// The provided function receives a transactional Store.
	// If the function returns an error, the transaction is rolled back.
	Transaction(ctx context.Context, fn func(Store) error) error
}
