// Package store provides storage abstractions for the authorization tables.
//
// This package defines interfaces for database operations, allowing the
// bootstrap seeder and the server to be decoupled from the specific database
// implementation. Implementations live in the gorm subpackage.
//
// # Available Stores
//
//   - RolesStore: roles by name
//   - UsersStore: users and their role bindings
//   - ResourcesStore: protected resources by (name, method)
//   - RoleHierarchyStore: role inheritance nodes
//   - AccessIPStore: IP allow-list
//   - HealthStore: database connectivity
//   - Store: all of the above behind a single transaction boundary
//
// # Usage
//
//	err := st.Transaction(ctx, func(tx store.Store) error {
//	    role, err := tx.FindRoleByName(ctx, "ROLE_ADMIN")
//	    if errors.Is(err, store.ErrNotFound) {
//	        // create it
//	    }
//	    ...
//	})
package store
