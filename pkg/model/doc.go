// Package model defines the database models for the authorization tables.
//
// # Core Models
//
//   - Role: named authority (ROLE_ADMIN, ROLE_MANAGER, ...)
//   - User: login principal with a hashed password and a role set
//   - Resource: URL pattern, method or pointcut protected by a role set
//   - RoleHierarchy: one node of the role inheritance forest
//   - AccessIP: allow-listed client address
//
// # Database Schema
//
//   - roles, users, user_roles
//   - resources, role_resources
//   - role_hierarchy
//   - access_ip
//
// Natural keys are enforced with unique indexes: roles.role_name,
// users.username, resources(resource_name, http_method),
// role_hierarchy.child_name and access_ip.ip_address.
package model
