package bootstrap

import (
	"fmt"
	"strings"
)

// Entity names used in reports and metric labels
const (
	EntityRole          = "role"
	EntityUser          = "user"
	EntityResource      = "resource"
	EntityRoleHierarchy = "role_hierarchy"
	EntityAccessIP      = "access_ip"
)

// Counts tallies find-or-create outcomes for one entity type
type Counts struct {
	Created  int
	Existing int
}

// Report summarises one seeding run. Counts are per lookup, so a record
// reused by several rules is counted as existing once per reuse.
type Report struct {
	Roles         Counts
	Users         Counts
	Resources     Counts
	RoleHierarchy Counts
	AccessIPs     Counts
}

// ByEntity returns the counts keyed by entity name
func (r *Report) ByEntity() map[string]Counts {
	return map[string]Counts{
		EntityRole:          r.Roles,
		EntityUser:          r.Users,
		EntityResource:      r.Resources,
		EntityRoleHierarchy: r.RoleHierarchy,
		EntityAccessIP:      r.AccessIPs,
	}
}

// Created returns the number of records written for the first time
func (r *Report) Created() int {
	return r.Roles.Created + r.Users.Created + r.Resources.Created + r.RoleHierarchy.Created + r.AccessIPs.Created
}

// Existing returns the number of lookups that found a record
func (r *Report) Existing() int {
	return r.Roles.Existing + r.Users.Existing + r.Resources.Existing + r.RoleHierarchy.Existing + r.AccessIPs.Existing
}

func (r *Report) String() string {
	parts := []string{
		fmt.Sprintf("roles=%d/%d", r.Roles.Created, r.Roles.Existing),
		fmt.Sprintf("users=%d/%d", r.Users.Created, r.Users.Existing),
		fmt.Sprintf("resources=%d/%d", r.Resources.Created, r.Resources.Existing),
		fmt.Sprintf("role_hierarchy=%d/%d", r.RoleHierarchy.Created, r.RoleHierarchy.Existing),
		fmt.Sprintf("access_ips=%d/%d", r.AccessIPs.Created, r.AccessIPs.Existing),
	}
	return "created/existing " + strings.Join(parts, " ")
}
