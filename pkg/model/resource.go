package model

import "time"

// Resource is a protected target (URL pattern, method or pointcut).
// ResourceName and HTTPMethod together form its natural key.
type Resource struct {
	ID           uint         `gorm:"column:id;primaryKey"`
	ResourceName string       `gorm:"column:resource_name;not null;uniqueIndex:idx_resources_name_method"`
	HTTPMethod   string       `gorm:"column:http_method;not null;uniqueIndex:idx_resources_name_method"`
	ResourceType ResourceType `gorm:"column:resource_type;type:text;not null"`
	OrderNum     int          `gorm:"column:order_num;not null"`
	Roles        []Role       `gorm:"many2many:role_resources;joinForeignKey:ResourceID;joinReferences:RoleID"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime"`
}

func (Resource) TableName() string {
	return "resources"
}

// RoleNames returns the names of the roles allowed on the resource
func (r Resource) RoleNames() []string {
	return roleNames(r.Roles)
}

// HasRole reports whether roleName is bound to the resource
func (r Resource) HasRole(roleName string) bool {
	for _, role := range r.Roles {
		if role.RoleName == roleName {
			return true
		}
	}
	return false
}
