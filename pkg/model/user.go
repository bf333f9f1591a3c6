package model

import "time"

// User is a login principal. Password always holds a hasher digest.
type User struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Username  string    `gorm:"column:username;uniqueIndex;not null"`
	Password  string    `gorm:"column:password;not null"`
	Enabled   bool      `gorm:"column:enabled;not null"`
	Roles     []Role    `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}

// RoleNames returns the names of the roles bound to the user
func (u User) RoleNames() []string {
	return roleNames(u.Roles)
}

func roleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.RoleName)
	}
	return names
}
