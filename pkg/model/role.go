package model

import "time"

// Role is a named authority that users and resources are bound to
type Role struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	RoleName  string    `gorm:"column:role_name;uniqueIndex;not null"`
	RoleDesc  string    `gorm:"column:role_desc"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Role) TableName() string {
	return "roles"
}
