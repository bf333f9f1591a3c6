package model

// RoleHierarchy is one node of the role inheritance forest. ChildName holds
// the role name the node stands for; ParentID links to the node whose
// permissions it inherits.
type RoleHierarchy struct {
	ID        uint           `gorm:"column:id;primaryKey"`
	ChildName string         `gorm:"column:child_name;uniqueIndex;not null"`
	ParentID  *uint          `gorm:"column:parent_id"`
	Parent    *RoleHierarchy `gorm:"foreignKey:ParentID"`
}

func (RoleHierarchy) TableName() string {
	return "role_hierarchy"
}
