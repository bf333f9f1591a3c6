package model

// AccessIP is an allow-listed client address
type AccessIP struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	IPAddress string `gorm:"column:ip_address;uniqueIndex;not null"`
}

func (AccessIP) TableName() string {
	return "access_ip"
}
