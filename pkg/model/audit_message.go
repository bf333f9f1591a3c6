package model

import "time"

// AuditMessage is one persisted audit event
type AuditMessage struct {
	ID       uint      `gorm:"column:id;primaryKey"`
	LoggedAt time.Time `gorm:"column:logged_at;not null"`
	MsgID    string    `gorm:"column:msgid;not null"`
	Severity int       `gorm:"column:severity;not null"`
	Facility int       `gorm:"column:facility;not null"`
	Hostname string    `gorm:"column:hostname"`
	// Subject is the seeding source or the rejected client address
	Subject string `gorm:"column:subject"`
	Result  string `gorm:"column:result"`
	SData   string `gorm:"column:sdata;type:jsonb"`
	Message string `gorm:"column:message;not null"`
}

func (AuditMessage) TableName() string {
	return "audit_messages"
}
