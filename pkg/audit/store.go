package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
)

// Store persists audit events to the audit_messages table
type Store struct {
	db       *gorm.DB
	hostname string
	now      func() time.Time
}

// NewStore creates a store on an open connection, usually the one from pkg/db
func NewStore(db *gorm.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{db: db, hostname: hostname, now: time.Now}
}

// Save writes one row for event
func (s *Store) Save(ctx context.Context, event Event) error {
	if s == nil || s.db == nil {
		return nil
	}

	row, err := s.messageFor(event)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("save audit %s: %w", event.MessageID(), err)
	}
	return nil
}

// messageFor flattens event into a row. Subject and Result are lifted out
// of the structured data so they can be filtered without touching JSON.
func (s *Store) messageFor(event Event) (*model.AuditMessage, error) {
	sd := event.StructuredData()
	sdata, err := json.Marshal(sd)
	if err != nil {
		return nil, fmt.Errorf("encode audit sdata: %w", err)
	}

	subject := sd[SDIDSeed]["source"]
	if ip, ok := sd[SDIDClient]["ip"]; ok {
		subject = ip
	}

	return &model.AuditMessage{
		LoggedAt: s.now().UTC(),
		MsgID:    event.MessageID(),
		Severity: int(event.Severity()),
		Facility: event.Facility(),
		Hostname: s.hostname,
		Subject:  subject,
		Result:   sd[SDIDAction]["result"],
		SData:    string(sdata),
		Message:  event.Message(),
	}, nil
}
