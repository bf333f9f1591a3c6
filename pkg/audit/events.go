package audit

import (
	"fmt"
	"strconv"
)

// SeedEvent records one bootstrap seeding run
type SeedEvent struct {
	Source       string // "startup", "cli" or "watch"
	Created      int
	Existing     int
	Success      bool
	ErrorMessage string
}

func (e SeedEvent) MessageID() string {
	return "seed"
}

func (e SeedEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s seeding created %d records, %d already present", e.Source, e.Created, e.Existing)
	}
	msg := fmt.Sprintf("%s seeding failed and was rolled back", e.Source)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SeedEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityError
}

func (e SeedEvent) Facility() int {
	return FacilityAuth
}

func (e SeedEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDSeed: {
			"source":   e.Source,
			"created":  strconv.Itoa(e.Created),
			"existing": strconv.Itoa(e.Existing),
		},
		SDIDAction: {
			"operation": "seed",
			"result":    result,
		},
	}
}

// AccessIPEvent records a request rejected by the IP allow-list
type AccessIPEvent struct {
	ClientIP string
	Method   string
	Path     string
}

func (e AccessIPEvent) MessageID() string {
	return "access-ip"
}

func (e AccessIPEvent) Message() string {
	return fmt.Sprintf("%s denied %s %s: address not allow-listed", e.ClientIP, e.Method, e.Path)
}

func (e AccessIPEvent) Severity() Severity {
	return SeverityWarning
}

func (e AccessIPEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AccessIPEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "access",
			"method":    e.Method,
			"path":      e.Path,
			"result":    "denied",
		},
	}
}
