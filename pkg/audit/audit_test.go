package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := SeedEvent{
		Source:   "startup",
		Created:  18,
		Existing: 0,
		Success:  true,
	}

	logger.Log(event)

	output := buf.String()

	// <PRI> = FacilityAuth*8 + SeverityNotice
	if !strings.HasPrefix(output, "<37>1 ") {
		t.Errorf("Expected PRI <37>1, got %q", output)
	}
	if !strings.Contains(output, " coresecurity ") {
		t.Error("Expected app name 'coresecurity' in output")
	}
	if !strings.Contains(output, " seed ") {
		t.Error("Expected message ID 'seed' in output")
	}
	if !strings.Contains(output, `[action@32473 operation="seed" result="success"]`) {
		t.Errorf("Expected sorted action SD element in output, got %q", output)
	}
	if !strings.Contains(output, "created 18 records") {
		t.Error("Expected record count in output")
	}
}

func TestSeedEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   SeedEvent
		wantMsg string
		wantSev Severity
		result  string
	}{
		{
			name:    "successful run",
			event:   SeedEvent{Source: "cli", Created: 3, Existing: 15, Success: true},
			wantMsg: "cli seeding created 3 records, 15 already present",
			wantSev: SeverityNotice,
			result:  "success",
		},
		{
			name:    "failed run",
			event:   SeedEvent{Source: "startup", Success: false, ErrorMessage: "storage unavailable"},
			wantMsg: "startup seeding failed and was rolled back: storage unavailable",
			wantSev: SeverityError,
			result:  "failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Message(); got != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.event.Severity(); got != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", got, tt.wantSev)
			}
			if got := tt.event.MessageID(); got != "seed" {
				t.Errorf("MessageID() = %q, want 'seed'", got)
			}
			if got := tt.event.StructuredData()[SDIDAction]["result"]; got != tt.result {
				t.Errorf("result = %q, want %q", got, tt.result)
			}
		})
	}
}

func TestAccessIPEvent(t *testing.T) {
	event := AccessIPEvent{ClientIP: "10.1.2.3", Method: "GET", Path: "/admin/users"}

	if got := event.Message(); got != "10.1.2.3 denied GET /admin/users: address not allow-listed" {
		t.Errorf("Message() = %q", got)
	}
	if event.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want warning", event.Severity())
	}
	if event.Facility() != FacilityAuthPriv {
		t.Errorf("Facility() = %v, want %v", event.Facility(), FacilityAuthPriv)
	}
	sd := event.StructuredData()
	if sd[SDIDClient]["ip"] != "10.1.2.3" {
		t.Errorf("client ip = %q", sd[SDIDClient]["ip"])
	}
	if sd[SDIDAction]["result"] != "denied" {
		t.Errorf("result = %q", sd[SDIDAction]["result"])
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`a"b`, `"a\"b"`},
		{`a]b`, `"a\]b"`},
		{`a\b`, `"a\\b"`},
	}
	for _, tt := range tests {
		if got := escapeSDValue(tt.in); got != tt.want {
			t.Errorf("escapeSDValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatStructuredDataEmpty(t *testing.T) {
	if got := formatStructuredData(nil); got != "" {
		t.Errorf("formatStructuredData(nil) = %q, want empty", got)
	}
}

func TestLogDisabled(t *testing.T) {
	var buf bytes.Buffer
	prev := DefaultLogger
	DefaultLogger = NewLogger()
	DefaultLogger.SetWriter(&buf)
	SetEnabled(false)
	defer func() {
		DefaultLogger = prev
		SetEnabled(true)
	}()

	Log(AccessIPEvent{ClientIP: "10.1.2.3", Method: "GET", Path: "/"})

	if buf.Len() != 0 {
		t.Errorf("expected no output when audit is disabled, got %q", buf.String())
	}
}
