// Package audit provides audit logging for coresecurity operations.
//
// Events are written as RFC5424 syslog lines to stdout and, once UseStore
// has been given a Store, persisted to the audit_messages table.
//
// # Event Types
//
//   - SeedEvent: a bootstrap seeding run, with created and existing counts
//   - AccessIPEvent: a request rejected by the IP allow-list
//
// # Usage
//
//	audit.UseStore(audit.NewStore(database))
//	audit.Log(audit.SeedEvent{Source: "startup", Created: 22, Success: true})
//
// Set CORESEC_AUDIT_ENABLED=false to disable audit output.
package audit
