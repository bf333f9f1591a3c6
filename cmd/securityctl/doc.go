// Command securityctl runs the authorization model server and seeds its
// database with the default roles, users, resources, role hierarchy and
// IP allow-list.
//
// # Architecture
//
//   - pkg/bootstrap: find-or-create seeding of the authorization tables
//   - pkg/server: HTTP server, ready hooks and routing
//   - pkg/server/endpoints: status, metrics and read-only model endpoints
//   - pkg/server/middleware: IP allow-list enforcement
//   - pkg/server/store: storage interfaces and their gorm implementations
//   - pkg/credential: password hashing
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/audit: RFC5424 audit logging
//   - pkg/config: configuration management
//   - pkg/metrics: Prometheus collectors
//
// # Quick Start
//
//	# Run database migrations
//	securityctl db migrate
//
//	# Start the server; the seeder runs once the listener is bound
//	securityctl server
//
//	# Or seed without starting the server
//	securityctl seed
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - CORESEC_CONFIG_PATH: directory holding coresecurity.yml
//   - CORESEC_SEED_ON_STARTUP: run the seeder when the server starts
//   - CORESEC_SEED_FILE: YAML rule table replacing the built-in defaults
//   - CORESEC_ACCESS_IP_CHECK_ENABLED: reject clients missing from the allow-list
//   - CORESEC_LOG_LEVEL: SQL log level (debug, warn, error)
//   - PORT: Server port (default: 8000)
package main
