// Package config provides configuration management for coresecurity.
//
// Configuration is layered: built-in defaults, then the YAML file at
// $CORESEC_CONFIG_PATH/coresecurity.yml, then CORESEC_* environment
// variables. Every attribute remembers which layer set it.
//
// # Key Configuration Options
//
//   - CORESEC_TRUSTED_PROXIES: proxies whose X-Forwarded-For is honoured
//   - CORESEC_ACCESS_IP_CHECK_ENABLED: enforce the IP allow-list
//   - CORESEC_SEED_ON_STARTUP: seed defaults when the server is ready
//   - CORESEC_SEED_FILE: YAML rule table replacing the defaults
//   - CORESEC_SEED_ACCESS_IPS: addresses seeded into the allow-list
//   - CORESEC_BCRYPT_COST: password hashing work factor
//   - DATABASE_URL: database connection (read by pkg/db)
package config
