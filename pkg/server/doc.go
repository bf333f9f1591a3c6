// Package server provides the HTTP server for coresecurity.
//
// The server binds its listener, fires the registered ready hooks (the
// bootstrap seeder among them) and only then starts serving requests. A
// failing hook aborts startup.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, db, metrics.New(), "0.0.0.0", "8000")
//	srv.OnReady(seeder.HandleReady)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// Endpoints are registered via the endpoints subpackage:
//
//   - / - status, including database connectivity
//   - /metrics - Prometheus metrics
//   - /role-hierarchy - persisted hierarchy as "PARENT > CHILD" lines
//   - /access-ips - allow-listed client addresses
package server
