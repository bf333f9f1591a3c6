package endpoints

import (
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server"
)

// RegisterAll registers all endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterMetricsEndpoint(srv)
	RegisterRoleHierarchyEndpoint(srv)
	RegisterAccessIPsEndpoint(srv)
}
