package endpoints

import (
	"log"
	"net/http"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/bootstrap"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
)

// RegisterRoleHierarchyEndpoint serves the persisted hierarchy in the
// "PARENT > CHILD" line format
func RegisterRoleHierarchyEndpoint(s *server.Server) {
	s.Router.HandleFunc("/role-hierarchy", handleRoleHierarchy(s.Store)).Methods("GET")
}

func handleRoleHierarchy(hierarchyStore store.RoleHierarchyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nodes, err := hierarchyStore.ListHierarchy(r.Context())
		if err != nil {
			log.Printf("list role hierarchy: %v", err)
			respondWithError(w, http.StatusInternalServerError, "failed to list role hierarchy")
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(bootstrap.FormatHierarchy(nodes)))
	}
}
