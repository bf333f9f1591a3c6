package endpoints

import (
	"log"
	"net/http"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
)

// AccessIPsResponse represents the response from GET /access-ips
type AccessIPsResponse struct {
	Addresses []string `json:"addresses"`
}

// RegisterAccessIPsEndpoint lists the IP allow-list
func RegisterAccessIPsEndpoint(s *server.Server) {
	s.Router.HandleFunc("/access-ips", handleAccessIPs(s.Store)).Methods("GET")
}

func handleAccessIPs(accessIPStore store.AccessIPStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := accessIPStore.ListAccessIPs(r.Context())
		if err != nil {
			log.Printf("list access ips: %v", err)
			respondWithError(w, http.StatusInternalServerError, "failed to list access ips")
			return
		}

		addrs := make([]string, 0, len(entries))
		for _, e := range entries {
			addrs = append(addrs, e.IPAddress)
		}
		respondWithJSON(w, http.StatusOK, AccessIPsResponse{Addresses: addrs})
	}
}
