package echo

import (
	"encoding/json"
	"net/http"
)

func CreateStatusEndpoint(srv *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// only allow GET requests
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(srv.Status()); err != nil {
			return
		}
	}
}
