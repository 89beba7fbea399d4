package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) registerSyncStatusRoutes(r *mux.Router) {
	r.HandleFunc("/sync-status", s.handleGetSyncStatus).Methods(http.MethodPost)
}

type syncStatusRequest struct {
	Paths []string `json:"paths"`
}

// get_sync_status(paths) -> { path: SyncStatus }
func (s *Server) handleGetSyncStatus(w http.ResponseWriter, r *http.Request) {
	var req syncStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	paths := make([]string, len(req.Paths))
	for i, p := range req.Paths {
		paths[i] = expandTilde(p)
	}
	writeJSON(w, http.StatusOK, s.SyncProber.Classify(r.Context(), paths))
}
