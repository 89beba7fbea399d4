package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/duopane/engine/pkg/types"
)

func (s *Server) registerCredentialRoutes(r *mux.Router) {
	r.HandleFunc("/credentials", s.handleSaveCredentials).Methods(http.MethodPost)
	r.HandleFunc("/credentials", s.handleGetCredentials).Methods(http.MethodGet)
	r.HandleFunc("/credentials/exists", s.handleHasCredentials).Methods(http.MethodGet)
	r.HandleFunc("/credentials", s.handleDeleteCredentials).Methods(http.MethodDelete)

	r.HandleFunc("/known-shares", s.handleGetKnownShares).Methods(http.MethodGet)
	r.HandleFunc("/known-shares/by-name", s.handleGetKnownShareByName).Methods(http.MethodGet)
	r.HandleFunc("/known-shares", s.handleUpdateKnownShare).Methods(http.MethodPost)
	r.HandleFunc("/known-shares/username-hints", s.handleUsernameHints).Methods(http.MethodGet)
}

type credentialRequest struct {
	Server   string `json:"server"`
	Share    string `json:"share"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// save_smb_credentials(server, share, username, password)
func (s *Server) handleSaveCredentials(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.Credentials.Save(req.Server, req.Share, req.Username, req.Password); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// get_smb_credentials(server, share) -> {username, password}?
func (s *Server) handleGetCredentials(w http.ResponseWriter, r *http.Request) {
	server := r.URL.Query().Get("server")
	share := r.URL.Query().Get("share")
	username, password, err := s.Credentials.Get(server, share)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": username, "password": password})
}

// has_smb_credentials(server, share) -> bool
func (s *Server) handleHasCredentials(w http.ResponseWriter, r *http.Request) {
	server := r.URL.Query().Get("server")
	share := r.URL.Query().Get("share")
	writeJSON(w, http.StatusOK, map[string]bool{"exists": s.Credentials.Has(server, share)})
}

// delete_smb_credentials(server, share)
func (s *Server) handleDeleteCredentials(w http.ResponseWriter, r *http.Request) {
	server := r.URL.Query().Get("server")
	share := r.URL.Query().Get("share")
	if err := s.Credentials.Delete(server, share); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// get_known_shares() -> [KnownNetworkShare]
func (s *Server) handleGetKnownShares(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.KnownShares.All())
}

// get_known_share_by_name(server, share) -> KnownNetworkShare?
func (s *Server) handleGetKnownShareByName(w http.ResponseWriter, r *http.Request) {
	server := r.URL.Query().Get("server")
	share := r.URL.Query().Get("share")
	rec, ok := s.KnownShares.ByName(server, share)
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// update_known_share(record)
func (s *Server) handleUpdateKnownShare(w http.ResponseWriter, r *http.Request) {
	var rec types.KnownNetworkShare
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.KnownShares.Update(rec); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// get_username_hints() -> { server: username }
func (s *Server) handleUsernameHints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.KnownShares.UsernameHints())
}
