package rpc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/duopane/engine/internal/smbshare"
	"github.com/duopane/engine/pkg/types"
)

func (s *Server) registerNetworkRoutes(r *mux.Router) {
	r.HandleFunc("/network/hosts", s.handleListNetworkHosts).Methods(http.MethodGet)
	r.HandleFunc("/network/discovery-state", s.handleDiscoveryState).Methods(http.MethodGet)
	r.HandleFunc("/network/hosts/{id}/resolve", s.handleResolveHost).Methods(http.MethodPost)
	r.HandleFunc("/network/hosts/{id}/auth-mode", s.handleHostAuthMode).Methods(http.MethodGet)
	r.HandleFunc("/network/shares", s.handleListShares).Methods(http.MethodPost)
	r.HandleFunc("/network/shares/auth", s.handleListSharesWithCredentials).Methods(http.MethodPost)
	r.HandleFunc("/network/shares/prefetch", s.handlePrefetchShares).Methods(http.MethodPost)
	r.HandleFunc("/network/mount", s.handleMountShare).Methods(http.MethodPost)
}

// list_network_hosts() -> [NetworkHost]
func (s *Server) handleListNetworkHosts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Discovery.Hosts())
}

// get_network_discovery_state() -> {state}
func (s *Server) handleDiscoveryState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]types.DiscoveryState{"state": s.Discovery.State()})
}

// resolve_host(host_id) -> NetworkHost?
func (s *Server) handleResolveHost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, h := range s.Discovery.Hosts() {
		if h.HostID == id {
			writeJSON(w, http.StatusOK, h)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// get_host_auth_mode(host_id) -> AuthMode
func (s *Server) handleHostAuthMode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, map[string]types.AuthMode{"authMode": s.Shares.CachedAuthMode(id)})
}

type shareTarget struct {
	HostID   string  `json:"hostId"`
	Hostname string  `json:"hostname"`
	IP       *string `json:"ip,omitempty"`
	Port     int     `json:"port"`
}

// list_shares_on_host(host_id, hostname, ip?, port) -> ShareListResult | ShareListError
func (s *Server) handleListShares(w http.ResponseWriter, r *http.Request) {
	var req shareTarget
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	result, err := s.Shares.List(r.Context(), req.HostID, req.Hostname, req.IP, req.Port)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type shareTargetWithCredentials struct {
	shareTarget
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

// list_shares_with_credentials(host_id, hostname, ip?, port, username?,
// password?) -> ShareListResult | ShareListError
func (s *Server) handleListSharesWithCredentials(w http.ResponseWriter, r *http.Request) {
	var req shareTargetWithCredentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	creds := smbshare.Credentials{}
	if req.Username != nil {
		creds.Username = *req.Username
	}
	if req.Password != nil {
		creds.Password = *req.Password
	}
	result, err := s.Shares.ListWithCredentials(r.Context(), req.HostID, req.Hostname, req.IP, req.Port, creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// prefetch_shares(host_id, hostname, ip?, port) (fire-and-forget)
func (s *Server) handlePrefetchShares(w http.ResponseWriter, r *http.Request) {
	var req shareTarget
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	go func() {
		_, _ = s.Shares.List(context.WithoutCancel(r.Context()), req.HostID, req.Hostname, req.IP, req.Port)
	}()
	w.WriteHeader(http.StatusAccepted)
}

type mountRequest struct {
	Server   string  `json:"server"`
	Share    string  `json:"share"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

// mount_network_share(server, share, username?, password?) -> MountResult
// | MountError
func (s *Server) handleMountShare(w http.ResponseWriter, r *http.Request) {
	var req mountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	username, password := "", ""
	if req.Username != nil {
		username = *req.Username
	}
	if req.Password != nil {
		password = *req.Password
	}

	result, err := s.Mounts.Mount(r.Context(), req.Server, req.Share, username, password)
	if err != nil {
		writeError(w, err)
		return
	}
	s.EmitVolumeMounted(result.MountPath)
	writeJSON(w, http.StatusOK, result)
}
