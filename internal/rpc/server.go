// Package rpc exposes the engine's components to the UI shell: stateless
// HTTP command handlers plus a one-way websocket event feed (spec §4.12,
// §6).
package rpc

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/duopane/engine/internal/credstore"
	"github.com/duopane/engine/internal/dirreader"
	"github.com/duopane/engine/internal/discovery"
	"github.com/duopane/engine/internal/knownshares"
	"github.com/duopane/engine/internal/listing"
	"github.com/duopane/engine/internal/metrics"
	"github.com/duopane/engine/internal/mountadapter"
	"github.com/duopane/engine/internal/smbshare"
	"github.com/duopane/engine/internal/syncstatus"
	"github.com/duopane/engine/internal/volume"
	"github.com/duopane/engine/pkg/types"
)

// Server wires every component into the RPC surface. Handlers never hold
// a component's internal lock across a suspension point (spec §5); each
// call into a component acquires, mutates or reads, and releases before
// doing any further I/O.
type Server struct {
	Volumes     *volume.Manager
	Listings    *listing.Cache
	Discovery   *discovery.Browser
	Shares      *smbshare.Enumerator
	Credentials *credstore.Store
	KnownShares *knownshares.Store
	Mounts      *mountadapter.Adapter
	SyncProber  *syncstatus.Prober
	ExtendedMetadata *dirreader.Reader
	Metrics     *metrics.Collector

	events *hub
}

// NewServer returns a Server; call Router to obtain the http.Handler to
// serve. collector may be nil, in which case command metrics are not
// recorded.
func NewServer(volumes *volume.Manager, listings *listing.Cache, disc *discovery.Browser, shares *smbshare.Enumerator, creds *credstore.Store, known *knownshares.Store, mounts *mountadapter.Adapter, prober *syncstatus.Prober, extended *dirreader.Reader, collector *metrics.Collector) *Server {
	if collector != nil {
		shares.SetCacheResultHook(func(hit bool) {
			if hit {
				collector.RecordShareCacheHit()
			} else {
				collector.RecordShareCacheMiss()
			}
		})
	}
	return &Server{
		Volumes:          volumes,
		Listings:         listings,
		Discovery:        disc,
		Shares:           shares,
		Credentials:      creds,
		KnownShares:      known,
		Mounts:           mounts,
		SyncProber:       prober,
		ExtendedMetadata: extended,
		Metrics:          collector,
		events:           newHub(),
	}
}

// OnDirectoryDiff is the watcher.EventFunc wired into the listing cache;
// it forwards diffs to every connected UI client (spec §4.5, §6).
func (s *Server) OnDirectoryDiff(evt types.DirectoryDiffEvent) {
	s.events.broadcast(event{Type: "directory-diff", Payload: evt})
}

// EmitHostFound/Resolved/Lost/StateChanged wire discovery.Events into the
// same websocket feed.
func (s *Server) EmitHostFound(h types.NetworkHost)     { s.events.broadcast(event{Type: "network-host-found", Payload: h}) }
func (s *Server) EmitHostResolved(h types.NetworkHost)  { s.events.broadcast(event{Type: "network-host-resolved", Payload: h}) }
func (s *Server) EmitHostLost(hostID string)            { s.events.broadcast(event{Type: "network-host-lost", Payload: map[string]string{"hostId": hostID}}) }
func (s *Server) EmitDiscoveryState(st types.DiscoveryState) {
	s.events.broadcast(event{Type: "network-discovery-state-changed", Payload: map[string]types.DiscoveryState{"state": st}})
}

// EmitVolumeMounted / EmitVolumeUnmounted fire the mount lifecycle events.
func (s *Server) EmitVolumeMounted(volumePath string) {
	s.events.broadcast(event{Type: "volume-mounted", Payload: map[string]string{"volumePath": volumePath}})
}
func (s *Server) EmitVolumeUnmounted(volumePath string) {
	s.events.broadcast(event{Type: "volume-unmounted", Payload: map[string]string{"volumePath": volumePath}})
}

// Router builds the full HTTP mux: listing, network, credentials/known
// shares, sync-status, and the websocket event feed.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.StrictSlash(true)
	if s.Metrics != nil {
		r.Use(s.metricsMiddleware)
	}

	s.registerListingRoutes(r)
	s.registerNetworkRoutes(r)
	s.registerCredentialRoutes(r)
	s.registerSyncStatusRoutes(r)

	r.HandleFunc("/events", s.events.serveWS)
	return r
}

// metricsMiddleware records one command per routed request, named after
// the matched mux route template (e.g. "/listings/{id}/range") rather
// than the literal path, so per-command cardinality stays bounded.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		command := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				command = tmpl
			}
		}

		var err error
		if rec.status >= 400 {
			err = errStatus(rec.status)
		}
		s.Metrics.RecordCommand(command, time.Since(start), err)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type errStatus int

func (e errStatus) Error() string { return http.StatusText(int(e)) }

// ListenAndServe starts an http.Server on addr with sane timeouts; it
// blocks until the server stops or errors.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
