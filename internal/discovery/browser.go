// Package discovery continuously browses the LAN for SMB hosts via mDNS
// (spec §4.7), maintaining a host map and a discovery-state machine that
// the RPC layer exposes read-only.
package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/duopane/engine/pkg/log"
	"github.com/duopane/engine/pkg/types"
)

const (
	serviceType   = "_smb._tcp"
	browseDomain  = "local."
	resolveWindow = 5 * time.Second
	quietWindow   = 1500 * time.Millisecond
)

// Events are the UI-facing callbacks the browser fires. Each must return
// promptly; the browser's event loop blocks on every call.
type Events struct {
	HostFound    func(types.NetworkHost)
	HostResolved func(types.NetworkHost)
	HostLost     func(hostID string)
	StateChanged func(types.DiscoveryState)
}

// Browser owns the mDNS resolver goroutine and the host map it feeds.
type Browser struct {
	events Events

	mu             sync.Mutex
	state          types.DiscoveryState
	hosts          map[string]types.NetworkHost
	resolveCancels map[string]context.CancelFunc

	resolver *zeroconf.Resolver

	cancelBrowse context.CancelFunc
	quietTimer   *time.Timer
	done         chan struct{}
}

// NewBrowser returns an idle Browser; call Start to begin browsing.
func NewBrowser(events Events) *Browser {
	return &Browser{
		events:         events,
		state:          types.DiscoveryIdle,
		hosts:          make(map[string]types.NetworkHost),
		resolveCancels: make(map[string]context.CancelFunc),
	}
}

// Start creates the mDNS resolver and begins browsing for _smb._tcp.local.
// services. State transitions to Searching immediately.
func (b *Browser) Start(ctx context.Context) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return err
	}

	browseCtx, cancel := context.WithCancel(ctx)
	entries := make(chan *zeroconf.ServiceEntry, 16)
	if err := resolver.Browse(browseCtx, serviceType, browseDomain, entries); err != nil {
		cancel()
		return err
	}

	b.mu.Lock()
	b.resolver = resolver
	b.cancelBrowse = cancel
	b.done = make(chan struct{})
	b.setState(types.DiscoverySearching)
	b.mu.Unlock()

	go b.run(browseCtx, entries)
	return nil
}

// Stop cancels the browse, cancels every in-flight resolution, drops the
// host map, and returns the browser to Idle (spec §4.7 "stop_discovery").
func (b *Browser) Stop() {
	b.mu.Lock()
	if b.cancelBrowse != nil {
		b.cancelBrowse()
	}
	for hostID, cancel := range b.resolveCancels {
		cancel()
		delete(b.resolveCancels, hostID)
	}
	b.hosts = make(map[string]types.NetworkHost)
	b.setState(types.DiscoveryIdle)
	done := b.done
	b.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Hosts returns a snapshot of the current host map.
func (b *Browser) Hosts() []types.NetworkHost {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.NetworkHost, 0, len(b.hosts))
	for _, h := range b.hosts {
		out = append(out, h)
	}
	return out
}

// State returns the current discovery-state machine value.
func (b *Browser) State() types.DiscoveryState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// setState must be called with mu held.
func (b *Browser) setState(s types.DiscoveryState) {
	if b.state == s {
		return
	}
	b.state = s
	if b.events.StateChanged != nil {
		b.events.StateChanged(s)
	}
}

func (b *Browser) run(ctx context.Context, entries <-chan *zeroconf.ServiceEntry) {
	defer close(b.done)

	timer := time.NewTimer(quietWindow)
	defer timer.Stop()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			b.handleEntry(entry)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(quietWindow)
		case <-timer.C:
			b.mu.Lock()
			if b.state == types.DiscoverySearching {
				b.setState(types.DiscoveryActive)
			}
			b.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

func (b *Browser) handleEntry(entry *zeroconf.ServiceEntry) {
	if entry.TTL == 0 {
		b.serviceLost(entry.Instance)
		return
	}
	b.serviceFound(entry)
}

func (b *Browser) serviceFound(entry *zeroconf.ServiceEntry) {
	hostID := deriveHostID(entry.Instance)
	host := types.NetworkHost{
		HostID:      hostID,
		DisplayName: entry.Instance,
		Port:        445,
	}

	b.mu.Lock()
	b.hosts[hostID] = host
	b.mu.Unlock()

	if b.events.HostFound != nil {
		b.events.HostFound(host)
	}
	b.startResolution(hostID, entry)
}

func (b *Browser) serviceLost(instance string) {
	hostID := deriveHostID(instance)

	b.mu.Lock()
	if cancel, ok := b.resolveCancels[hostID]; ok {
		cancel()
		delete(b.resolveCancels, hostID)
	}
	_, existed := b.hosts[hostID]
	delete(b.hosts, hostID)
	b.mu.Unlock()

	if existed && b.events.HostLost != nil {
		b.events.HostLost(hostID)
	}
}

// startResolution performs the 5 s-bounded hostname/address lookup for a
// newly found instance (spec §4.7 "service-found"). One IPv4 address is
// preferred over IPv6 when both are present.
func (b *Browser) startResolution(hostID string, entry *zeroconf.ServiceEntry) {
	rctx, cancel := context.WithTimeout(context.Background(), resolveWindow)

	b.mu.Lock()
	resolver := b.resolver
	b.resolveCancels[hostID] = cancel
	b.mu.Unlock()

	if resolver == nil {
		cancel()
		return
	}

	go func() {
		defer cancel()
		results := make(chan *zeroconf.ServiceEntry, 1)
		err := resolver.Lookup(rctx, entry.Instance, entry.Service, entry.Domain, results)
		if err != nil {
			log.WithComponent("discovery").Debug().Err(err).Str("instance", entry.Instance).Msg("resolution failed")
			return
		}

		select {
		case resolved, ok := <-results:
			if !ok {
				return
			}
			ip := preferIPv4(resolved.AddrIPv4, resolved.AddrIPv6)
			if ip == "" {
				return
			}

			b.mu.Lock()
			host, stillKnown := b.hosts[hostID]
			delete(b.resolveCancels, hostID)
			if !stillKnown {
				b.mu.Unlock()
				return
			}
			host.Hostname = resolved.HostName
			host.IPAddress = ip
			b.hosts[hostID] = host
			b.mu.Unlock()

			if b.events.HostResolved != nil {
				b.events.HostResolved(host)
			}
		case <-rctx.Done():
		}
	}()
}
