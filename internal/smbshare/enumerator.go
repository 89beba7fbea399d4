// Package smbshare enumerates SMB shares on a network host via the state
// machine in spec §4.8: cache, guest attempt, optional authenticated
// attempt, and a platform tool fallback.
package smbshare

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/duopane/engine/internal/circuit"
	"github.com/duopane/engine/internal/engineerr"
	"github.com/duopane/engine/pkg/types"
)

const legTimeout = 15 * time.Second

// transport is the seam between the state machine and the wire protocol,
// so tests can substitute a fake without a real SMB server.
type transport interface {
	guestList(ctx context.Context, address, serverName string) ([]rawShare, error)
	authList(ctx context.Context, address, serverName string, creds Credentials) ([]rawShare, error)
}

// Enumerator runs list_shares / list_shares_with_credentials.
type Enumerator struct {
	cache         *cache
	transport     transport
	tool          func(ctx context.Context, serverName string) ([]rawShare, error)
	onCacheResult func(hit bool)
	breakers      *circuit.Manager
}

// NewEnumerator returns a production Enumerator backed by go-smb2 and,
// on darwin, smbutil view as the tool fallback. A per-host circuit
// breaker trips after 3 consecutive dial failures so a host that just
// dropped off the network fails fast instead of re-paying legTimeout on
// every share listing while the UI keeps polling it.
func NewEnumerator(cacheTTL, connectTimeout time.Duration) *Enumerator {
	return &Enumerator{
		cache:     newCache(cacheTTL),
		transport: smb2Transport{dialTimeout: connectTimeout},
		tool:      toolFallback,
		breakers:  circuit.NewManager(circuit.Config{Timeout: 30 * time.Second}),
	}
}

// SetCacheResultHook installs a callback invoked with true on every cache
// hit and false on every miss, letting the RPC layer wire cache
// effectiveness into Prometheus without this package depending on it.
func (e *Enumerator) SetCacheResultHook(fn func(hit bool)) {
	e.onCacheResult = fn
}

// connectionIdentity picks the dial address and the "server name" the
// connection is identified by (spec §4.8 "Connection identity"): by IP
// when known, so the pool matches on the IP; otherwise the hostname with
// a trailing ".local" stripped.
func connectionIdentity(hostname string, ip *string, port int) (address, serverName string) {
	if ip != nil && *ip != "" {
		return net.JoinHostPort(*ip, strconv.Itoa(port)), *ip
	}
	name := strings.TrimSuffix(strings.TrimSuffix(hostname, "."), ".local")
	return net.JoinHostPort(hostname, strconv.Itoa(port)), name
}

// List runs the unauthenticated path: a cache hit short-circuits; a guest
// IPC$ attempt otherwise determines GuestAllowed or AuthRequired.
func (e *Enumerator) List(ctx context.Context, hostID, hostname string, ip *string, port int) (types.ShareListResult, error) {
	now := time.Now()
	if result, ok := e.cache.get(hostID, now); ok {
		if e.onCacheResult != nil {
			e.onCacheResult(true)
		}
		return result, nil
	}
	if e.onCacheResult != nil {
		e.onCacheResult(false)
	}

	address, serverName := connectionIdentity(hostname, ip, port)

	var raw []rawShare
	err := e.withBreaker(ctx, address, func(legCtx context.Context) error {
		var attemptErr error
		raw, attemptErr = e.transport.guestList(legCtx, address, serverName)
		return attemptErr
	})
	if err != nil {
		if err == circuit.ErrOpen {
			return types.ShareListResult{}, engineerr.New(engineerr.CodeHostUnreachable, "host recently unreachable, skipping attempt").
				WithComponent("smbshare").WithOperation("list_shares")
		}
		return types.ShareListResult{}, e.classifyGuestFailure(err)
	}

	result := types.ShareListResult{Shares: filterShares(raw), AuthMode: types.AuthGuestAllowed}
	e.cache.store(hostID, result, now)
	return result, nil
}

// classifyGuestFailure turns a failed guest attempt into AuthRequired,
// unless the failure is an infrastructure-level problem (timeout, host
// unreachable, DNS resolution, mandatory signing) that guest credentials
// could never have resolved, in which case it propagates as-is.
func (e *Enumerator) classifyGuestFailure(err error) error {
	code := engineerr.ClassifyNetworkError(err)
	switch code {
	case engineerr.CodeTimeout, engineerr.CodeHostUnreachable, engineerr.CodeResolutionFailed, engineerr.CodeSigningRequired:
		return e.wrapErr(code, err)
	default:
		return engineerr.New(engineerr.CodeAuthRequired, "guest access rejected").
			WithComponent("smbshare").WithOperation("list_shares").WithCause(err)
	}
}

// withBreaker runs fn, bounded by legTimeout, through the per-address
// circuit breaker. Enumerator built without NewEnumerator (tests) have a
// nil breakers manager and run fn directly.
func (e *Enumerator) withBreaker(ctx context.Context, address string, fn func(context.Context) error) error {
	legCtx, cancel := context.WithTimeout(ctx, legTimeout)
	defer cancel()
	wrapped := func(ctx context.Context) error { return runOnce(ctx, func() error { return fn(ctx) }) }
	if e.breakers == nil {
		return wrapped(legCtx)
	}
	return e.breakers.Get(address).ExecuteWithContext(legCtx, wrapped)
}

// runOnce bounds a single guest/auth/tool attempt to ctx's deadline.
// Each leg of the state machine is tried exactly once; no automatic
// retry is performed, only the deadline wrapper the teacher's own
// SMB-backend grounding uses around a single attempt.
func runOnce(ctx context.Context, fn func() error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 0), ctx)
	return backoff.Retry(fn, policy)
}

// ListWithCredentials runs the authenticated path on a fresh client,
// skipping the cache read (a fresh attempt is the caller's intent) but
// writing on success; it falls back to the platform tool when the
// attempt errors or returns zero shares (spec §4.8 "Tool fallback").
func (e *Enumerator) ListWithCredentials(ctx context.Context, hostID, hostname string, ip *string, port int, creds Credentials) (types.ShareListResult, error) {
	now := time.Now()
	address, serverName := connectionIdentity(hostname, ip, port)

	legCtx, cancel := context.WithTimeout(ctx, legTimeout)
	var raw []rawShare
	authErr := runOnce(legCtx, func() error {
		var attemptErr error
		raw, attemptErr = e.transport.authList(legCtx, address, serverName, creds)
		return attemptErr
	})
	cancel()

	if authErr == nil && len(raw) > 0 {
		result := types.ShareListResult{Shares: filterShares(raw), AuthMode: types.AuthCredsRequired}
		e.cache.store(hostID, result, now)
		return result, nil
	}

	toolCtx, toolCancel := context.WithTimeout(ctx, legTimeout)
	var toolRaw []rawShare
	toolErr := runOnce(toolCtx, func() error {
		var attemptErr error
		toolRaw, attemptErr = e.tool(toolCtx, serverName)
		return attemptErr
	})
	toolCancel()

	if toolErr != nil {
		if authErr != nil {
			return types.ShareListResult{}, e.wrapErr(engineerr.ClassifyNetworkError(authErr), authErr)
		}
		return types.ShareListResult{}, e.wrapErr(engineerr.CodeProtocolError, toolErr)
	}

	result := types.ShareListResult{Shares: filterShares(toolRaw), AuthMode: types.AuthCredsRequired}
	e.cache.store(hostID, result, now)
	return result, nil
}

// CachedAuthMode returns the auth mode from a live cache entry for
// hostID, or AuthUnknown if there is none (spec §6 "get_host_auth_mode").
func (e *Enumerator) CachedAuthMode(hostID string) types.AuthMode {
	result, ok := e.cache.get(hostID, time.Now())
	if !ok {
		return types.AuthUnknown
	}
	return result.AuthMode
}

func (e *Enumerator) wrapErr(code engineerr.Code, cause error) error {
	return engineerr.New(code, cause.Error()).
		WithComponent("smbshare").WithOperation("list_shares").WithCause(cause)
}
