// Package circuit implements a per-host circuit breaker so a
// unreachable SMB server doesn't eat a full dial timeout on every share
// listing attempt (spec §4.8 connection identity: the same address is
// dialed repeatedly as the user browses the network pane).
package circuit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the breaker's current disposition.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config controls when a breaker trips and how long it stays open.
type Config struct {
	// MaxRequests is how many probe requests are allowed through while
	// half-open; zero means one.
	MaxRequests uint32
	// Interval is how often a closed breaker's counts reset.
	Interval time.Duration
	// Timeout is how long an open breaker stays open before probing.
	Timeout time.Duration
	// ReadyToTrip decides whether accumulated counts should open the
	// breaker.
	ReadyToTrip func(counts Counts) bool
}

// Counts tracks requests and outcomes within the current window.
type Counts struct {
	Requests            uint32
	ConsecutiveFailures uint32
}

// Breaker guards one remote endpoint (one SMB host, identified by its
// connection address).
type Breaker struct {
	name   string
	config Config

	mu     sync.Mutex
	state  State
	counts Counts
	expiry time.Time
}

// ErrOpen is returned by ExecuteWithContext when the breaker is open, or
// half-open with all of its probe requests already let through; callers
// classify it as a fast host-unreachable failure instead of paying the
// dial timeout again.
var ErrOpen = errors.New("circuit breaker open")

func defaultReadyToTrip(c Counts) bool { return c.ConsecutiveFailures >= 3 }

// New returns a closed Breaker named name.
func New(name string, config Config) *Breaker {
	if config.Interval <= 0 {
		config.Interval = 60 * time.Second
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.ReadyToTrip == nil {
		config.ReadyToTrip = defaultReadyToTrip
	}
	if config.MaxRequests == 0 {
		config.MaxRequests = 1
	}
	return &Breaker{name: name, config: config, state: StateClosed, expiry: time.Now().Add(config.Interval)}
}

// ExecuteWithContext runs fn if the breaker allows it, recording the
// outcome. It returns ErrOpen without calling fn when the breaker is
// open.
func (b *Breaker) ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error {
	if err := b.before(); err != nil {
		return err
	}
	err := fn(ctx)
	b.after(err)
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state := b.currentStateLocked(now)
	if state == StateOpen {
		return ErrOpen
	}
	if state == StateHalfOpen && b.counts.Requests >= b.config.MaxRequests {
		return ErrOpen
	}
	b.counts.Requests++
	return nil
}

func (b *Breaker) after(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state := b.currentStateLocked(now)
	if err == nil {
		b.counts.ConsecutiveFailures = 0
		if state == StateHalfOpen {
			b.setStateLocked(StateClosed, now)
		}
		return
	}

	b.counts.ConsecutiveFailures++
	switch state {
	case StateClosed:
		if b.config.ReadyToTrip(b.counts) {
			b.setStateLocked(StateOpen, now)
		}
	case StateHalfOpen:
		b.setStateLocked(StateOpen, now)
	}
}

func (b *Breaker) currentStateLocked(now time.Time) State {
	switch b.state {
	case StateClosed:
		if !b.expiry.IsZero() && b.expiry.Before(now) {
			b.counts = Counts{}
			b.expiry = now.Add(b.config.Interval)
		}
	case StateOpen:
		if b.expiry.Before(now) {
			b.setStateLocked(StateHalfOpen, now)
		}
	}
	return b.state
}

func (b *Breaker) setStateLocked(state State, now time.Time) {
	if b.state == state {
		return
	}
	b.state = state
	b.counts = Counts{}
	switch state {
	case StateClosed:
		b.expiry = now.Add(b.config.Interval)
	case StateOpen:
		b.expiry = now.Add(b.config.Timeout)
	case StateHalfOpen:
		b.expiry = time.Time{}
	}
}

// State returns the breaker's current state, advancing open->half-open
// on timeout expiry as a side effect.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentStateLocked(time.Now())
}

// Manager hands out one Breaker per key, creating it on first use.
type Manager struct {
	mu       sync.RWMutex
	breakers map[string]*Breaker
	config   Config
}

// NewManager returns a Manager; every Breaker it creates shares config.
func NewManager(config Config) *Manager {
	return &Manager{breakers: make(map[string]*Breaker), config: config}
}

// Get returns the Breaker for key, creating it if this is the first
// request seen for that key.
func (m *Manager) Get(key string) *Breaker {
	m.mu.RLock()
	if b, ok := m.breakers[key]; ok {
		m.mu.RUnlock()
		return b
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.breakers[key]; ok {
		return b
	}
	b := New(key, m.config)
	m.breakers[key] = b
	return b
}
