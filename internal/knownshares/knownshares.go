// Package knownshares persists the user's previously-connected SMB shares
// as pretty JSON in the app data directory (spec §4.10).
package knownshares

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/duopane/engine/internal/engineerr"
	"github.com/duopane/engine/pkg/types"
)

const fileName = "known-shares.json"

// Store is the process-wide mutex-guarded list of known shares.
type Store struct {
	path string

	mu     sync.Mutex
	shares []types.KnownNetworkShare
}

// NewStore returns a Store persisting to <dataDir>/known-shares.json,
// loading any existing file.
func NewStore(dataDir string) (*Store, error) {
	s := &Store{path: filepath.Join(dataDir, fileName)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.shares = nil
			return nil
		}
		return engineerr.New(engineerr.CodeIOError, err.Error()).
			WithComponent("knownshares").WithOperation("load").WithCause(err)
	}
	var shares []types.KnownNetworkShare
	if err := json.Unmarshal(data, &shares); err != nil {
		return engineerr.New(engineerr.CodeIOError, err.Error()).
			WithComponent("knownshares").WithOperation("load").WithCause(err)
	}
	s.shares = shares
	return nil
}

func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.shares, "", "  ")
	if err != nil {
		return engineerr.New(engineerr.CodeIOError, err.Error()).
			WithComponent("knownshares").WithOperation("save").WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return engineerr.New(engineerr.CodeIOError, err.Error()).
			WithComponent("knownshares").WithOperation("save").WithCause(err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return engineerr.New(engineerr.CodeIOError, err.Error()).
			WithComponent("knownshares").WithOperation("save").WithCause(err)
	}
	return nil
}

// All returns a snapshot of every known share.
func (s *Store) All() []types.KnownNetworkShare {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.KnownNetworkShare, len(s.shares))
	copy(out, s.shares)
	return out
}

// ByName returns the record for (server, share), matched case-insensitively.
func (s *Store) ByName(server, share string) (types.KnownNetworkShare, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.shares {
		if sameShare(rec, server, share) {
			return rec, true
		}
	}
	return types.KnownNetworkShare{}, false
}

func sameShare(rec types.KnownNetworkShare, server, share string) bool {
	return strings.EqualFold(rec.ServerName, server) && strings.EqualFold(rec.ShareName, share)
}

// Update upserts record by (ServerName, ShareName), matched
// case-insensitively, and persists the result.
func (s *Store) Update(record types.KnownNetworkShare) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.shares {
		if sameShare(rec, record.ServerName, record.ShareName) {
			s.shares[i] = record
			return s.saveLocked()
		}
	}
	s.shares = append(s.shares, record)
	return s.saveLocked()
}

// UsernameHints returns, for every server (lowercased), the most recently
// used non-nil username across that server's shares, scanning newest-first
// (spec §4.10 "helper ... for login pre-fill").
func (s *Store) UsernameHints() map[string]string {
	s.mu.Lock()
	ordered := make([]types.KnownNetworkShare, len(s.shares))
	copy(ordered, s.shares)
	s.mu.Unlock()

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LastConnectedAt.After(ordered[j].LastConnectedAt)
	})

	hints := make(map[string]string)
	for _, rec := range ordered {
		key := strings.ToLower(rec.ServerName)
		if _, exists := hints[key]; exists {
			continue
		}
		if rec.Username != nil {
			hints[key] = *rec.Username
		}
	}
	return hints
}
