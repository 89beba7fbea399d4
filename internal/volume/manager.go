package volume

import (
	"sync"

	"github.com/duopane/engine/internal/engineerr"
)

// Manager is the process-wide name→volume registry plus a designated
// default (spec §4.1). Registrations and lookups are concurrent-safe;
// removing the default volume clears the default pointer.
type Manager struct {
	mu          sync.RWMutex
	volumes     map[string]Volume
	defaultName string
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{volumes: make(map[string]Volume)}
}

// Register adds or replaces a named volume.
func (m *Manager) Register(name string, v Volume) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumes[name] = v
}

// SetDefault designates name as the default volume. name must already be
// registered.
func (m *Manager) SetDefault(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.volumes[name]; !ok {
		return engineerr.New(engineerr.CodeNotFound, "volume not registered: "+name).
			WithComponent("volume")
	}
	m.defaultName = name
	return nil
}

// Get returns the named volume.
func (m *Manager) Get(name string) (Volume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.volumes[name]
	if !ok {
		return nil, engineerr.New(engineerr.CodeNotFound, "volume not found: "+name).
			WithComponent("volume")
	}
	return v, nil
}

// Default returns the designated default volume.
func (m *Manager) Default() (Volume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.defaultName == "" {
		return nil, engineerr.New(engineerr.CodeNotFound, "no default volume set").
			WithComponent("volume")
	}
	return m.volumes[m.defaultName], nil
}

// DefaultName returns the name of the designated default volume.
func (m *Manager) DefaultName() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.defaultName == "" {
		return "", engineerr.New(engineerr.CodeNotFound, "no default volume set").
			WithComponent("volume")
	}
	return m.defaultName, nil
}

// Remove unregisters a volume; if it was the default, the default pointer
// is cleared.
func (m *Manager) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.volumes, name)
	if m.defaultName == name {
		m.defaultName = ""
	}
}
