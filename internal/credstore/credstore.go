// Package credstore adapts the platform secret store to the engine's SMB
// credential needs (spec §4.9): one entry per (server, share), the
// username and password packed into a single opaque blob.
package credstore

import (
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/duopane/engine/internal/engineerr"
)

const serviceName = "duopane-engine"

// Store wraps the platform keyring. appName overrides the keyring service
// name; when empty, serviceName is used.
type Store struct {
	appName string
}

// NewStore returns a Store using the given application name as the
// keyring service identity.
func NewStore(appName string) *Store {
	if appName == "" {
		appName = serviceName
	}
	return &Store{appName: appName}
}

// account builds the keyring account key: "smb://<server-lowercased>[/<share>]".
func account(server, share string) string {
	key := "smb://" + strings.ToLower(server)
	if share != "" {
		key += "/" + share
	}
	return key
}

// pack joins username and password with a single null separator; the
// parser below splits on only the first null, so null bytes inside the
// password are preserved verbatim.
func pack(username, password string) string {
	return username + "\x00" + password
}

func unpack(blob string) (username, password string, ok bool) {
	idx := strings.IndexByte(blob, 0)
	if idx < 0 {
		return "", "", false
	}
	return blob[:idx], blob[idx+1:], true
}

// Save stores username/password for (server, share), overwriting any
// existing entry.
func (s *Store) Save(server, share, username, password string) error {
	if err := keyring.Set(s.appName, account(server, share), pack(username, password)); err != nil {
		return engineerr.New(engineerr.ClassifyKeychainError(err), err.Error()).
			WithComponent("credstore").WithOperation("save").WithCause(err)
	}
	return nil
}

// Get retrieves username/password for (server, share).
func (s *Store) Get(server, share string) (username, password string, err error) {
	blob, kerr := keyring.Get(s.appName, account(server, share))
	if kerr != nil {
		return "", "", engineerr.New(engineerr.ClassifyKeychainError(kerr), kerr.Error()).
			WithComponent("credstore").WithOperation("get").WithCause(kerr)
	}
	username, password, ok := unpack(blob)
	if !ok {
		return "", "", engineerr.New(engineerr.CodeOther, "stored credential blob is malformed").
			WithComponent("credstore").WithOperation("get")
	}
	return username, password, nil
}

// Delete removes the entry for (server, share), if any.
func (s *Store) Delete(server, share string) error {
	if err := keyring.Delete(s.appName, account(server, share)); err != nil {
		return engineerr.New(engineerr.ClassifyKeychainError(err), err.Error()).
			WithComponent("credstore").WithOperation("delete").WithCause(err)
	}
	return nil
}

// Has reports whether an entry exists for (server, share), without
// exposing the credential itself.
func (s *Store) Has(server, share string) bool {
	_, _, err := s.Get(server, share)
	return err == nil
}
