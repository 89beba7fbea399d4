package rpc

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

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

func TestMain(m *testing.M) {
	keyring.MockInit()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(root+"/hello.txt", []byte("hi"), 0644))

	volumes := volume.NewManager()
	volumes.Register("root", volume.NewLocalVolume(root))
	require.NoError(t, volumes.SetDefault("root"))

	listings := listing.NewCache(50*time.Millisecond, nil)
	disc := discovery.NewBrowser(discovery.Events{})
	shares := smbshare.NewEnumerator(30*time.Second, time.Second)
	creds := credstore.NewStore("duopane-engine-test")
	known, err := knownshares.NewStore(t.TempDir())
	require.NoError(t, err)
	mounts := mountadapter.NewAdapter()
	prober := syncstatus.NewProber()
	extended := dirreader.NewReader()

	return NewServer(volumes, listings, disc, shares, creds, known, mounts, prober, extended, nil), root
}

func TestPathExists(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/path-exists?path=/hello.txt")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["exists"])
}

func TestStartListingThenGetRange(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	reqBody, _ := json.Marshal(startListingRequest{Path: "/", SortBy: "name", SortOrder: "ascending"})
	resp, err := srv.Client().Post(srv.URL+"/listings", "application/json", bytes.NewReader(reqBody))
	require.NoError(t, err)
	var started listing.StartResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&started))
	resp.Body.Close()
	require.Equal(t, 1, started.TotalCount)

	resp, err = srv.Client().Get(srv.URL + "/listings/" + started.ListingID + "/range?start=0&count=10")
	require.NoError(t, err)
	defer resp.Body.Close()
	var entries []types.FileEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "hello.txt", entries[0].Name)
}

func TestGetSyncStatusUnknownForMissingPath(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	reqBody, _ := json.Marshal(syncStatusRequest{Paths: []string{"/does/not/exist"}})
	resp, err := srv.Client().Post(srv.URL+"/sync-status", "application/json", bytes.NewReader(reqBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]types.SyncStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, types.SyncStatusUnknown, out["/does/not/exist"])
}

func TestCredentialSaveGetHasDeleteRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	reqBody, _ := json.Marshal(credentialRequest{Server: "nas", Share: "media", Username: "alice", Password: "hunter2"})
	resp, err := srv.Client().Post(srv.URL+"/credentials", "application/json", bytes.NewReader(reqBody))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 204, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/credentials/exists?server=nas&share=media")
	require.NoError(t, err)
	var exists map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&exists))
	resp.Body.Close()
	assert.True(t, exists["exists"])

	resp, err = srv.Client().Get(srv.URL + "/credentials?server=nas&share=media")
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.Equal(t, "alice", got["username"])
	assert.Equal(t, "hunter2", got["password"])
}

func TestUpdateKnownShareThenGetByName(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	rec := types.KnownNetworkShare{ServerName: "nas", ShareName: "media", Protocol: "smb", LastConnectedAt: time.Now()}
	reqBody, _ := json.Marshal(rec)
	resp, err := srv.Client().Post(srv.URL+"/known-shares", "application/json", bytes.NewReader(reqBody))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 204, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/known-shares/by-name?server=NAS&share=Media")
	require.NoError(t, err)
	defer resp.Body.Close()
	var got types.KnownNetworkShare
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "nas", got.ServerName)
}

func TestNetworkHostsEmptyBeforeDiscoveryStarts(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/network/hosts")
	require.NoError(t, err)
	defer resp.Body.Close()
	var hosts []types.NetworkHost
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hosts))
	assert.Empty(t, hosts)
}

func TestMetricsMiddlewareRecordsPathExistsCommand(t *testing.T) {
	s, _ := newTestServer(t)
	collector, err := metrics.NewCollector(&metrics.Config{Enabled: true, Namespace: "duopane", Subsystem: "test"})
	require.NoError(t, err)
	s.Metrics = collector

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/path-exists?path=/hello.txt")
	require.NoError(t, err)
	resp.Body.Close()

	m, ok := collector.CommandsSnapshot()["/path-exists"]
	require.True(t, ok)
	assert.Equal(t, int64(1), m.Count)
	assert.Equal(t, int64(0), m.Errors)
}

func TestGetHostAuthModeUnknownBeforeAnyList(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/network/hosts/host1/auth-mode")
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]types.AuthMode
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, types.AuthUnknown, out["authMode"])
}
