package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duopane/engine/internal/engineerr"
)

func TestNewCollectorWithValidConfig(t *testing.T) {
	collector, err := NewCollector(&Config{Enabled: true, Port: 9090, Path: "/metrics", Namespace: "duopane", Subsystem: "test"})
	require.NoError(t, err)
	require.NotNil(t, collector.registry)
}

func TestNewCollectorNilConfigUsesDefaults(t *testing.T) {
	collector, err := NewCollector(nil)
	require.NoError(t, err)
	assert.Equal(t, "duopane", collector.config.Namespace)
}

func TestNewCollectorDisabledSkipsRegistry(t *testing.T) {
	collector, err := NewCollector(&Config{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, collector.registry)
}

func TestRecordCommandTracksCountAndErrors(t *testing.T) {
	collector, err := NewCollector(&Config{Enabled: true, Namespace: "duopane", Subsystem: "test"})
	require.NoError(t, err)

	collector.RecordCommand("list_directory_start", 5*time.Millisecond, nil)
	collector.RecordCommand("list_directory_start", 3*time.Millisecond, engineerr.New(engineerr.CodeNotFound, "missing"))

	m := collector.commands["list_directory_start"]
	require.NotNil(t, m)
	assert.Equal(t, int64(2), m.Count)
	assert.Equal(t, int64(1), m.Errors)
}

func TestRecordCommandDisabledIsNoOp(t *testing.T) {
	collector, err := NewCollector(&Config{Enabled: false})
	require.NoError(t, err)
	collector.RecordCommand("list_directory_start", time.Millisecond, nil)
	assert.Empty(t, collector.commands)
}

func TestClassifyCodeUsesEngineErrorCode(t *testing.T) {
	assert.Equal(t, string(engineerr.CodeNotFound), classifyCode(engineerr.New(engineerr.CodeNotFound, "missing")))
	assert.Equal(t, "internal", classifyCode(errors.New("plain error")))
}

func TestShareCacheHitAndMissCounters(t *testing.T) {
	collector, err := NewCollector(&Config{Enabled: true, Namespace: "duopane", Subsystem: "test"})
	require.NoError(t, err)

	collector.RecordShareCacheHit()
	collector.RecordShareCacheMiss()

	hit, errHit := collector.shareCacheResult.GetMetricWith(map[string]string{"result": "hit"})
	require.NoError(t, errHit)
	assert.Equal(t, float64(1), testutil.ToFloat64(hit))
}
