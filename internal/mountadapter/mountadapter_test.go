package mountadapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duopane/engine/internal/engineerr"
)

func TestMountPropagatesParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewAdapter()
	_, err := a.Mount(ctx, "nas.local", "Public", "", "")
	require.Error(t, err)
	ee, ok := err.(*engineerr.EngineError)
	require.True(t, ok)
	assert.Equal(t, engineerr.CodeCancelled, ee.Code)
}
