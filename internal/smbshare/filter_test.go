package smbshare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSharesDropsHiddenAndNonDisk(t *testing.T) {
	raw := []rawShare{
		{name: "Public", comment: "shared docs", isDisk: true},
		{name: "ADMIN$", isDisk: true},
		{name: "IPC$", isDisk: false},
		{name: "Media", isDisk: true},
	}

	out := filterShares(raw)

	require.Len(t, out, 2)
	assert.Equal(t, "Public", out[0].Name)
	require.NotNil(t, out[0].Comment)
	assert.Equal(t, "shared docs", *out[0].Comment)
	assert.Equal(t, "Media", out[1].Name)
	assert.Nil(t, out[1].Comment)
}

func TestFilterSharesEmptyInput(t *testing.T) {
	assert.Empty(t, filterShares(nil))
}
