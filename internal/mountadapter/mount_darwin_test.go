//go:build darwin

package mountadapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/duopane/engine/internal/engineerr"
)

func TestSMBURLWithAndWithoutCredentials(t *testing.T) {
	assert.Equal(t, "//nas.local/Public", smbURL("nas.local", "Public", "", ""))
	assert.Equal(t, "//alice@nas.local/Public", smbURL("nas.local", "Public", "alice", ""))
	assert.Equal(t, "//alice:s3cret@nas.local/Public", smbURL("nas.local", "Public", "alice", "s3cret"))
}

func TestClassifyMountErrorExitCodes(t *testing.T) {
	cause := errors.New("mount_smbfs failed")

	cases := []struct {
		exitCode int
		output   string
		want     engineerr.Code
	}{
		{int(unix.ENOENT), "", engineerr.CodeShareNotFound},
		{int(unix.EACCES), "", engineerr.CodeAuthFailed},
		{eauth, "", engineerr.CodeAuthFailed},
		{int(unix.ETIMEDOUT), "", engineerr.CodeTimeout},
		{int(unix.ECONNREFUSED), "", engineerr.CodeHostUnreachable},
		{int(unix.EHOSTUNREACH), "", engineerr.CodeHostUnreachable},
		{99, "no authentication mechanism", engineerr.CodeAuthRequired},
		{99, "unrecognized failure", engineerr.CodeProtocolError},
	}
	for _, c := range cases {
		err := classifyMountError(c.exitCode, c.output, cause)
		ee, ok := err.(*engineerr.EngineError)
		require.True(t, ok)
		assert.Equal(t, c.want, ee.Code, "exitCode=%d output=%q", c.exitCode, c.output)
	}
}
