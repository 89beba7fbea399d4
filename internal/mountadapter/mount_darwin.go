//go:build darwin

package mountadapter

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/duopane/engine/internal/engineerr"
)

// mount_smbfs exits with the BSD errno of the underlying failure; eauth
// (80) is BSD/macOS-specific and has no unix.E* constant.
const eauth = 80

// platformMount shells out to mount_smbfs, the macOS command-line SMB
// mount tool, and mounts at /Volumes/<share> (spec §4.11).
func platformMount(ctx context.Context, server, share, username, password string) (MountResult, error) {
	mountPath := "/Volumes/" + share

	if err := os.MkdirAll(mountPath, 0755); err != nil {
		return MountResult{}, engineerr.New(engineerr.CodeProtocolError, err.Error()).
			WithComponent("mountadapter").WithOperation("mount").WithCause(err)
	}

	cmd := exec.CommandContext(ctx, "mount_smbfs", smbURL(server, share, username, password), mountPath)
	output, err := cmd.CombinedOutput()
	if err == nil {
		return MountResult{MountPath: mountPath}, nil
	}

	exitCode := -1
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	}
	if exitCode == int(unix.EEXIST) {
		return MountResult{MountPath: mountPath, AlreadyMounted: true}, nil
	}
	return MountResult{}, classifyMountError(exitCode, string(output), err)
}

func smbURL(server, share, username, password string) string {
	auth := ""
	if username != "" {
		auth = username
		if password != "" {
			auth += ":" + password
		}
		auth += "@"
	}
	return "//" + auth + server + "/" + share
}

func classifyMountError(exitCode int, output string, cause error) error {
	msg := strings.ToLower(output)
	code := engineerr.CodeProtocolError

	switch {
	case exitCode == int(unix.ENOENT) || strings.Contains(msg, "no such share") || strings.Contains(msg, "no shares"):
		code = engineerr.CodeShareNotFound
	case exitCode == int(unix.EACCES) || exitCode == eauth:
		code = engineerr.CodeAuthFailed
	case strings.Contains(msg, "no authentication mechanism"):
		code = engineerr.CodeAuthRequired
	case exitCode == int(unix.ETIMEDOUT):
		code = engineerr.CodeTimeout
	case exitCode == int(unix.ECONNREFUSED) || exitCode == int(unix.EHOSTUNREACH):
		code = engineerr.CodeHostUnreachable
	}

	message := strings.TrimSpace(output)
	if message == "" {
		message = cause.Error()
	}
	return engineerr.New(code, message).WithComponent("mountadapter").WithOperation("mount").WithCause(cause)
}
