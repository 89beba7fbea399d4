package dirreader

import "github.com/duopane/engine/internal/engineerr"

func notFoundErr(cause error) error {
	return engineerr.New(engineerr.CodeNotFound, "directory not found").
		WithComponent("dirreader").WithCause(cause)
}

func permissionDeniedErr(cause error) error {
	return engineerr.New(engineerr.CodePermissionDenied, "permission denied").
		WithComponent("dirreader").WithCause(cause)
}

func ioErr(cause error) error {
	return engineerr.New(engineerr.CodeIOError, cause.Error()).
		WithComponent("dirreader").WithCause(cause)
}
