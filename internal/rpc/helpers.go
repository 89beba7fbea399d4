package rpc

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/duopane/engine/internal/engineerr"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps an EngineError onto an HTTP status and serializes it as
// the tagged error payload spec §7 requires at the handler boundary; any
// other error is treated as an internal failure.
func writeError(w http.ResponseWriter, err error) {
	ee, ok := err.(*engineerr.EngineError)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch ee.Code {
	case engineerr.CodeNotFound, engineerr.CodeShareNotFound:
		status = http.StatusNotFound
	case engineerr.CodePermissionDenied, engineerr.CodeAccessDenied, engineerr.CodeAuthFailed, engineerr.CodeAuthRequired:
		status = http.StatusForbidden
	case engineerr.CodeNotSupported:
		status = http.StatusNotImplemented
	case engineerr.CodeTimeout:
		status = http.StatusGatewayTimeout
	case engineerr.CodeHostUnreachable:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, ee)
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func queryStringPtr(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}
