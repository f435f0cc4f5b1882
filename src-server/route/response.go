package route

import (
	"encoding/json"
	"errors"
	"huddygate/src-server/claim"
	"log/slog"
	"net/http"
)

const (
	STATUS_SUCCESS     = "success"
	STATUS_DENIED      = "denied"
	STATUS_INVALID     = "invalid"
	STATUS_UNAVAILABLE = "unavailable"
)

// RespBody is the envelope of every JSON response.
type RespBody struct {
	Status  string       `json:"status"`
	Reason  claim.Reason `json:"reason,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body RespBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("can't write response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, RespBody{Status: STATUS_SUCCESS, Data: data})
}

func writeInvalid(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, RespBody{Status: STATUS_INVALID, Message: message})
}

// writeError maps the claim error taxonomy onto HTTP.
func writeError(w http.ResponseWriter, err error) {
	if reason, ok := claim.DeniedReason(err); ok {
		code := http.StatusConflict
		if reason == claim.REASON_NOT_FOUND {
			code = http.StatusNotFound
		}
		writeJSON(w, code, RespBody{Status: STATUS_DENIED, Reason: reason, Message: err.Error()})
		return
	}

	switch {
	case errors.Is(err, claim.ErrValidation):
		writeInvalid(w, err.Error())
	case errors.Is(err, claim.ErrNotFound):
		writeJSON(w, http.StatusNotFound, RespBody{Status: STATUS_DENIED, Reason: claim.REASON_NOT_FOUND, Message: err.Error()})
	default:
		// ErrTransient and anything unexpected; both are safe to retry
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusServiceUnavailable, RespBody{Status: STATUS_UNAVAILABLE, Message: "registry unavailable, try again"})
	}
}
