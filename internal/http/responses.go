package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/log"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps ledger errors to status codes:
// validation 422, out of range 404, unavailable 503, other store errors 502.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	sl := log.NewStructuredLogger(log.FromContext(ctx))

	var ve *core.ValidationError
	var ue *core.StoreUnavailableError
	var se *core.StoreError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: ve.Error(), Field: ve.Field})
	case errors.Is(err, ledger.ErrPositionOutOfRange):
		writeJSON(w, http.StatusNotFound, errorBody{Error: ledger.ErrPositionOutOfRange.Error()})
	case errors.As(err, &ue):
		sl.LogError(ctx, "Store unavailable", ue.Err, log.ComponentHTTP, requestOp(r), log.NewFields().WithStore(ue.Store))
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: ue.Error()})
	case errors.As(err, &se):
		sl.LogError(ctx, "Store operation failed", se.Err, log.ComponentHTTP, se.Op, log.NewFields().WithStore(se.Store))
		writeJSON(w, http.StatusBadGateway, errorBody{Error: se.Error()})
	default:
		sl.LogError(ctx, "Request failed", err, log.ComponentHTTP, requestOp(r), nil)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// requestOp names the ledger operation a request performs.
func requestOp(r *http.Request) string {
	switch r.Method {
	case http.MethodPost:
		return log.OpCreate
	case http.MethodDelete:
		return log.OpDelete
	default:
		return log.OpLoad
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded", log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
}
