package httpapi

import (
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/social/internal/errs"
)

// errorResponse is the payload for server-side failures. Client rejections
// carry no body at all.
type errorResponse struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	toJSON(w, status, errorResponse{Error: msg})
}

// reject answers a client error with an empty body.
func reject(w http.ResponseWriter, status int) { w.WriteHeader(status) }

// absent answers a lookup that found nothing: 200 with no body.
func absent(w http.ResponseWriter) { w.WriteHeader(http.StatusOK) }

// fail maps a service error onto a status code. Anything that is not a
// recognised client error is reported as 500 and logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	reqID := chimw.GetReqID(r.Context())
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		s.log.Debug("request rejected", "req_id", reqID, "err", err)
		reject(w, http.StatusUnauthorized)
	case errors.Is(err, errs.ErrInvalid), errors.Is(err, errs.ErrConflict):
		s.log.Debug("request rejected", "req_id", reqID, "err", err)
		reject(w, http.StatusBadRequest)
	default:
		s.log.Error("request failed", "req_id", reqID, "err", err)
		writeErr(w, http.StatusInternalServerError, "internal_error")
	}
}
