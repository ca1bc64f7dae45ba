package httpapi

import (
	"context"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"
)

type ctxKey string

const (
	ctxKeyCredentials  ctxKey = "validatedCredentials"
	ctxKeyPostMessage  ctxKey = "validatedPostMessage"
	ctxKeyPatchMessage ctxKey = "validatedPatchMessage"
	ctxKeyPathID       ctxKey = "validatedPathID"
)

// validateCredentials decodes the username/password body shared by
// POST /register and POST /login. Field rules are left to the account service
// so that login can fail with 401 rather than 400.
func (s *Server) validateCredentials() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req credentialsRequest
			if err := decodeStrict(r.Body, &req); err != nil {
				reject(w, http.StatusBadRequest)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyCredentials, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validatePostMessage decodes POST /messages and checks the text rule before
// any store is touched.
func (s *Server) validatePostMessage() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req postMessageRequest
			if err := decodeStrict(r.Body, &req); err != nil {
				reject(w, http.StatusBadRequest)
				return
			}
			if err := s.messages.ValidateText(req.MessageText); err != nil {
				s.fail(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPostMessage, req.toDomain())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validatePatchMessage decodes PATCH /messages/{message_id}.
func (s *Server) validatePatchMessage() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req patchMessageRequest
			if err := decodeStrict(r.Body, &req); err != nil {
				reject(w, http.StatusBadRequest)
				return
			}
			if err := s.messages.ValidateText(req.MessageText); err != nil {
				s.fail(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPatchMessage, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateID parses the named integer path parameter.
func (s *Server) validateID(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
			if err != nil {
				reject(w, http.StatusBadRequest)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPathID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func pathID(r *http.Request) int64 {
	id, _ := r.Context().Value(ctxKeyPathID).(int64)
	return id
}
