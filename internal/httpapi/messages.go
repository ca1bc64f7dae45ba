package httpapi

import (
	"errors"
	"net/http"

	"github.com/tinoosan/social/internal/errs"
	"github.com/tinoosan/social/internal/social"
)

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	in := r.Context().Value(ctxKeyPostMessage).(social.Message)
	m, err := s.messages.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toMessageResponse(m))
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	ms, err := s.messages.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toMessageResponses(ms))
}

func (s *Server) getMessage(w http.ResponseWriter, r *http.Request) {
	m, err := s.messages.Get(r.Context(), pathID(r))
	if errors.Is(err, errs.ErrNotFound) {
		absent(w)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toMessageResponse(m))
}

// deleteMessage returns the deleted row, or an empty 200 when there was nothing to delete.
func (s *Server) deleteMessage(w http.ResponseWriter, r *http.Request) {
	m, err := s.messages.Delete(r.Context(), pathID(r))
	if errors.Is(err, errs.ErrNotFound) {
		absent(w)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toMessageResponse(m))
}

// patchMessage replaces the text of an existing message. A missing message is a 400.
func (s *Server) patchMessage(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyPatchMessage).(patchMessageRequest)
	m, err := s.messages.UpdateText(r.Context(), pathID(r), req.MessageText)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toMessageResponse(m))
}
