package httpapi

import "net/http"

// register handles POST /register.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyCredentials).(credentialsRequest)
	a, err := s.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toAccountResponse(a))
}

// login handles POST /login.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(ctxKeyCredentials).(credentialsRequest)
	a, err := s.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toAccountResponse(a))
}

// listAccountMessages handles GET /accounts/{account_id}/messages.
func (s *Server) listAccountMessages(w http.ResponseWriter, r *http.Request) {
	ms, err := s.messages.ListByAccount(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toMessageResponses(ms))
}
