package httpapi

import "github.com/tinoosan/social/internal/social"

// credentialsRequest is the body of POST /register and POST /login.
type credentialsRequest struct {
	// Older clients send the whole account object; the id is ignored.
	AccountID *int64 `json:"account_id,omitempty"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type accountResponse struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

func toAccountResponse(a social.Account) accountResponse {
	return accountResponse{AccountID: a.AccountID, Username: a.Username, Password: a.Password}
}

// postMessageRequest is the body of POST /messages. A client-sent
// message_id is accepted and discarded.
type postMessageRequest struct {
	MessageID       *int64 `json:"message_id,omitempty"`
	PostedBy        int64  `json:"posted_by"`
	MessageText     string `json:"message_text"`
	TimePostedEpoch int64  `json:"time_posted_epoch"`
}

func (req postMessageRequest) toDomain() social.Message {
	return social.Message{PostedBy: req.PostedBy, MessageText: req.MessageText, TimePostedEpoch: req.TimePostedEpoch}
}

// patchMessageRequest is the body of PATCH /messages/{message_id}. Clients may
// send the whole message; only message_text is applied.
type patchMessageRequest struct {
	MessageID       *int64 `json:"message_id,omitempty"`
	PostedBy        *int64 `json:"posted_by,omitempty"`
	MessageText     string `json:"message_text"`
	TimePostedEpoch *int64 `json:"time_posted_epoch,omitempty"`
}

type messageResponse struct {
	MessageID       int64  `json:"message_id"`
	PostedBy        int64  `json:"posted_by"`
	MessageText     string `json:"message_text"`
	TimePostedEpoch int64  `json:"time_posted_epoch"`
}

func toMessageResponse(m social.Message) messageResponse {
	return messageResponse{MessageID: m.MessageID, PostedBy: m.PostedBy, MessageText: m.MessageText, TimePostedEpoch: m.TimePostedEpoch}
}

func toMessageResponses(ms []social.Message) []messageResponse {
	out := make([]messageResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMessageResponse(m))
	}
	return out
}
