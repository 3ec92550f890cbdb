package http

import (
	"github.com/samber/lo"

	"github.com/vovakirdan/socialmedia-server/internal/store"
)

// AccountRequest is the body accepted by /register and /login.
type AccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	AccountID int64  `json:"accountId"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// MessageRequest is the body accepted by POST /messages and PATCH /messages/:messageId.
type MessageRequest struct {
	PostedBy        int64  `json:"postedBy"`
	MessageText     string `json:"messageText"`
	TimePostedEpoch int64  `json:"timePostedEpoch"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	MessageID       int64  `json:"messageId"`
	PostedBy        int64  `json:"postedBy"`
	MessageText     string `json:"messageText"`
	TimePostedEpoch int64  `json:"timePostedEpoch"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error bodies returned to clients.
var (
	errClientError  = ErrorResponse{Error: "Client error"}
	errConflict     = ErrorResponse{Error: "Conflict"}
	errUnauthorized = ErrorResponse{Error: "Unauthorized"}
	errInternal     = ErrorResponse{Error: "internal server error"}
)

func (r AccountRequest) toAccount() store.Account {
	return store.Account{Username: r.Username, Password: r.Password}
}

func (r MessageRequest) toMessage() store.Message {
	return store.Message{
		PostedBy:        r.PostedBy,
		Text:            r.MessageText,
		TimePostedEpoch: r.TimePostedEpoch,
	}
}

func accountToResponse(a *store.Account) AccountResponse {
	return AccountResponse{
		AccountID: a.ID,
		Username:  a.Username,
		Password:  a.Password,
	}
}

func messageToResponse(m *store.Message) MessageResponse {
	return MessageResponse{
		MessageID:       m.ID,
		PostedBy:        m.PostedBy,
		MessageText:     m.Text,
		TimePostedEpoch: m.TimePostedEpoch,
	}
}

// messagesToResponse never returns nil so empty lists encode as [].
func messagesToResponse(msgs []*store.Message) []MessageResponse {
	return lo.Map(msgs, func(m *store.Message, _ int) MessageResponse {
		return messageToResponse(m)
	})
}
