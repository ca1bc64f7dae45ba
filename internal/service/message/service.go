// Package message implements message validation and CRUD orchestration.
package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/tinoosan/social/internal/errs"
	"github.com/tinoosan/social/internal/social"
)

// Repo defines read operations needed by the service. List operations never return nil.
type Repo interface {
	ListMessages(ctx context.Context) ([]social.Message, error)
	MessageByID(ctx context.Context, messageID int64) (social.Message, error)
	MessagesByAccountID(ctx context.Context, accountID int64) ([]social.Message, error)
}

// Writer defines write operations needed by the service.
// UpdateMessageText and DeleteMessage are single conditional writes: they return
// errs.ErrNotFound when no row matched, otherwise the post-update / pre-delete row.
type Writer interface {
	CreateMessage(ctx context.Context, m social.Message) (social.Message, error)
	UpdateMessageText(ctx context.Context, messageID int64, text string) (social.Message, error)
	DeleteMessage(ctx context.Context, messageID int64) (social.Message, error)
}

// AccountChecker verifies that a message author exists.
type AccountChecker interface {
	AccountExists(ctx context.Context, accountID int64) (bool, error)
}

// Service exposes validation and CRUD for messages.
type Service interface {
	ValidateText(text string) error
	Create(ctx context.Context, m social.Message) (social.Message, error)
	List(ctx context.Context) ([]social.Message, error)
	Get(ctx context.Context, messageID int64) (social.Message, error)
	ListByAccount(ctx context.Context, accountID int64) ([]social.Message, error)
	UpdateText(ctx context.Context, messageID int64, text string) (social.Message, error)
	Delete(ctx context.Context, messageID int64) (social.Message, error)
}

var (
	ErrBlankText     = fmt.Errorf("%w: message_text must not be blank", errs.ErrInvalid)
	ErrTextTooLong   = fmt.Errorf("%w: message_text must be shorter than %d characters", errs.ErrInvalid, social.MaxMessageTextLen)
	ErrUnknownAuthor = fmt.Errorf("%w: posted_by does not reference an existing account", errs.ErrInvalid)
	// ErrMessageNotFound rejects an update of a missing message; it is both invalid and not found.
	ErrMessageNotFound = fmt.Errorf("%w: %w: message does not exist", errs.ErrInvalid, errs.ErrNotFound)
)

type service struct {
	repo     Repo
	writer   Writer
	accounts AccountChecker
}

func New(repo Repo, writer Writer, accounts AccountChecker) Service {
	return &service{repo: repo, writer: writer, accounts: accounts}
}

// ValidateText accepts non-blank text shorter than social.MaxMessageTextLen characters.
func (s *service) ValidateText(text string) error {
	if social.IsBlank(text) {
		return ErrBlankText
	}
	if social.TextLen(text) >= social.MaxMessageTextLen {
		return ErrTextTooLong
	}
	return nil
}

func (s *service) Create(ctx context.Context, m social.Message) (social.Message, error) {
	if err := s.ValidateText(m.MessageText); err != nil {
		return social.Message{}, err
	}
	ok, err := s.accounts.AccountExists(ctx, m.PostedBy)
	if err != nil {
		return social.Message{}, err
	}
	if !ok {
		return social.Message{}, ErrUnknownAuthor
	}
	m.MessageID = 0
	return s.writer.CreateMessage(ctx, m)
}

func (s *service) List(ctx context.Context) ([]social.Message, error) {
	out, err := s.repo.ListMessages(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []social.Message{}
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, messageID int64) (social.Message, error) {
	return s.repo.MessageByID(ctx, messageID)
}

func (s *service) ListByAccount(ctx context.Context, accountID int64) ([]social.Message, error) {
	out, err := s.repo.MessagesByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []social.Message{}
	}
	return out, nil
}

// UpdateText replaces the text of an existing message and returns the stored row.
// Nothing is written when the text is invalid or the message is missing.
func (s *service) UpdateText(ctx context.Context, messageID int64, text string) (social.Message, error) {
	if err := s.ValidateText(text); err != nil {
		return social.Message{}, err
	}
	updated, err := s.writer.UpdateMessageText(ctx, messageID, text)
	if errors.Is(err, errs.ErrNotFound) {
		return social.Message{}, ErrMessageNotFound
	}
	if err != nil {
		return social.Message{}, err
	}
	return updated, nil
}

// Delete removes a message and returns its content as it was before deletion.
func (s *service) Delete(ctx context.Context, messageID int64) (social.Message, error) {
	return s.writer.DeleteMessage(ctx, messageID)
}
