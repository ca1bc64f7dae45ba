// Package account implements the account service rules: non-blank unique usernames,
// a minimum password length, and exact-match login.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/tinoosan/social/internal/errs"
	"github.com/tinoosan/social/internal/social"
)

// Repo is the read side of the account store.
type Repo interface {
	AccountByUsername(ctx context.Context, username string) (social.Account, error)
	AccountByID(ctx context.Context, accountID int64) (social.Account, error)
	AccountExists(ctx context.Context, accountID int64) (bool, error)
	AccountByCredentials(ctx context.Context, username, password string) (social.Account, error)
}

// Writer is the write side of the account store. CreateAccount generates the id and
// reports errs.ErrConflict when the username is already taken.
type Writer interface {
	CreateAccount(ctx context.Context, username, password string) (social.Account, error)
}

type Service interface {
	ValidateRegistration(username, password string) error
	Register(ctx context.Context, username, password string) (social.Account, error)
	Login(ctx context.Context, username, password string) (social.Account, error)
}

var (
	ErrBlankUsername      = fmt.Errorf("%w: username must not be blank", errs.ErrInvalid)
	ErrPasswordTooShort   = fmt.Errorf("%w: password must be at least %d characters", errs.ErrInvalid, social.MinPasswordLen)
	ErrUsernameTaken      = fmt.Errorf("%w: username already exists", errs.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", errs.ErrUnauthorized)
)

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// ValidateRegistration checks the stateless registration rules.
func (s *service) ValidateRegistration(username, password string) error {
	if social.IsBlank(username) {
		return ErrBlankUsername
	}
	if social.TextLen(password) < social.MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// Register creates an account once the username is non-blank, the password is long
// enough and the username is free. The store's own uniqueness check closes the race
// between the lookup and the insert.
func (s *service) Register(ctx context.Context, username, password string) (social.Account, error) {
	if err := s.ValidateRegistration(username, password); err != nil {
		return social.Account{}, err
	}
	_, err := s.repo.AccountByUsername(ctx, username)
	switch {
	case err == nil:
		return social.Account{}, ErrUsernameTaken
	case !errors.Is(err, errs.ErrNotFound):
		return social.Account{}, err
	}
	created, err := s.writer.CreateAccount(ctx, username, password)
	if errors.Is(err, errs.ErrConflict) {
		return social.Account{}, ErrUsernameTaken
	}
	if err != nil {
		return social.Account{}, err
	}
	return created, nil
}

// Login returns the account whose username and password both match exactly.
func (s *service) Login(ctx context.Context, username, password string) (social.Account, error) {
	acc, err := s.repo.AccountByCredentials(ctx, username, password)
	if errors.Is(err, errs.ErrNotFound) {
		return social.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return social.Account{}, err
	}
	return acc, nil
}
