package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/socialmedia-server/internal/store"
)

// minPasswordLength is the shortest password accepted at registration.
const minPasswordLength = 4

var (
	// ErrDuplicateUsername is returned when trying to register with an existing username.
	ErrDuplicateUsername = errors.New("duplicate username")
	// ErrInvalidUsername is returned when username is empty.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPassword is returned when password is too short.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidCredentials is returned when username/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service provides account registration and login.
type Service struct {
	store store.Store
}

// New creates a new account service.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// Register persists a new account. The duplicate-username check and the insert
// run in one transaction; nothing is written when any rule fails.
func (s *Service) Register(ctx context.Context, candidate store.Account) (*store.Account, error) {
	var created *store.Account
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		_, err := tx.GetAccountByUsername(ctx, candidate.Username)
		switch {
		case err == nil:
			return ErrDuplicateUsername
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("lookup account: %w", err)
		}

		if candidate.Username == "" {
			return ErrInvalidUsername
		}
		if len(candidate.Password) < minPasswordLength {
			return ErrInvalidPassword
		}

		created, err = tx.CreateAccount(ctx, candidate.Username, candidate.Password)
		if errors.Is(err, store.ErrDuplicateUsername) {
			return ErrDuplicateUsername
		}
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login returns the stored account when username and password match exactly.
// Passwords are stored and compared as plain text.
func (s *Service) Login(ctx context.Context, candidate store.Account) (*store.Account, error) {
	acc, err := s.store.GetAccountByUsername(ctx, candidate.Username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if acc.Password != candidate.Password {
		return nil, ErrInvalidCredentials
	}
	return acc, nil
}
