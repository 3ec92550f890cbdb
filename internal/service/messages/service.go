package messages

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/socialmedia-server/internal/store"
)

// Message text length bounds, inclusive, counted in characters.
const (
	MinTextLength = 1
	MaxTextLength = 255
)

// Common errors for message operations.
var (
	ErrUserNotInDB        = errors.New("posting account does not exist")
	ErrInvalidMessageText = errors.New("message text must be 1-255 characters")
	ErrMessageNotFound    = errors.New("message not found")
)

// Service provides message lifecycle business logic.
type Service struct {
	store store.Store
}

// New creates a new message service.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// ValidText reports whether text fits the allowed length range.
func ValidText(text string) bool {
	n := utf8.RuneCountInString(text)
	return n >= MinTextLength && n <= MaxTextLength
}

// Post persists a new message after checking the author exists and the text is valid.
func (s *Service) Post(ctx context.Context, candidate store.Message) (*store.Message, error) {
	var created *store.Message
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetAccountByID(ctx, candidate.PostedBy); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotInDB
			}
			return fmt.Errorf("lookup account: %w", err)
		}

		if !ValidText(candidate.Text) {
			return ErrInvalidMessageText
		}

		var err error
		created, err = tx.CreateMessage(ctx, &candidate)
		if err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// List returns every stored message.
func (s *Service) List(ctx context.Context) ([]*store.Message, error) {
	msgs, err := s.store.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// Get returns a single message by ID.
func (s *Service) Get(ctx context.Context, id int64) (*store.Message, error) {
	msg, err := s.store.GetMessageByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// Delete removes a message and returns the number of rows the store deleted.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		if err := ensureMessage(ctx, tx, id); err != nil {
			return err
		}

		var err error
		affected, err = tx.DeleteMessage(ctx, id)
		if err != nil {
			return fmt.Errorf("delete message: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Update replaces the text of an existing message. Only patch.Text is used.
func (s *Service) Update(ctx context.Context, id int64, patch store.Message) (int64, error) {
	if !ValidText(patch.Text) {
		return 0, ErrInvalidMessageText
	}

	var affected int64
	err := s.store.InTx(ctx, func(tx store.Tx) error {
		if err := ensureMessage(ctx, tx, id); err != nil {
			return err
		}

		var err error
		affected, err = tx.UpdateMessageText(ctx, id, patch.Text)
		if err != nil {
			return fmt.Errorf("update message: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// ListByAccount returns messages posted by accountID. Unknown accounts yield an empty list.
func (s *Service) ListByAccount(ctx context.Context, accountID int64) ([]*store.Message, error) {
	msgs, err := s.store.ListMessagesByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list messages by account: %w", err)
	}
	return msgs, nil
}

func ensureMessage(ctx context.Context, tx store.Tx, id int64) error {
	_, err := tx.GetMessageByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrMessageNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup message: %w", err)
	}
	return nil
}
