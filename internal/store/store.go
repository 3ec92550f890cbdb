package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by single-row lookups when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername is returned when the username uniqueness constraint rejects an insert.
	ErrDuplicateUsername = errors.New("username already taken")
)

// Account represents a registered account.
type Account struct {
	ID       int64  `db:"account_id"`
	Username string `db:"username"`
	Password string `db:"password"`
}

// Message represents a persisted message.
type Message struct {
	ID              int64  `db:"message_id"`
	PostedBy        int64  `db:"posted_by"`
	Text            string `db:"message_text"`
	TimePostedEpoch int64  `db:"time_posted_epoch"`
}

// AccountStore handles account persistence.
type AccountStore interface {
	// GetAccountByUsername retrieves an account by username.
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)

	// GetAccountByID retrieves an account by ID.
	GetAccountByID(ctx context.Context, id int64) (*Account, error)

	// CreateAccount inserts a new account and returns it with the assigned ID.
	CreateAccount(ctx context.Context, username, password string) (*Account, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// GetMessageByID retrieves a message by ID.
	GetMessageByID(ctx context.Context, id int64) (*Message, error)

	// CreateMessage inserts a message and returns it with the assigned ID.
	CreateMessage(ctx context.Context, msg *Message) (*Message, error)

	// UpdateMessageText replaces the text of a message and returns the number of rows affected.
	UpdateMessageText(ctx context.Context, id int64, text string) (int64, error)

	// DeleteMessage removes a message and returns the number of rows affected.
	DeleteMessage(ctx context.Context, id int64) (int64, error)

	// ListMessages lists every stored message ordered by ID.
	ListMessages(ctx context.Context) ([]*Message, error)

	// ListMessagesByAccount lists messages posted by the given account ordered by ID.
	ListMessagesByAccount(ctx context.Context, accountID int64) ([]*Message, error)
}

// Tx is the set of operations available inside a transaction.
type Tx interface {
	AccountStore
	MessageStore
}

// Store aggregates all storage interfaces.
type Store interface {
	Tx

	// InTx runs fn inside a single transaction. The transaction is committed
	// when fn returns nil and rolled back otherwise; fn's error is returned unchanged.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Close closes the underlying database connection.
	Close() error
}
