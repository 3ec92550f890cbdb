package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/socialmedia-server/internal/store"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// pgUniqueViolation is the postgres SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// SQLStore implements store.Store on top of a SQL database.
type SQLStore struct {
	db *sqlx.DB
	queries
}

// Open connects to the database identified by driver and dsn.
// For sqlite3 the dsn is a file path (or ":memory:").
func Open(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// SQLite works best with single connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return New(db), nil
}

// New wraps an already opened database handle.
func New(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, queries: queries{ext: db}}
}

// DB exposes the underlying handle, used for migrations.
func (s *SQLStore) DB() *sql.DB {
	return s.db.DB
}

// DriverName returns the database/sql driver in use.
func (s *SQLStore) DriverName() string {
	return s.db.DriverName()
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// InTx runs fn inside a database transaction.
func (s *SQLStore) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	opts := &sql.TxOptions{}
	if s.db.DriverName() == DriverPostgres {
		opts.Isolation = sql.LevelSerializable
	}

	tx, err := s.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if fnErr := fn(queries{ext: tx}); fnErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback tx: %v: %w", rbErr, fnErr)
		}
		return fnErr
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return true
	}
	return false
}

// queries holds every statement; it runs either on the pool or on a transaction.
type queries struct {
	ext sqlx.ExtContext
}

// ==== AccountStore implementation ====

// GetAccountByUsername retrieves an account by username.
func (q queries) GetAccountByUsername(ctx context.Context, username string) (*store.Account, error) {
	query := `
		SELECT account_id, username, password
		FROM account
		WHERE username = ?
	`
	var acc store.Account
	if err := sqlx.GetContext(ctx, q.ext, &acc, q.ext.Rebind(query), username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %q: %w", username, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &acc, nil
}

// GetAccountByID retrieves an account by ID.
func (q queries) GetAccountByID(ctx context.Context, id int64) (*store.Account, error) {
	query := `
		SELECT account_id, username, password
		FROM account
		WHERE account_id = ?
	`
	var acc store.Account
	if err := sqlx.GetContext(ctx, q.ext, &acc, q.ext.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %d: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &acc, nil
}

// CreateAccount inserts a new account.
func (q queries) CreateAccount(ctx context.Context, username, password string) (*store.Account, error) {
	query := `
		INSERT INTO account (username, password)
		VALUES (?, ?)
		RETURNING account_id
	`
	var id int64
	if err := sqlx.GetContext(ctx, q.ext, &id, q.ext.Rebind(query), username, password); err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return &store.Account{ID: id, Username: username, Password: password}, nil
}

// ==== MessageStore implementation ====

// GetMessageByID retrieves a message by ID.
func (q queries) GetMessageByID(ctx context.Context, id int64) (*store.Message, error) {
	query := `
		SELECT message_id, posted_by, message_text, time_posted_epoch
		FROM message
		WHERE message_id = ?
	`
	var msg store.Message
	if err := sqlx.GetContext(ctx, q.ext, &msg, q.ext.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %d: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query message: %w", err)
	}
	return &msg, nil
}

// CreateMessage inserts a message.
func (q queries) CreateMessage(ctx context.Context, msg *store.Message) (*store.Message, error) {
	query := `
		INSERT INTO message (posted_by, message_text, time_posted_epoch)
		VALUES (?, ?, ?)
		RETURNING message_id
	`
	var id int64
	if err := sqlx.GetContext(ctx, q.ext, &id, q.ext.Rebind(query), msg.PostedBy, msg.Text, msg.TimePostedEpoch); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	saved := *msg
	saved.ID = id
	return &saved, nil
}

// UpdateMessageText replaces the text of a message.
func (q queries) UpdateMessageText(ctx context.Context, id int64, text string) (int64, error) {
	query := `UPDATE message SET message_text = ? WHERE message_id = ?`
	result, err := q.ext.ExecContext(ctx, q.ext.Rebind(query), text, id)
	if err != nil {
		return 0, fmt.Errorf("update message: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// DeleteMessage removes a message.
func (q queries) DeleteMessage(ctx context.Context, id int64) (int64, error) {
	query := `DELETE FROM message WHERE message_id = ?`
	result, err := q.ext.ExecContext(ctx, q.ext.Rebind(query), id)
	if err != nil {
		return 0, fmt.Errorf("delete message: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// ListMessages lists every message.
func (q queries) ListMessages(ctx context.Context) ([]*store.Message, error) {
	query := `
		SELECT message_id, posted_by, message_text, time_posted_epoch
		FROM message
		ORDER BY message_id
	`
	messages := make([]*store.Message, 0)
	if err := sqlx.SelectContext(ctx, q.ext, &messages, query); err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	return messages, nil
}

// ListMessagesByAccount lists messages posted by an account.
func (q queries) ListMessagesByAccount(ctx context.Context, accountID int64) ([]*store.Message, error) {
	query := `
		SELECT m.message_id, m.posted_by, m.message_text, m.time_posted_epoch
		FROM message m
		INNER JOIN account a ON m.posted_by = a.account_id
		WHERE a.account_id = ?
		ORDER BY m.message_id
	`
	messages := make([]*store.Message, 0)
	if err := sqlx.SelectContext(ctx, q.ext, &messages, q.ext.Rebind(query), accountID); err != nil {
		return nil, fmt.Errorf("query messages by account: %w", err)
	}
	return messages, nil
}
