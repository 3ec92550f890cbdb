package sqldb

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/socialmedia-server/internal/store"
	"github.com/vovakirdan/socialmedia-server/internal/store/migrations"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()

	s, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, migrations.Up(s.DB(), s.DriverName()))
	return s
}

func TestAccounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateAccount(ctx, "alice", "pass1")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	byName, err := s.GetAccountByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, *created, *byName)

	byID, err := s.GetAccountByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pass1", byID.Password)

	_, err = s.GetAccountByUsername(ctx, "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetAccountByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAccount_UniqueViolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateAccount(ctx, "alice", "pass1")
	require.NoError(t, err)

	_, err = s.CreateAccount(ctx, "alice", "pass2")
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)
}

func TestMessages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice, err := s.CreateAccount(ctx, "alice", "pass1")
	require.NoError(t, err)
	bob, err := s.CreateAccount(ctx, "bob", "pass2")
	require.NoError(t, err)

	all, err := s.ListMessages(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	first, err := s.CreateMessage(ctx, &store.Message{PostedBy: alice.ID, Text: "hello", TimePostedEpoch: 1669947792})
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, &store.Message{PostedBy: alice.ID, Text: "again", TimePostedEpoch: 1669947793})
	require.NoError(t, err)

	got, err := s.GetMessageByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, *first, *got)

	all, err = s.ListMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byAlice, err := s.ListMessagesByAccount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, byAlice, 2)

	byBob, err := s.ListMessagesByAccount(ctx, bob.ID)
	require.NoError(t, err)
	assert.NotNil(t, byBob)
	assert.Empty(t, byBob)

	n, err := s.UpdateMessageText(ctx, first.ID, "edited")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err = s.GetMessageByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
	assert.Equal(t, alice.ID, got.PostedBy)
	assert.EqualValues(t, 1669947792, got.TimePostedEpoch)

	n, err = s.DeleteMessage(ctx, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.DeleteMessage(ctx, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	_, err = s.GetMessageByID(ctx, first.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := s.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.CreateAccount(ctx, "alice", "pass1"); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	_, err = s.GetAccountByUsername(ctx, "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.InTx(ctx, func(tx store.Tx) error {
		_, err := tx.CreateAccount(ctx, "alice", "pass1")
		return err
	})
	require.NoError(t, err)

	_, err = s.GetAccountByUsername(ctx, "alice")
	assert.NoError(t, err)
}

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func TestDeleteMessage_ReturnsStoreAffectedCount(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM message").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.DeleteMessage(context.Background(), 7)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMessageText_PropagatesExecError(t *testing.T) {
	s, mock := newMockStore(t)
	errDown := errors.New("connection reset")

	mock.ExpectExec("UPDATE message SET message_text").
		WithArgs("new text", int64(2)).
		WillReturnError(errDown)

	_, err := s.UpdateMessageText(context.Background(), 2, "new text")
	assert.ErrorIs(t, err, errDown)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_CommitAndRollback(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()
	errAbort := errors.New("abort")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT account_id, username, password").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "username", "password"}).AddRow(int64(1), "bob", "secret"))
	mock.ExpectRollback()

	err := s.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetAccountByUsername(ctx, "bob"); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err = s.InTx(ctx, func(store.Tx) error { return nil })
	assert.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	assert.Error(t, err)
}
