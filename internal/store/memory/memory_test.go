package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/socialmedia-server/internal/store"
)

func TestInTx_DiscardsChangesOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	errAbort := errors.New("abort")

	alice, err := s.CreateAccount(ctx, "alice", "pass1")
	require.NoError(t, err)

	err = s.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.CreateMessage(ctx, &store.Message{PostedBy: alice.ID, Text: "hi"}); err != nil {
			return err
		}
		if _, err := tx.CreateAccount(ctx, "bob", "pass2"); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	msgs, err := s.ListMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	_, err = s.GetAccountByUsername(ctx, "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// ids handed out inside the aborted transaction are reused
	bob, err := s.CreateAccount(ctx, "bob", "pass2")
	require.NoError(t, err)
	assert.EqualValues(t, 2, bob.ID)
}

func TestMessagesLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice, err := s.CreateAccount(ctx, "alice", "pass1")
	require.NoError(t, err)

	_, err = s.CreateAccount(ctx, "alice", "other")
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)

	_, err = s.CreateMessage(ctx, &store.Message{PostedBy: 99, Text: "orphan"})
	assert.Error(t, err)

	m1, err := s.CreateMessage(ctx, &store.Message{PostedBy: alice.ID, Text: "one"})
	require.NoError(t, err)
	m2, err := s.CreateMessage(ctx, &store.Message{PostedBy: alice.ID, Text: "two"})
	require.NoError(t, err)
	assert.Greater(t, m2.ID, m1.ID)

	list, err := s.ListMessagesByAccount(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, m1.ID, list[0].ID)

	n, err := s.UpdateMessageText(ctx, m1.ID, "uno")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.UpdateMessageText(ctx, 1000, "nothing")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = s.DeleteMessage(ctx, m2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.GetMessageByID(ctx, m1.ID)
	require.NoError(t, err)
	assert.Equal(t, "uno", got.Text)

	_, err = s.GetMessageByID(ctx, m2.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
