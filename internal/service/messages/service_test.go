package messages

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/socialmedia-server/internal/store"
	"github.com/vovakirdan/socialmedia-server/internal/store/storetest"
)

func seedAccount(t *testing.T, st store.Store, username string) *store.Account {
	t.Helper()

	acc, err := st.CreateAccount(context.Background(), username, "password")
	require.NoError(t, err)
	return acc
}

func TestPost_UnknownAccount(t *testing.T) {
	storetest.Run(t, func(t *testing.T, st store.Store) {
		svc := New(st)
		ctx := context.Background()

		_, err := svc.Post(ctx, store.Message{PostedBy: 42, Text: "hello"})
		require.ErrorIs(t, err, ErrUserNotInDB)

		// account check wins over text validation
		_, err = svc.Post(ctx, store.Message{PostedBy: 42, Text: ""})
		require.ErrorIs(t, err, ErrUserNotInDB)

		all, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestPost_TextLengthBounds(t *testing.T) {
	storetest.Run(t, func(t *testing.T, st store.Store) {
		svc := New(st)
		ctx := context.Background()
		alice := seedAccount(t, st, "alice")

		tests := []struct {
			name    string
			text    string
			wantErr error
		}{
			{name: "empty", text: "", wantErr: ErrInvalidMessageText},
			{name: "too long", text: strings.Repeat("a", 256), wantErr: ErrInvalidMessageText},
			{name: "single char", text: "a"},
			{name: "max length", text: strings.Repeat("a", 255)},
			{name: "multibyte max length", text: strings.Repeat("é", 255)},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				msg, err := svc.Post(ctx, store.Message{PostedBy: alice.ID, Text: tt.text, TimePostedEpoch: 1669947792})
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					assert.Nil(t, msg)
					return
				}
				require.NoError(t, err)
				assert.NotZero(t, msg.ID)
				assert.Equal(t, tt.text, msg.Text)
				assert.Equal(t, alice.ID, msg.PostedBy)
				assert.EqualValues(t, 1669947792, msg.TimePostedEpoch)
			})
		}

		all, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestGet(t *testing.T) {
	storetest.Run(t, func(t *testing.T, st store.Store) {
		svc := New(st)
		ctx := context.Background()
		alice := seedAccount(t, st, "alice")

		posted, err := svc.Post(ctx, store.Message{PostedBy: alice.ID, Text: "hi"})
		require.NoError(t, err)

		got, err := svc.Get(ctx, posted.ID)
		require.NoError(t, err)
		assert.Equal(t, *posted, *got)

		_, err = svc.Get(ctx, posted.ID+1)
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})
}

func TestDelete(t *testing.T) {
	storetest.Run(t, func(t *testing.T, st store.Store) {
		svc := New(st)
		ctx := context.Background()
		alice := seedAccount(t, st, "alice")

		posted, err := svc.Post(ctx, store.Message{PostedBy: alice.ID, Text: "bye"})
		require.NoError(t, err)

		_, err = svc.Delete(ctx, posted.ID+1)
		require.ErrorIs(t, err, ErrMessageNotFound)

		all, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		n, err := svc.Delete(ctx, posted.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		_, err = svc.Get(ctx, posted.ID)
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})
}

func TestUpdate(t *testing.T) {
	storetest.Run(t, func(t *testing.T, st store.Store) {
		svc := New(st)
		ctx := context.Background()
		alice := seedAccount(t, st, "alice")
		bob := seedAccount(t, st, "bob")

		posted, err := svc.Post(ctx, store.Message{PostedBy: alice.ID, Text: "original", TimePostedEpoch: 1669947792})
		require.NoError(t, err)

		_, err = svc.Update(ctx, posted.ID, store.Message{Text: ""})
		assert.ErrorIs(t, err, ErrInvalidMessageText)

		_, err = svc.Update(ctx, posted.ID, store.Message{Text: strings.Repeat("b", 256)})
		assert.ErrorIs(t, err, ErrInvalidMessageText)

		_, err = svc.Update(ctx, posted.ID+1, store.Message{Text: "valid"})
		assert.ErrorIs(t, err, ErrMessageNotFound)

		// fields other than the text are ignored
		newText := strings.Repeat("c", 100)
		n, err := svc.Update(ctx, posted.ID, store.Message{Text: newText, PostedBy: bob.ID, TimePostedEpoch: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		got, err := svc.Get(ctx, posted.ID)
		require.NoError(t, err)
		assert.Equal(t, newText, got.Text)
		assert.Equal(t, alice.ID, got.PostedBy)
		assert.EqualValues(t, 1669947792, got.TimePostedEpoch)
	})
}

func TestListByAccount(t *testing.T) {
	storetest.Run(t, func(t *testing.T, st store.Store) {
		svc := New(st)
		ctx := context.Background()
		alice := seedAccount(t, st, "alice")
		bob := seedAccount(t, st, "bob")

		for _, text := range []string{"one", "two"} {
			_, err := svc.Post(ctx, store.Message{PostedBy: alice.ID, Text: text})
			require.NoError(t, err)
		}

		msgs, err := svc.ListByAccount(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "one", msgs[0].Text)

		msgs, err = svc.ListByAccount(ctx, bob.ID)
		require.NoError(t, err)
		assert.NotNil(t, msgs)
		assert.Empty(t, msgs)

		msgs, err = svc.ListByAccount(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}

func TestValidText(t *testing.T) {
	assert.False(t, ValidText(""))
	assert.True(t, ValidText("x"))
	assert.True(t, ValidText(strings.Repeat("x", MaxTextLength)))
	assert.False(t, ValidText(strings.Repeat("x", MaxTextLength+1)))
}
