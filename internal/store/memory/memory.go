// Package memory provides a map-backed store.Store used by tests and the "memory" driver.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/socialmedia-server/internal/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu    sync.Mutex
	state state
}

type state struct {
	accounts      map[int64]store.Account
	messages      map[int64]store.Message
	nextAccountID int64
	nextMessageID int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		state: state{
			accounts:      make(map[int64]store.Account),
			messages:      make(map[int64]store.Message),
			nextAccountID: 1,
			nextMessageID: 1,
		},
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// InTx holds the store lock for the duration of fn. Changes made by fn are
// discarded when it returns an error.
func (s *Store) InTx(_ context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&s.state); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *Store) GetAccountByUsername(ctx context.Context, username string) (*store.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetAccountByUsername(ctx, username)
}

func (s *Store) GetAccountByID(ctx context.Context, id int64) (*store.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetAccountByID(ctx, id)
}

func (s *Store) CreateAccount(ctx context.Context, username, password string) (*store.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateAccount(ctx, username, password)
}

func (s *Store) GetMessageByID(ctx context.Context, id int64) (*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetMessageByID(ctx, id)
}

func (s *Store) CreateMessage(ctx context.Context, msg *store.Message) (*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateMessage(ctx, msg)
}

func (s *Store) UpdateMessageText(ctx context.Context, id int64, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateMessageText(ctx, id, text)
}

func (s *Store) DeleteMessage(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DeleteMessage(ctx, id)
}

func (s *Store) ListMessages(ctx context.Context) ([]*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListMessages(ctx)
}

func (s *Store) ListMessagesByAccount(ctx context.Context, accountID int64) ([]*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListMessagesByAccount(ctx, accountID)
}

// state methods assume the caller holds the store lock.

func (st *state) clone() state {
	c := state{
		accounts:      make(map[int64]store.Account, len(st.accounts)),
		messages:      make(map[int64]store.Message, len(st.messages)),
		nextAccountID: st.nextAccountID,
		nextMessageID: st.nextMessageID,
	}
	for id, a := range st.accounts {
		c.accounts[id] = a
	}
	for id, m := range st.messages {
		c.messages[id] = m
	}
	return c
}

func (st *state) GetAccountByUsername(_ context.Context, username string) (*store.Account, error) {
	for _, a := range st.accounts {
		if a.Username == username {
			acc := a
			return &acc, nil
		}
	}
	return nil, fmt.Errorf("account %q: %w", username, store.ErrNotFound)
}

func (st *state) GetAccountByID(_ context.Context, id int64) (*store.Account, error) {
	a, ok := st.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, store.ErrNotFound)
	}
	return &a, nil
}

func (st *state) CreateAccount(ctx context.Context, username, password string) (*store.Account, error) {
	if _, err := st.GetAccountByUsername(ctx, username); err == nil {
		return nil, store.ErrDuplicateUsername
	}
	a := store.Account{ID: st.nextAccountID, Username: username, Password: password}
	st.accounts[a.ID] = a
	st.nextAccountID++
	return &a, nil
}

func (st *state) GetMessageByID(_ context.Context, id int64) (*store.Message, error) {
	m, ok := st.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %d: %w", id, store.ErrNotFound)
	}
	return &m, nil
}

func (st *state) CreateMessage(_ context.Context, msg *store.Message) (*store.Message, error) {
	if _, ok := st.accounts[msg.PostedBy]; !ok {
		return nil, fmt.Errorf("insert message: unknown account %d", msg.PostedBy)
	}
	m := *msg
	m.ID = st.nextMessageID
	st.messages[m.ID] = m
	st.nextMessageID++
	return &m, nil
}

func (st *state) UpdateMessageText(_ context.Context, id int64, text string) (int64, error) {
	m, ok := st.messages[id]
	if !ok {
		return 0, nil
	}
	m.Text = text
	st.messages[id] = m
	return 1, nil
}

func (st *state) DeleteMessage(_ context.Context, id int64) (int64, error) {
	if _, ok := st.messages[id]; !ok {
		return 0, nil
	}
	delete(st.messages, id)
	return 1, nil
}

func (st *state) ListMessages(_ context.Context) ([]*store.Message, error) {
	return st.filter(func(store.Message) bool { return true }), nil
}

func (st *state) ListMessagesByAccount(_ context.Context, accountID int64) ([]*store.Message, error) {
	return st.filter(func(m store.Message) bool { return m.PostedBy == accountID }), nil
}

func (st *state) filter(keep func(store.Message) bool) []*store.Message {
	out := make([]*store.Message, 0)
	for _, m := range st.messages {
		if keep(m) {
			msg := m
			out = append(out, &msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
