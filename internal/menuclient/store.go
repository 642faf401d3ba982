// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import (
	"context"
	"sync"

	"github.com/alexedwards/scs/v2"
)

// StoredContext is the persisted slice of a location context: just
// enough to remember the visitor's city between page views.
type StoredContext struct {
	CitySlug string
	CityName string
}

// ContextStore persists the visitor's city context between page views.
type ContextStore interface {
	Load(ctx context.Context) (StoredContext, error)
	Save(ctx context.Context, sc StoredContext) error
	Clear(ctx context.Context) error
}

// MemoryContextStore keeps the context in memory. Used in tests and
// in single-view runs where nothing should survive the page view.
type MemoryContextStore struct {
	mu sync.Mutex
	sc StoredContext
}

// NewMemoryContextStore creates an empty in-memory context store.
func NewMemoryContextStore() *MemoryContextStore {
	return &MemoryContextStore{}
}

func (s *MemoryContextStore) Load(_ context.Context) (StoredContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sc, nil
}

func (s *MemoryContextStore) Save(_ context.Context, sc StoredContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sc = sc
	return nil
}

func (s *MemoryContextStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sc = StoredContext{}
	return nil
}

// Session keys shared with the /menu-context handler.
const (
	sessionKeyCitySlug = "current_city_slug"
	sessionKeyCityName = "current_city_name"
)

// SessionContextStore persists the context in the server-side session,
// mirroring the browser sessionStorage contract.
type SessionContextStore struct {
	sm *scs.SessionManager
}

// NewSessionContextStore creates a session-backed context store. The
// request context passed to its methods must carry session data, which
// means the caller sits inside the session manager's LoadAndSave chain.
func NewSessionContextStore(sm *scs.SessionManager) *SessionContextStore {
	return &SessionContextStore{sm: sm}
}

func (s *SessionContextStore) Load(ctx context.Context) (StoredContext, error) {
	return StoredContext{
		CitySlug: s.sm.GetString(ctx, sessionKeyCitySlug),
		CityName: s.sm.GetString(ctx, sessionKeyCityName),
	}, nil
}

func (s *SessionContextStore) Save(ctx context.Context, sc StoredContext) error {
	s.sm.Put(ctx, sessionKeyCitySlug, sc.CitySlug)
	s.sm.Put(ctx, sessionKeyCityName, sc.CityName)
	return nil
}

func (s *SessionContextStore) Clear(ctx context.Context) error {
	s.sm.Remove(ctx, sessionKeyCitySlug)
	s.sm.Remove(ctx, sessionKeyCityName)
	return nil
}
