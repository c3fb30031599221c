package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"attendance-app/data/form"

	"github.com/google/uuid"
)

// errFormNotFound is returned for unknown or expired form ids.
var errFormNotFound = errors.New("form not found")

type formEntry struct {
	ctrl     *form.Controller
	lastSeen time.Time
}

// formStore keeps the open form sessions. Every form owns its state; the
// store only maps ids to forms and drops forms left idle for too long.
type formStore struct {
	mu    sync.Mutex
	forms map[string]*formEntry
	deps  form.Deps
	ttl   time.Duration
	now   func() time.Time
}

func newFormStore(deps form.Deps, ttl time.Duration) *formStore {
	return &formStore{
		forms: make(map[string]*formEntry),
		deps:  deps,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Open creates an empty form.
func (s *formStore) Open() *form.Controller {
	id := uuid.NewString()

	deps := s.deps
	deps.FileURL = func(key string) string {
		return "/api/forms/" + id + "/attachments/" + key
	}
	ctrl := form.NewController(id, deps)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[id] = &formEntry{ctrl: ctrl, lastSeen: s.now()}
	return ctrl
}

// Get returns the form with the given id and marks it as in use.
func (s *formStore) Get(id string) (*form.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.forms[id]
	if !ok {
		return nil, errFormNotFound
	}
	e.lastSeen = s.now()
	return e.ctrl, nil
}

// Discard drops a form and everything attached to it.
func (s *formStore) Discard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forms[id]; !ok {
		return errFormNotFound
	}
	delete(s.forms, id)
	return nil
}

// Len returns the number of open forms.
func (s *formStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

// Sweep drops forms idle for longer than the TTL. Forms being submitted are
// kept until their request ends.
func (s *formStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.forms {
		if e.lastSeen.Before(cutoff) && e.ctrl.State() == form.Idle {
			delete(s.forms, id)
			removed++
		}
	}
	return removed
}

// Run sweeps the store every interval until ctx is done.
func (s *formStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("expired idle forms", "count", n)
			}
		}
	}
}

// feedback collects what a submit shows the user, for the HTTP response.
type feedback struct {
	Notification *form.Notification `json:"notification,omitempty"`
	Redirect     string             `json:"redirect,omitempty"`
	Refreshed    bool               `json:"refresh,omitempty"`
}

func (f *feedback) Notify(n form.Notification) {
	f.Notification = &n
}

func (f *feedback) Push(path string) {
	f.Redirect = path
}

func (f *feedback) Refresh() {
	f.Refreshed = true
}
