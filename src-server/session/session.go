// Package session owns the editing sessions: one Session per open
// form, holding the form store, the drag controller and the originally
// loaded snapshot behind a single mutex. All form mutation is a
// synchronous, atomic transformation; the two network calls (load,
// save) are the only suspension points.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"huddle/src-server/form"
	"huddle/src-server/reorder"
	"huddle/src-server/submit"

	"github.com/google/uuid"
)

type Session struct {
	ID uuid.UUID

	mu          sync.Mutex
	store       *form.Store
	drag        *reorder.Controller
	coordinator *submit.Coordinator

	eventID string
	// the loaded copy, kept unmodified for the diff at submit time;
	// nil for the create flow
	original *form.EventForm

	lastActive time.Time
	ctx        context.Context
	cancel     context.CancelFunc
}

// ReadModel is what the presentation layer sees of a session.
type ReadModel struct {
	SessionID    uuid.UUID             `json:"sessionId"`
	EventID      string                `json:"eventId,omitempty"`
	Snapshot     form.EventForm        `json:"snapshot"`
	Errors       map[form.Field]string `json:"errors"`
	Focused      []form.Field          `json:"focused"`
	HasSubmitted bool                  `json:"hasSubmitted"`
	Dragging     bool                  `json:"dragging"`
}

// Update runs fn against the form store under the session lock.
func (s *Session) Update(fn func(*form.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	fn(s.store)
}

func (s *Session) Read() ReadModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return ReadModel{
		SessionID:    s.ID,
		EventID:      s.eventID,
		Snapshot:     s.store.Snapshot(),
		Errors:       s.store.Errors(),
		Focused:      s.store.Focused(),
		HasSubmitted: s.store.HasSubmitted(),
		Dragging:     s.drag.Dragging(),
	}
}

func (s *Session) BeginDrag(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.drag.Begin(index)
}

func (s *Session) UpdateDrag(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.drag.Update(delta)
}

// EndDrag releases the gesture, applies the single-step move to the
// location list and returns the resulting order.
func (s *Session) EndDrag() []form.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	locations := s.store.Snapshot().Locations
	from, to, moved := s.drag.End(len(locations))
	if moved {
		locations = reorder.Move(locations, from, to)
		s.store.SetLocations(locations)
	}
	return locations
}

func (s *Session) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Dragging()
}

// Submit runs the submission protocol. Concurrent calls serialize on
// the session lock; they never interleave with each other or with
// field edits.
func (s *Session) Submit(ctx context.Context) (*submit.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.coordinator.Submit(ctx, s.store, s.eventID, s.original)
}

// Context is cancelled when the session closes or expires; a
// load-in-flight bound to it gets abandoned with it.
func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}

// Manager keys the open sessions by id and expires the idle ones.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	store    submit.EventStore
	notifier submit.Notifier
	ttl      time.Duration
}

func NewManager(store submit.EventStore, notifier submit.Notifier, ttl time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[uuid.UUID]*Session),
		store:    store,
		notifier: notifier,
		ttl:      ttl,
	}
	go m.janitor()
	return m
}

// Open starts a new form session. A non-blank eventID loads that
// record for editing; the load is bound to the session context, so a
// session closed mid-load abandons the result.
func (m *Manager) Open(eventID string) (*Session, error) {
	ctx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		ID:          uuid.New(),
		drag:        reorder.NewController(0),
		coordinator: submit.NewCoordinator(m.store, m.notifier),
		eventID:     eventID,
		lastActive:  time.Now(),
		ctx:         ctx,
		cancel:      cancel,
	}

	if eventID == "" {
		sess.store = form.NewStore()
	} else {
		snap, err := m.store.Load(ctx, eventID)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("(*Manager).Open: %w", err)
		}
		sess.store = form.NewStoreFrom(snap)
		sess.original = snap
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess, nil
}

func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok {
		sess.cancel()
		delete(m.sessions, id)
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) janitor() {
	for {
		time.Sleep(time.Minute)
		m.mu.Lock()
		for id, sess := range m.sessions {
			sess.mu.Lock()
			idle := time.Since(sess.lastActive)
			sess.mu.Unlock()
			if idle > m.ttl {
				sess.cancel()
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()
	}
}
