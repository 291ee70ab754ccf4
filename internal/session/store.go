package session

import (
	"log/slog"
	"sync"
)

// Listener receives a copy of the state after every dispatched action.
type Listener func(State)

// StoreOptions configures a Store.
type StoreOptions struct {
	Initial State
	Logger  *slog.Logger
}

// Store holds one client session. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	state     State
	round     uint64
	listeners map[int]Listener
	nextID    int
	logger    *slog.Logger
}

// NewStore creates a Store seeded with opts.Initial.
func NewStore(opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:     opts.Initial.clone(),
		listeners: make(map[int]Listener),
		logger:    logger.With("component", "session_store"),
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch applies a and notifies listeners. It returns the new state.
// SignOut and Restore start a new round: results of requests begun before
// them are discarded by Finish.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	if a.Type == ActionSignOut || a.Type == ActionRestore {
		s.round++
	}
	return s.applyLocked(a)
}

// Ticket identifies the authentication request started by Begin.
type Ticket struct {
	round uint64
}

// Begin atomically starts an authentication request. It returns false and
// changes nothing when one is already pending.
func (s *Store) Begin() (Ticket, bool) {
	s.mu.Lock()
	if s.state.Pending {
		s.mu.Unlock()
		return Ticket{}, false
	}
	t := Ticket{round: s.round}
	s.applyLocked(SignInStart())
	return t, true
}

// Finish applies the outcome of the request identified by t. When the
// session was signed out or restored since Begin, only the pending flag is
// cleared and Finish reports false.
func (s *Store) Finish(t Ticket, a Action) (State, bool) {
	s.mu.Lock()
	if t.round != s.round {
		return s.applyLocked(Settle()), false
	}
	return s.applyLocked(a), true
}

// applyLocked reduces a, releases s.mu and notifies listeners.
func (s *Store) applyLocked(a Action) State {
	s.state = Reduce(s.state, a)
	next, listeners := s.state.clone(), s.snapshotListeners()
	s.mu.Unlock()

	s.logger.Debug("session action", "action", a.Type, "authenticated", next.Authenticated, "pending", next.Pending)
	notify(listeners, next)
	return next
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) snapshotListeners() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, st State) {
	for _, l := range listeners {
		l(st.clone())
	}
}
