package roamauth

import "sync"

// sessionState is the single owned container for the current Session and the
// pending-verification email. Only the auth operations and the gateway's
// refresh-failure path mutate it; every mutation happens under the lock, so
// a reader never observes a half-updated Session.
type sessionState struct {
	mu           sync.RWMutex
	session      Session
	pendingEmail string

	watchers    map[uint64]chan Session
	nextWatcher uint64
}

func newSessionState() *sessionState {
	return &sessionState{
		watchers: make(map[uint64]chan Session),
	}
}

func (s *sessionState) snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *sessionState) pending() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingEmail
}

func (s *sessionState) phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.session.IsAuthenticated:
		return PhaseAuthenticated
	case s.pendingEmail != "":
		return PhasePendingVerification
	default:
		return PhaseAnonymous
	}
}

func (s *sessionState) setLoading(loading bool) {
	s.mu.Lock()
	s.session.IsLoading = loading
	snap := s.session
	s.mu.Unlock()

	s.notify(snap)
}

func (s *sessionState) setAuthenticated(user *User, accessToken string) {
	s.mu.Lock()
	s.session.User = user
	s.session.IsAuthenticated = true
	s.session.AccessToken = accessToken
	s.pendingEmail = ""
	snap := s.session
	s.mu.Unlock()

	s.notify(snap)
}

// setAccessToken swaps in a freshly refreshed token without touching the
// rest of the session.
func (s *sessionState) setAccessToken(accessToken string) {
	s.mu.Lock()
	if s.session.IsAuthenticated {
		s.session.AccessToken = accessToken
	}
	snap := s.session
	s.mu.Unlock()

	s.notify(snap)
}

func (s *sessionState) setPendingEmail(email string) {
	s.mu.Lock()
	s.pendingEmail = email
	snap := s.session
	s.mu.Unlock()

	s.notify(snap)
}

// clear resets to the empty Anonymous shape, preserving only the loading
// flag owned by the in-flight operation.
func (s *sessionState) clear() {
	s.mu.Lock()
	loading := s.session.IsLoading
	s.session = Session{IsLoading: loading}
	s.pendingEmail = ""
	snap := s.session
	s.mu.Unlock()

	s.notify(snap)
}

// subscribe registers a watcher channel that receives session snapshots
// after every state change. Slow consumers miss intermediate snapshots
// rather than blocking a mutation. The returned func cancels the watcher.
func (s *sessionState) subscribe() (<-chan Session, func()) {
	ch := make(chan Session, 1)

	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}

	return ch, cancel
}

func (s *sessionState) notify(snap Session) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.watchers {
		select {
		case ch <- snap:
		default:
			// Replace the stale snapshot so the watcher always sees the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
