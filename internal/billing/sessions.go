package billing

import (
	"sync"
	"time"
)

// Context carries the operator-entered pricing state for one session: the
// day's metal rates and the charge percentages. Rates are entered per 10
// grams, matching how bullion prices are quoted at the counter.
type Context struct {
	GoldRatePer10g      float64 `json:"goldRatePer10g"`
	SilverRatePer10g    float64 `json:"silverRatePer10g"`
	MakingChargePercent float64 `json:"makingChargePercent"`
	GSTPercent          float64 `json:"gstPercent"`
}

type sessionEntry struct {
	cart     *Cart
	bctx     Context
	lastSeen time.Time
}

// SessionStore keeps one cart and billing context per operator session,
// evicting sessions idle longer than the TTL.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	defaults Context
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration, defaults Context) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		defaults: defaults,
		now:      time.Now,
	}
}

func (s *SessionStore) entry(sessionID string) *sessionEntry {
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &sessionEntry{cart: NewCart(), bctx: s.defaults}
		s.sessions[sessionID] = e
	}
	e.lastSeen = s.now()
	return e
}

// WithCart runs fn against the session's cart under the store lock.
func (s *SessionStore) WithCart(sessionID string, fn func(c *Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.entry(sessionID).cart)
}

// Cart returns a snapshot of the session's cart lines.
func (s *SessionStore) Cart(sessionID string) []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry(sessionID).cart.Lines()
}

// Context returns the session's billing context.
func (s *SessionStore) Context(sessionID string) Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry(sessionID).bctx
}

// SetContext replaces the session's billing context.
func (s *SessionStore) SetContext(sessionID string, bctx Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(sessionID).bctx = bctx
}

// CompleteSaleReset applies the post-sale state transition: the cart is
// cleared and the entered rates drop to zero, while the making charge and
// GST percentages carry over to the next sale.
func (s *SessionStore) CompleteSaleReset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID)
	e.cart.Clear()
	e.bctx.GoldRatePer10g = 0
	e.bctx.SilverRatePer10g = 0
}

// Sweep evicts sessions idle longer than the TTL and reports how many were
// removed. Run it on a ticker from the server loop.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len reports the live session count.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
