// Package session holds per-login state on the server: who is signed in,
// with which role, and what is in their cart.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront/models"
)

var ErrNotFound = errors.New("session not found or expired")

// Session is the request-scoped view handed to controllers. Cart is a copy;
// changes go through Store.UpdateCart.
type Session struct {
	ID        string
	Identity  models.Identity
	Cart      models.Cart
	ExpiresAt time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) TTL() time.Duration { return s.ttl }

func (s *Store) copyOf(sess *Session) *Session {
	out := *sess
	out.Cart = sess.Cart.Clone()
	return &out
}

// Create starts a session with an empty cart.
func (s *Store) Create(id models.Identity) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:        uuid.NewString(),
		Identity:  id,
		Cart:      models.Cart{},
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.sessions[sess.ID] = sess
	return s.copyOf(sess)
}

// Get returns a copy of a live session. Sessions live for a fixed TTL from
// login, matching the token lifetime.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	return s.copyOf(sess), nil
}

// UpdateCart applies fn to the session's cart. When fn fails the cart is
// left as it was.
func (s *Store) UpdateCart(id string, fn func(models.Cart) error) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cart := sess.Cart.Clone()
	if err := fn(cart); err != nil {
		return nil, err
	}
	sess.Cart = cart
	return cart.Clone(), nil
}

// TakeCart empties the cart and returns what it held. Checkout works on the
// taken lines, so a second checkout of the same cart finds it empty.
func (s *Store) TakeCart(id string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cart := sess.Cart
	sess.Cart = models.Cart{}
	return cart, nil
}

// RestoreCart merges lines taken by TakeCart back into the cart, keeping
// anything added in the meantime.
func (s *Store) RestoreCart(id string, lines models.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	for _, line := range lines.Lines() {
		sess.Cart.Add(line.ProductID, line.Name, line.Price, line.Quantity)
	}
}

// ClearCart empties the cart.
func (s *Store) ClearCart(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.Cart = models.Cart{}
	}
}

// SetIdentity refreshes the identity, e.g. after a profile change.
func (s *Store) SetIdentity(id string, identity models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.Identity = identity
	}
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

// Sweep drops expired sessions and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
