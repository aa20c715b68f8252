package cart

import (
	"context"
	"sync"
	"time"
)

// Snapshot is the immutable view pushed to subscribers after every mutation.
type Snapshot struct {
	SessionID  string `json:"session_id"`
	Items      []Item `json:"items"`
	TotalItems int    `json:"total_items"`
	TotalCents int64  `json:"total_cents"`
}

type entry struct {
	cart    Cart
	touched time.Time
}

// Store keeps the per-session carts for the whole gateway. It is an explicit
// dependency handed to the HTTP layer and the checkout flow, never a package
// global. Carts live only in memory; a restart empties every cart.
type Store struct {
	mu      sync.Mutex
	carts   map[string]*entry
	subs    map[string]map[int]chan Snapshot
	nextSub int
	idleTTL time.Duration
}

func NewStore(idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = 2 * time.Hour
	}
	return &Store{
		carts:   make(map[string]*entry),
		subs:    make(map[string]map[int]chan Snapshot),
		idleTTL: idleTTL,
	}
}

func (s *Store) AddItem(sessionID string, p Product) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID)
	e.cart.AddItem(p)
	return s.commit(sessionID, e)
}

func (s *Store) RemoveItem(sessionID string, productID int64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID)
	e.cart.RemoveItem(productID)
	return s.commit(sessionID, e)
}

func (s *Store) SetQuantity(sessionID string, productID int64, qty int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID)
	e.cart.SetQuantity(productID, qty)
	return s.commit(sessionID, e)
}

func (s *Store) Clear(sessionID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID)
	e.cart.Clear()
	return s.commit(sessionID, e)
}

func (s *Store) Items(sessionID string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.carts[sessionID]; ok {
		return e.cart.Items()
	}
	return nil
}

func (s *Store) TotalItems(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.carts[sessionID]; ok {
		return e.cart.TotalItems()
	}
	return 0
}

func (s *Store) Empty(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.carts[sessionID]
	return !ok || e.cart.Empty()
}

func (s *Store) Snapshot(sessionID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.carts[sessionID]; ok {
		return snapshotOf(sessionID, &e.cart)
	}
	return Snapshot{SessionID: sessionID, Items: []Item{}}
}

// Subscribe registers for snapshots of one session's cart. The returned cancel
// func must be called when the consumer goes away. Slow consumers lose updates
// rather than blocking mutations.
func (s *Store) Subscribe(sessionID string) (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 8)
	if s.subs[sessionID] == nil {
		s.subs[sessionID] = make(map[int]chan Snapshot)
	}
	s.subs[sessionID][id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if m, ok := s.subs[sessionID]; ok {
			if c, ok := m[id]; ok {
				delete(m, id)
				close(c)
			}
			if len(m) == 0 {
				delete(s.subs, sessionID)
			}
		}
	}
	return ch, cancel
}

// StartSweeper evicts carts idle past the TTL until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				s.sweep(now)
			}
		}
	}()
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.carts {
		if now.Sub(e.touched) > s.idleTTL {
			delete(s.carts, id)
		}
	}
}

// entry must be called with the lock held.
func (s *Store) entry(sessionID string) *entry {
	e, ok := s.carts[sessionID]
	if !ok {
		e = &entry{}
		s.carts[sessionID] = e
	}
	return e
}

// commit stamps the entry, fans the snapshot out and drops empty carts so the
// map does not accumulate sessions that only ever cleared. Lock must be held.
func (s *Store) commit(sessionID string, e *entry) Snapshot {
	e.touched = time.Now()
	snap := snapshotOf(sessionID, &e.cart)
	if e.cart.Empty() {
		delete(s.carts, sessionID)
	}
	for _, ch := range s.subs[sessionID] {
		select {
		case ch <- snap:
		default:
		}
	}
	return snap
}

func snapshotOf(sessionID string, c *Cart) Snapshot {
	return Snapshot{
		SessionID:  sessionID,
		Items:      c.Items(),
		TotalItems: c.TotalItems(),
		TotalCents: c.TotalCents(),
	}
}
