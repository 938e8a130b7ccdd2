package portal

import "sync"

// Selection holds the entity a page's row action picked. It is owned by one
// page of one session; last Set wins. Closing a dialog does not clear it.
type Selection[T any] struct {
	mu   sync.Mutex
	cur  *T
	next int
	subs map[int]func(*T)
}

func (s *Selection[T]) Get() *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Set replaces the selection and notifies subscribers outside the lock.
func (s *Selection[T]) Set(v *T) {
	s.mu.Lock()
	s.cur = v
	subs := make([]func(*T), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn for every later Set and returns the unsubscribe func.
func (s *Selection[T]) Subscribe(fn func(*T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = map[int]func(*T){}
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
