package config

import "sync"

// Store is the single owner of the live configuration. Readers get copies;
// writers go through Update, which validates before committing.
type Store struct {
	mu        sync.RWMutex
	cfg       *Config
	listeners []func(old, cur Config)
}

func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Store{cfg: cfg.Clone()}, nil
}

// Get returns a snapshot of the current configuration.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg.Clone()
}

// Update applies fn to a copy and commits it only if the result validates.
// Listeners run after the commit, outside the lock.
func (s *Store) Update(fn func(*Config)) error {
	s.mu.Lock()
	old := *s.cfg.Clone()
	next := s.cfg.Clone()
	fn(next)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cfg = next
	listeners := append([]func(old, cur Config){}, s.listeners...)
	cur := *next.Clone()
	s.mu.Unlock()

	for _, l := range listeners {
		l(old, cur)
	}
	return nil
}

// OnChange registers a listener invoked after every committed update.
func (s *Store) OnChange(fn func(old, cur Config)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}
