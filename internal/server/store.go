package server

import (
	"os"
	"sync"
)

// exportStore maps download ids to exported files.
type exportStore struct {
	mu    sync.Mutex
	paths map[string]string
}

func newExportStore() *exportStore {
	return &exportStore{paths: make(map[string]string)}
}

func (s *exportStore) set(id, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths[id] = path
}

func (s *exportStore) get(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, ok := s.paths[id]
	return path, ok
}

func (s *exportStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.paths, id)
}

// prune forgets ids whose file no longer exists and returns how many.
func (s *exportStore) prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, path := range s.paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			delete(s.paths, id)
			n++
		}
	}
	return n
}

func (s *exportStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}
