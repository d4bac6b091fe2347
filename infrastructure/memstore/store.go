// Package memstore provides an in-memory ResourceStore. It is the default
// for tests and single-process embedding; the sqlstore package provides
// the durable equivalent.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chatkit-dev/sam/domain/entities"
	"github.com/chatkit-dev/sam/domain/ports"
)

// Store is a mutex-guarded map store. Each method holds the lock for its
// full duration, so every call is atomic; a cascading delete either
// removes everything or (on no-op) nothing.
type Store struct {
	mu      sync.RWMutex
	records map[string]*entities.ResourceRecord
}

// New creates an empty store.
func New() *Store {
	return &Store{records: make(map[string]*entities.ResourceRecord)}
}

var _ ports.ResourceStore = (*Store)(nil)

func key(account string, kind entities.Kind, name string) string {
	return account + "\x00" + string(kind) + "\x00" + name
}

// Get returns the record for (account, kind, name), or (nil, nil).
func (s *Store) Get(_ context.Context, account string, kind entities.Kind, name string) (*entities.ResourceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key(account, kind, name)]
	if !ok {
		return nil, nil
	}
	return record.Clone(), nil
}

// GetAnyAccount returns the record for (kind, name) regardless of owner.
func (s *Store) GetAnyAccount(_ context.Context, kind entities.Kind, name string) (*entities.ResourceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.records {
		if record.Kind == kind && record.Name == name {
			return record.Clone(), nil
		}
	}
	return nil, nil
}

// Upsert creates or replaces the record keyed by (Account, Kind, Name).
// On update the prior ID, CreatedAt and Deployed flag survive; only the
// manifest and UpdatedAt change.
func (s *Store) Upsert(_ context.Context, record *entities.ResourceRecord) (*entities.ResourceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := record.Clone()
	k := key(record.Account, record.Kind, record.Name)
	if prior, ok := s.records[k]; ok {
		stored.ID = prior.ID
		stored.CreatedAt = prior.CreatedAt
		stored.Deployed = prior.Deployed
		stored.UpdatedAt = time.Now().UTC()
	}
	s.records[k] = stored
	return stored.Clone(), nil
}

// Delete removes the record and its dependents atomically.
func (s *Store) Delete(_ context.Context, account string, kind entities.Kind, name string, dependents []entities.ResourceKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	primary := key(account, kind, name)
	if _, ok := s.records[primary]; !ok {
		return 0, nil
	}
	delete(s.records, primary)
	removed++

	for _, dep := range dependents {
		k := key(account, dep.Kind, dep.Name)
		if _, ok := s.records[k]; ok {
			delete(s.records, k)
			removed++
		}
	}
	return removed, nil
}

// List returns account's records of the given kind, sorted by name.
func (s *Store) List(_ context.Context, account string, kind entities.Kind) ([]*entities.ResourceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.ResourceRecord
	for _, record := range s.records {
		if record.Account == account && record.Kind == kind {
			out = append(out, record.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindByKind returns every record of the given kind across all accounts,
// sorted by name.
func (s *Store) FindByKind(_ context.Context, kind entities.Kind) ([]*entities.ResourceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.ResourceRecord
	for _, record := range s.records {
		if record.Kind == kind {
			out = append(out, record.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SetDeployed flips the deployment flag on an existing record.
func (s *Store) SetDeployed(_ context.Context, account string, kind entities.Kind, name string, deployed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key(account, kind, name)]
	if !ok {
		return nil
	}
	record.Deployed = deployed
	record.UpdatedAt = time.Now().UTC()
	return nil
}
