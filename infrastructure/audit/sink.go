// Package audit provides the append-only sink state-changing verbs write
// to and the logs() verb reads from.
package audit

import (
	"sync"

	"github.com/chatkit-dev/sam/domain/entities"
	"github.com/chatkit-dev/sam/domain/ports"
)

// sinkConfig holds resolved sink options.
type sinkConfig struct {
	capacity int
}

func defaultSinkConfig() sinkConfig {
	return sinkConfig{capacity: 4096}
}

// Option configures a Sink.
type Option func(*sinkConfig)

// WithCapacity bounds how many entries are retained. Oldest entries are
// dropped first.
func WithCapacity(capacity int) Option {
	return func(c *sinkConfig) {
		c.capacity = capacity
	}
}

// Sink is a bounded in-memory audit log. Entries are append-only and
// never edited; when the bound is reached the oldest entries fall off.
type Sink struct {
	config  sinkConfig
	mu      sync.RWMutex
	entries []ports.AuditEntry
}

// New creates a Sink.
func New(opts ...Option) *Sink {
	cfg := defaultSinkConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Sink{config: cfg}
}

var _ ports.AuditSink = (*Sink)(nil)

// Record appends an entry, evicting the oldest past capacity.
func (s *Sink) Record(entry ports.AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	if excess := len(s.entries) - s.config.capacity; excess > 0 {
		s.entries = s.entries[excess:]
	}
}

// Recent returns up to limit entries for (account, kind, name), newest
// first. A zero name matches every resource of the kind.
func (s *Sink) Recent(account string, kind entities.Kind, name string, limit int) []ports.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ports.AuditEntry
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := s.entries[i]
		if e.Account != account || e.Kind != string(kind) {
			continue
		}
		if name != "" && e.Name != name {
			continue
		}
		out = append(out, e)
	}
	return out
}
