package ports

import (
	"time"

	"github.com/chatkit-dev/sam/domain/entities"
)

// AuditEntry is one append-only operational record. The logs() verb reads
// these back, most recent first.
type AuditEntry struct {
	Time    time.Time `json:"time"`
	Account string    `json:"account"`
	Kind    string    `json:"kind"`
	Name    string    `json:"name"`
	Verb    string    `json:"verb"`
	Message string    `json:"message"`
}

// AuditSink receives an entry on every state-changing verb and serves
// read-back for logs().
type AuditSink interface {
	// Record appends an entry. Append-only; entries are never edited.
	Record(entry AuditEntry)

	// Recent returns up to limit entries for (account, kind, name),
	// newest first. A zero name matches every resource of the kind.
	Recent(account string, kind entities.Kind, name string, limit int) []AuditEntry
}
