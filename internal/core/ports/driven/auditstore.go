package driven

import (
	"context"
	"time"

	"github.com/guavabuy/secondbrain/internal/core/domain"
)

// AuditRecord is one logged friend-mode exchange with its routing
// metadata, kept for later inspection of what evidence informed a reply.
type AuditRecord struct {
	// ID is a generated record identifier.
	ID string

	// SessionID identifies the conversation the exchange belongs to.
	SessionID string

	// Query is the user's message as received.
	Query string

	// Reply is the composed response text.
	Reply string

	// Meta is the per-segment routing metadata.
	Meta domain.ReplyMeta

	// At is when the exchange happened.
	At time.Time
}

// AuditStore persists friend-mode exchanges for audit.
type AuditStore interface {
	// Log appends one exchange record.
	Log(ctx context.Context, rec AuditRecord) error

	// Recent returns up to limit records for a session, newest first.
	Recent(ctx context.Context, sessionID string, limit int) ([]AuditRecord, error)

	// Close releases resources.
	Close() error
}
