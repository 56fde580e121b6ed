package driven

import (
	"context"

	"github.com/guavabuy/secondbrain/internal/core/domain"
)

// CorpusStore is the append-only chunk store. The corpus is the single
// source of truth for ingested content; readers never mutate it and
// appenders never overwrite.
type CorpusStore interface {
	// Append adds chunks to the end of the corpus. Appends from one
	// call are written contiguously; concurrent appenders serialise.
	Append(ctx context.Context, chunks []domain.MemoryChunk) error

	// Tail returns up to maxLines of the newest chunks in corpus
	// order (oldest of the tail first). maxLines <= 0 means the whole
	// corpus. Malformed records are skipped, not fatal.
	Tail(ctx context.Context, maxLines int) ([]domain.MemoryChunk, error)

	// ReadFrom returns chunks starting at the given line offset along
	// with the line count now present, for cursor-based consumers.
	ReadFrom(ctx context.Context, offset int) ([]domain.MemoryChunk, int, error)

	// Len reports the number of corpus lines (including malformed ones,
	// which keeps offsets stable).
	Len(ctx context.Context) (int, error)
}

// IngestStateStore persists the file-digest map between ingestion runs.
// Saves are atomic: a concurrent reader never observes a partial write.
type IngestStateStore interface {
	// Load returns the persisted state, or a fresh empty state when
	// none exists yet.
	Load(ctx context.Context) (*domain.IngestState, error)

	// Save atomically replaces the persisted state.
	Save(ctx context.Context, state *domain.IngestState) error
}

// CursorStore persists a line offset into the corpus for incremental
// consumers such as the profile updater.
type CursorStore interface {
	// Load returns the last processed line offset, zero when unset.
	Load(ctx context.Context) (int, error)

	// Save atomically records the new offset.
	Save(ctx context.Context, offset int) error
}
