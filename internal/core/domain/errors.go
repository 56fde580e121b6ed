package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorpusUnavailable indicates the chunk store cannot be read at
	// the I/O layer. Unlike malformed records, this is fatal to the run.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring it (self persona, profile updates) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrIngestInProgress indicates an ingestion run is already active.
	ErrIngestInProgress = errors.New("ingest in progress")
)
