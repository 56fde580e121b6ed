package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"
)

// uidPrefixLen is how much of the chunk text participates in UID hashing.
const uidPrefixLen = 200

// MemoryChunk is the atomic unit of storage: one bounded fragment of a
// source document, weighted and content-addressed. Chunks are never
// mutated after creation; corrections are new appended records.
type MemoryChunk struct {
	// UID is the content-derived identifier used for deduplication.
	UID string `json:"uid"`

	// Source tags the producing system (notion, x, trades, unknown).
	Source Source `json:"source"`

	// FilePath is the relative path of the originating document.
	FilePath string `json:"file_path"`

	// CreatedAt is the original content's authored time (ISO-8601),
	// empty when the source did not report one.
	CreatedAt string `json:"created_at,omitempty"`

	// IngestedAt is when the pipeline produced this chunk.
	IngestedAt string `json:"ingested_at"`

	// Weight combines the source base weight and the content signal,
	// clamped to [0.1, 2.0].
	Weight float64 `json:"weight"`

	// Text is the chunk content after whitespace normalisation.
	Text string `json:"text"`

	// Meta carries extracted metadata (item id, url, reported created_at).
	Meta map[string]any `json:"meta"`

	// DepthScore is an optional structural-depth estimate in [0,1].
	// Retrieval defaults it to 0.5 when absent.
	DepthScore *float64 `json:"depth_score,omitempty"`

	// CogWeight is an optional precomputed cognitive weight.
	// Retrieval defaults it to 1.0 when absent or when weighting is off.
	CogWeight *float64 `json:"cog_weight,omitempty"`
}

// MakeUID derives the stable chunk identifier from the source, file path,
// chunk index and a bounded text prefix. Identical inputs always produce
// the same UID, which is what makes re-ingestion idempotent.
func MakeUID(source Source, filePath string, idx int, text string) string {
	h := sha1.New()
	h.Write([]byte(source))
	h.Write([]byte(filePath))
	h.Write([]byte(strconv.Itoa(idx)))
	prefix := text
	if r := []rune(prefix); len(r) > uidPrefixLen {
		prefix = string(r[:uidPrefixLen])
	}
	h.Write([]byte(prefix))
	return hex.EncodeToString(h.Sum(nil))
}

// IngestState tracks which files have been processed and with what
// content digest, so unchanged files never re-enter the pipeline.
type IngestState struct {
	// Files maps a relative file path to its SHA-256 content digest.
	Files map[string]string `json:"files"`

	// UpdatedAt is when the state was last persisted.
	UpdatedAt string `json:"updated_at,omitempty"`
}

// NewIngestState returns an empty state ready for use.
func NewIngestState() *IngestState {
	return &IngestState{Files: make(map[string]string)}
}

// Touch records the persistence timestamp.
func (s *IngestState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC().Format(time.RFC3339)
}
