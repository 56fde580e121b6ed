package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
	"github.com/guavabuy/secondbrain/internal/logger"
)

var _ driven.CorpusStore = (*CorpusStore)(nil)

// maxLineBytes bounds a single corpus line. Chunks are capped well
// below this at ingest time; the margin covers metadata.
const maxLineBytes = 1 << 20

// CorpusStore is the JSONL corpus file adapter.
type CorpusStore struct {
	path string
	mu   sync.Mutex
}

// NewCorpusStore creates a corpus store at path. The file itself is
// created lazily on first append.
func NewCorpusStore(path string) (*CorpusStore, error) {
	if path == "" {
		return nil, fmt.Errorf("corpus path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating corpus directory: %w", err)
	}
	return &CorpusStore{path: path}, nil
}

// Append writes chunks as JSON lines at the end of the corpus file.
func (s *CorpusStore) Append(ctx context.Context, chunks []domain.MemoryChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening corpus for append: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, c := range chunks {
		line, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshalling chunk %s: %w", c.UID, err)
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("writing corpus line: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing corpus line: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing corpus: %w", err)
	}
	return f.Sync()
}

// Tail returns up to maxLines of the newest chunks in corpus order.
// Malformed lines are skipped.
func (s *CorpusStore) Tail(ctx context.Context, maxLines int) ([]domain.MemoryChunk, error) {
	lines, err := s.readLines(ctx)
	if err != nil {
		return nil, err
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return decodeLines(lines), nil
}

// ReadFrom returns the chunks at and past the given line offset, plus
// the total line count for cursor advancement.
func (s *CorpusStore) ReadFrom(ctx context.Context, offset int) ([]domain.MemoryChunk, int, error) {
	lines, err := s.readLines(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := len(lines)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return nil, total, nil
	}
	return decodeLines(lines[offset:]), total, nil
}

// Len reports the corpus line count, malformed lines included so
// offsets stay stable.
func (s *CorpusStore) Len(ctx context.Context) (int, error) {
	lines, err := s.readLines(ctx)
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

func (s *CorpusStore) readLines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	return lines, nil
}

func decodeLines(lines []string) []domain.MemoryChunk {
	chunks := make([]domain.MemoryChunk, 0, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		var c domain.MemoryChunk
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			logger.Debug("Skipping malformed corpus line %d: %v", i, err)
			continue
		}
		chunks = append(chunks, c)
	}
	return chunks
}
