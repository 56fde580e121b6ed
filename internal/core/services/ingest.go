package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/guavabuy/secondbrain/internal/chunker"
	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
	"github.com/guavabuy/secondbrain/internal/core/ports/driving"
	"github.com/guavabuy/secondbrain/internal/extract"
	"github.com/guavabuy/secondbrain/internal/logger"
	"github.com/guavabuy/secondbrain/internal/weighting"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService walks the source-document tree and appends new chunks
// to the corpus. Runs are serialised: state reads and writes within one
// run are atomic with respect to other runs in this process.
type IngestService struct {
	root    string
	corpus  driven.CorpusStore
	state   driven.IngestStateStore
	chunker *chunker.Chunker

	mu      sync.Mutex
	running bool
}

// NewIngestService creates an ingest service rooted at the given
// source-document directory.
func NewIngestService(
	root string,
	corpus driven.CorpusStore,
	state driven.IngestStateStore,
	ck *chunker.Chunker,
) *IngestService {
	if ck == nil {
		ck = chunker.New()
	}
	return &IngestService{
		root:    root,
		corpus:  corpus,
		state:   state,
		chunker: ck,
	}
}

// Ingest runs one ingestion pass. Unchanged files never re-enter the
// pipeline unless full is true. A parse failure on one file does not
// abort the run; the file is marked processed and the rest continue.
func (s *IngestService) Ingest(ctx context.Context, full bool) (driving.IngestResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return driving.IngestResult{}, domain.ErrIngestInProgress
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	logger.Section("Ingest")
	logger.Debug("Root: %s, full=%t", s.root, full)

	state, err := s.state.Load(ctx)
	if err != nil {
		return driving.IngestResult{}, fmt.Errorf("load ingest state: %w", err)
	}
	if state.Files == nil {
		state.Files = make(map[string]string)
	}

	var result driving.IngestResult
	var newChunks []domain.MemoryChunk
	now := time.Now().UTC()

	if _, err := os.Stat(s.root); os.IsNotExist(err) {
		logger.Warn("Source root %s does not exist, nothing to ingest", s.root)
		return result, nil
	}

	walkErr := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := s.relPath(path)

		digest, err := hashFile(path)
		if err != nil {
			return fmt.Errorf("hash %s: %w", rel, err)
		}

		if !full && state.Files[rel] == digest {
			result.FilesSkipped++
			return nil
		}

		source := domain.GuessSource(rel)

		items, err := extract.Items(path)
		if err != nil {
			// One bad file must not abort the run. Marking it
			// processed also prevents a repeated failure loop.
			logger.Warn("Extract %s failed: %v", rel, err)
			result.FilesFailed++
			state.Files[rel] = digest
			return nil
		}

		for _, item := range items {
			for i, text := range s.chunker.Split(item.Text) {
				depth := weighting.ScoreDepth(text, item.Meta)
				newChunks = append(newChunks, domain.MemoryChunk{
					UID:        domain.MakeUID(source, rel, i, text),
					Source:     source,
					FilePath:   rel,
					CreatedAt:  metaCreatedAt(item.Meta),
					IngestedAt: now.Format(time.RFC3339),
					Weight:     weighting.ComputeWeight(source, text),
					Text:       text,
					Meta:       item.Meta,
					DepthScore: &depth,
				})
			}
		}

		// Empty files and documents still count as processed.
		state.Files[rel] = digest
		result.FilesProcessed++
		return nil
	})
	if walkErr != nil {
		return result, fmt.Errorf("walk %s: %w", s.root, walkErr)
	}

	if len(newChunks) > 0 {
		if err := s.corpus.Append(ctx, newChunks); err != nil {
			return result, fmt.Errorf("append corpus: %w", err)
		}
	}
	result.AddedChunks = len(newChunks)

	state.Touch(now)
	if err := s.state.Save(ctx, state); err != nil {
		return result, fmt.Errorf("save ingest state: %w", err)
	}

	logger.Info("Ingest complete: %d chunks added, %d files processed, %d skipped, %d failed",
		result.AddedChunks, result.FilesProcessed, result.FilesSkipped, result.FilesFailed)
	return result, nil
}

// relPath normalises a walked path to the provenance form stored on
// chunks: the root's base name plus the path inside it, with forward
// slashes. Source inference relies on this shape.
func (s *IngestService) relPath(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(filepath.Join(filepath.Base(s.root), rel))
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func metaCreatedAt(meta map[string]any) string {
	if meta == nil {
		return ""
	}
	if s, ok := meta["created_at"].(string); ok {
		return s
	}
	return ""
}
