package services

import (
	"context"
	"errors"
	"sync"

	"github.com/guavabuy/secondbrain/internal/core/domain"
)

// memCorpus is an in-memory CorpusStore for tests.
type memCorpus struct {
	mu     sync.Mutex
	chunks []domain.MemoryChunk

	appendErr error
	tailErr   error
}

func (m *memCorpus) Append(_ context.Context, chunks []domain.MemoryChunk) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *memCorpus) Tail(_ context.Context, maxLines int) ([]domain.MemoryChunk, error) {
	if m.tailErr != nil {
		return nil, m.tailErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if maxLines <= 0 || maxLines >= len(m.chunks) {
		return append([]domain.MemoryChunk(nil), m.chunks...), nil
	}
	return append([]domain.MemoryChunk(nil), m.chunks[len(m.chunks)-maxLines:]...), nil
}

func (m *memCorpus) ReadFrom(_ context.Context, offset int) ([]domain.MemoryChunk, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := len(m.chunks)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return nil, total, nil
	}
	return append([]domain.MemoryChunk(nil), m.chunks[offset:]...), total, nil
}

func (m *memCorpus) Len(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks), nil
}

// memState is an in-memory IngestStateStore.
type memState struct {
	mu    sync.Mutex
	state *domain.IngestState
	saves int
}

func (m *memState) Load(_ context.Context) (*domain.IngestState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return domain.NewIngestState(), nil
	}
	cp := domain.NewIngestState()
	for k, v := range m.state.Files {
		cp.Files[k] = v
	}
	cp.UpdatedAt = m.state.UpdatedAt
	return cp, nil
}

func (m *memState) Save(_ context.Context, state *domain.IngestState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.saves++
	return nil
}

// memCursor is an in-memory CursorStore.
type memCursor struct {
	mu     sync.Mutex
	offset int
}

func (m *memCursor) Load(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offset, nil
}

func (m *memCursor) Save(_ context.Context, offset int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset = offset
	return nil
}

// stubSearcher returns canned web results and records queries.
type stubSearcher struct {
	mu      sync.Mutex
	results []domain.WebResult
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string, k int) []domain.WebResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if k > 0 && k < len(s.results) {
		return s.results[:k]
	}
	return s.results
}

// stubLLM returns a fixed completion and records prompts.
type stubLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	systems []string
	users   []string
}

func (s *stubLLM) Complete(_ context.Context, system, user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systems = append(s.systems, system)
	s.users = append(s.users, user)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// memProfile is an in-memory ProfileStore.
type memProfile struct {
	mu   sync.Mutex
	text string
}

func (m *memProfile) Load(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *memProfile) Save(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

var errStoreDown = errors.New("store down")
