package jsonl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guavabuy/secondbrain/internal/core/domain"
)

func newTestCorpus(t *testing.T) *CorpusStore {
	t.Helper()
	store, err := NewCorpusStore(filepath.Join(t.TempDir(), "outputs", "corpus.jsonl"))
	require.NoError(t, err)
	return store
}

func chunk(uid, text string) domain.MemoryChunk {
	return domain.MemoryChunk{UID: uid, Source: domain.SourceNotion, Text: text, Weight: 0.65}
}

func TestCorpusMissingFileIsEmpty(t *testing.T) {
	store := newTestCorpus(t)
	ctx := context.Background()

	chunks, err := store.Tail(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCorpusAppendAndTail(t *testing.T) {
	store := newTestCorpus(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, []domain.MemoryChunk{
		chunk("a", "first"), chunk("b", "second"),
	}))
	require.NoError(t, store.Append(ctx, []domain.MemoryChunk{chunk("c", "third")}))

	all, err := store.Tail(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].UID)
	assert.Equal(t, "c", all[2].UID)

	tail, err := store.Tail(ctx, 2)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, "b", tail[0].UID)
	assert.Equal(t, "c", tail[1].UID)
}

func TestCorpusRoundTripsFields(t *testing.T) {
	store := newTestCorpus(t)
	ctx := context.Background()

	depth := 0.73
	in := domain.MemoryChunk{
		UID:        "uid-1",
		Source:     domain.SourceX,
		FilePath:   "src/x/thread.json",
		CreatedAt:  "2024-05-02T08:00:00+00:00",
		IngestedAt: "2024-05-02T09:00:00Z",
		Weight:     0.42,
		Text:       "чанк with 中文 and emoji ✅",
		Meta:       map[string]any{"id": "t1"},
		DepthScore: &depth,
	}
	require.NoError(t, store.Append(ctx, []domain.MemoryChunk{in}))

	out, err := store.Tail(ctx, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in.UID, out[0].UID)
	assert.Equal(t, in.Text, out[0].Text)
	assert.Equal(t, in.CreatedAt, out[0].CreatedAt)
	require.NotNil(t, out[0].DepthScore)
	assert.InDelta(t, depth, *out[0].DepthScore, 1e-9)
}

func TestCorpusSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	content := `{"uid":"good1","source":"notion","text":"ok"}` + "\n" +
		"{broken json\n" +
		`{"uid":"good2","source":"x","text":"also ok"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store, err := NewCorpusStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	chunks, err := store.Tail(ctx, 0)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "good1", chunks[0].UID)
	assert.Equal(t, "good2", chunks[1].UID)

	// Offsets count raw lines, malformed included.
	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCorpusReadFrom(t *testing.T) {
	store := newTestCorpus(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, []domain.MemoryChunk{
		chunk("a", "one"), chunk("b", "two"), chunk("c", "three"),
	}))

	chunks, total, err := store.ReadFrom(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, chunks, 2)
	assert.Equal(t, "b", chunks[0].UID)

	past, total, err := store.ReadFrom(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, past)
}
