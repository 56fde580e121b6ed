package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRetrievalPackDerivesFields(t *testing.T) {
	pack := NewRetrievalPack([]RetrievalHit{
		{Text: "first", BaseSimilarity: 0.3},
		{Text: "   "},
		{Text: "second", BaseSimilarity: 0.7},
	})

	assert.Equal(t, 2, pack.HitCount)
	assert.InDelta(t, 0.7, pack.TopScore, 1e-9)
	assert.Equal(t, []string{"first", "second"}, pack.Contexts())
}

func TestPackFromInputArms(t *testing.T) {
	t.Run("hits arm", func(t *testing.T) {
		pack := PackFromInput(PackInput{
			Hits: []RetrievalHit{{Text: "a", BaseSimilarity: 0.5}},
		})
		assert.Equal(t, 1, pack.HitCount)
		assert.InDelta(t, 0.5, pack.TopScore, 1e-9)
	})

	t.Run("pairs arm", func(t *testing.T) {
		pack := PackFromInput(PackInput{
			Pairs: []ScoredText{
				{ID: "p1", Text: "scored", Score: 0.8, Scored: true},
				{Text: "unscored"},
			},
		})
		assert.Equal(t, 2, pack.HitCount)
		assert.InDelta(t, 0.8, pack.TopScore, 1e-9)
	})

	t.Run("contexts arm", func(t *testing.T) {
		pack := PackFromInput(PackInput{Contexts: []string{"only text"}})
		assert.Equal(t, 1, pack.HitCount)
		assert.Zero(t, pack.TopScore)
	})

	t.Run("empty input yields empty pack", func(t *testing.T) {
		pack := PackFromInput(PackInput{})
		assert.Zero(t, pack.HitCount)
		assert.Zero(t, pack.TopScore)
		assert.Empty(t, pack.Hits)
	})
}

func TestDedupKey(t *testing.T) {
	withUID := RetrievalHit{UID: "abc", Text: "whatever"}
	assert.Equal(t, "uid:abc", withUID.DedupKey())

	long := strings.Repeat("y", 300)
	noUID := RetrievalHit{Source: SourceX, FilePath: "f.json", CreatedAt: "2025-01-01", Text: long}
	key := noUID.DedupKey()
	assert.Contains(t, key, "fp:x|f.json|2025-01-01|")
	assert.Contains(t, key, long[:120])
	assert.NotContains(t, key, long[:121])
}

func TestDedupKeyTruncatesByRunesNotBytes(t *testing.T) {
	// Shared 60-character head, divergence at character 61. Both texts
	// are far past 120 bytes by then, so a byte cut would merge them.
	head := strings.Repeat("仓", 60)
	a := RetrievalHit{Source: SourceNotion, FilePath: "f.md", Text: head + "位" + strings.Repeat("甲", 100)}
	b := RetrievalHit{Source: SourceNotion, FilePath: "f.md", Text: head + "管" + strings.Repeat("乙", 100)}

	assert.NotEqual(t, a.DedupKey(), b.DedupKey())

	// Past character 120 the tail no longer participates.
	long := strings.Repeat("深", 120)
	c := RetrievalHit{Source: SourceNotion, FilePath: "f.md", Text: long + "尾巴一"}
	d := RetrievalHit{Source: SourceNotion, FilePath: "f.md", Text: long + "另一条尾巴"}

	assert.Equal(t, c.DedupKey(), d.DedupKey())
}

func TestChunkID(t *testing.T) {
	withUID := RetrievalHit{UID: "u-1"}
	assert.Equal(t, "u-1", withUID.ChunkID(0))

	anon := RetrievalHit{Text: "anonymous"}
	id := anon.ChunkID(3)
	assert.True(t, strings.HasPrefix(id, "h3:"))
	assert.Len(t, id, len("h3:")+12)

	// Same text, same hash regardless of index prefix.
	again := RetrievalHit{Text: "anonymous"}
	assert.Equal(t, id[3:], again.ChunkID(7)[3:])
}
