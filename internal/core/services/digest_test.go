package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guavabuy/secondbrain/internal/core/domain"
)

func TestDigestEmptyCorpus(t *testing.T) {
	svc := NewDigestService(&memCorpus{})
	out, err := svc.Recent(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDigestFiltersAndSorts(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	corpus := seedCorpus(
		domain.MemoryChunk{Source: domain.SourceNotion, CreatedAt: "2024-06-14T10:00:00+00:00", Weight: 0.9, Text: "newest note"},
		domain.MemoryChunk{Source: domain.SourceX, CreatedAt: "2024-06-10T10:00:00+00:00", Weight: 0.4, Text: "older post"},
		domain.MemoryChunk{Source: domain.SourceNotion, CreatedAt: "2024-01-01T10:00:00+00:00", Weight: 0.9, Text: "ancient note"},
		domain.MemoryChunk{Source: domain.SourceTrades, Weight: 0.8, Text: "undated trade"},
	)
	svc := NewDigestService(corpus)

	out, err := svc.Recent(context.Background(), now)
	require.NoError(t, err)

	assert.Contains(t, out, "【最近30天 Notion/X 摘要（从语料库自动抽取）】")
	assert.Contains(t, out, "newest note")
	assert.Contains(t, out, "older post")
	assert.NotContains(t, out, "ancient note")
	assert.NotContains(t, out, "undated trade")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "- 2024-06-14 | notion | w=0.900 | "))
	assert.True(t, strings.HasPrefix(lines[2], "- 2024-06-10 | x | w=0.400 | "))
}

func TestDigestInfersNotionFilenameDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	corpus := seedCorpus(
		domain.MemoryChunk{
			Source:   domain.SourceNotion,
			FilePath: "corpus_src/notion/2024-06-12T09_30_00_weekly review.md",
			Weight:   0.65,
			Text:     "weekly review body",
		},
	)
	svc := NewDigestService(corpus)

	out, err := svc.Recent(context.Background(), now)
	require.NoError(t, err)
	assert.Contains(t, out, "2024-06-12")
	assert.Contains(t, out, "weekly review body")
}

func TestDigestCapsItemsAndLineLength(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	long := strings.Repeat("深", 400)
	var chunks []domain.MemoryChunk
	for i := 0; i < 25; i++ {
		chunks = append(chunks, domain.MemoryChunk{
			Source:    domain.SourceNotion,
			CreatedAt: "2024-06-14T10:00:00+00:00",
			Weight:    0.5,
			Text:      long,
		})
	}
	svc := NewDigestService(seedCorpus(chunks...))

	out, err := svc.Recent(context.Background(), now)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 1+DefaultDigestMaxItems)
	for _, line := range lines[1:] {
		body := line[strings.LastIndex(line, "| ")+2:]
		assert.LessOrEqual(t, len([]rune(body)), 260)
	}
}
