package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
	"github.com/guavabuy/secondbrain/internal/weighting"
)

// Digest defaults.
const (
	DefaultDigestDays     = 30
	DefaultDigestMaxItems = 18
	digestTextLimit       = 260
)

// notionFileTime matches the timestamp Notion embeds in exported file
// names, with underscores in place of colons.
var notionFileTime = regexp.MustCompile(`/notion/([0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}_[0-9]{2}_[0-9]{2}[^_/]*)_`)

// DigestService renders a compact recent-activity digest from the
// corpus, used as grounding context for persona prompts.
type DigestService struct {
	corpus   driven.CorpusStore
	days     int
	maxItems int
}

// NewDigestService creates a digest service with default bounds.
func NewDigestService(corpus driven.CorpusStore) *DigestService {
	return &DigestService{
		corpus:   corpus,
		days:     DefaultDigestDays,
		maxItems: DefaultDigestMaxItems,
	}
}

type digestItem struct {
	at     time.Time
	source domain.Source
	weight float64
	text   string
}

// Recent returns the digest text for the last configured window, or an
// empty string when nothing recent exists.
func (s *DigestService) Recent(ctx context.Context, now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	cutoff := now.AddDate(0, 0, -s.days)

	chunks, err := s.corpus.Tail(ctx, 0)
	if err != nil {
		return "", fmt.Errorf("read corpus: %w", err)
	}

	var items []digestItem
	for _, c := range chunks {
		text := collapseLine(c.Text)
		if text == "" {
			continue
		}

		at, ok := weighting.ParseTimestamp(c.CreatedAt)
		if !ok && c.Source == domain.SourceNotion {
			at, ok = inferNotionFileTime(c.FilePath)
		}
		if !ok || at.Before(cutoff) {
			continue
		}

		if len([]rune(text)) > digestTextLimit {
			text = string([]rune(text)[:digestTextLimit])
		}
		items = append(items, digestItem{at: at, source: c.Source, weight: c.Weight, text: text})
	}

	if len(items) == 0 {
		return "", nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].at.Equal(items[j].at) {
			return items[i].at.After(items[j].at)
		}
		return items[i].weight > items[j].weight
	})
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "【最近%d天 Notion/X 摘要（从语料库自动抽取）】\n", s.days)
	for _, it := range items {
		fmt.Fprintf(&b, "- %s | %s | w=%.3f | %s\n",
			it.at.Format("2006-01-02"), it.source, it.weight, it.text)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// inferNotionFileTime recovers a timestamp from Notion export file
// names when the chunk itself carries none.
func inferNotionFileTime(path string) (time.Time, bool) {
	m := notionFileTime.FindStringSubmatch("/" + strings.TrimPrefix(path, "/"))
	if m == nil {
		return time.Time{}, false
	}
	raw := strings.ReplaceAll(m[1], "_", ":")
	if !strings.ContainsAny(raw, "+Z") {
		raw += "+00:00"
	}
	return weighting.ParseTimestamp(raw)
}

// collapseLine flattens a chunk onto one digest line.
func collapseLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
