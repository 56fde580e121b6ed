package weighting

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/guavabuy/secondbrain/internal/core/domain"
)

// Weight bounds for stored chunks.
const (
	MinWeight = 0.1
	MaxWeight = 2.0
)

// sourceBaseWeight reflects how much signal each source historically
// carries: curated notes and trade journals over raw social posts.
var sourceBaseWeight = map[domain.Source]float64{
	domain.SourceNotion:  0.65,
	domain.SourceX:       0.35,
	domain.SourceTrades:  0.80,
	domain.SourceUnknown: 0.40,
}

// keywordsBoost rewards structured/reasoning language in either
// language. Versioned data, not code: changing it re-weights corpora.
var keywordsBoost = []string{
	"原则", "框架", "复盘", "策略", "逻辑", "假设", "如果", "因此", "结论",
	"i think", "my rule", "thesis", "framework", "if", "therefore", "because",
}

// SourceBaseWeight returns the base weight for a source tag, defaulting
// to the unknown-source weight.
func SourceBaseWeight(s domain.Source) float64 {
	if w, ok := sourceBaseWeight[s]; ok {
		return w
	}
	return sourceBaseWeight[domain.SourceUnknown]
}

// ContentSignal scores how substantive a chunk's text looks. Very short
// texts and bare URLs are penalised; moderate-to-long text and reasoning
// keywords are rewarded with diminishing returns.
func ContentSignal(text string) float64 {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0.1
	}

	n := utf8.RuneCountInString(t)
	if n < 40 {
		return 0.25
	}
	if strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://") {
		return 0.2
	}

	score := 1.0

	// Length reward saturates around 2000 characters.
	score *= math.Min(1.4, 0.8+float64(n)/2000)

	lower := strings.ToLower(t)
	hits := 0
	for _, k := range keywordsBoost {
		if strings.Contains(lower, k) {
			hits++
		}
	}
	score *= math.Min(1.6, 1.0+float64(hits)*0.08)

	return clamp(score, MinWeight, MaxWeight)
}

// ComputeWeight combines the source base weight with the content signal,
// clamped into [MinWeight, MaxWeight] and rounded to four decimals so
// stored records stay tidy.
func ComputeWeight(source domain.Source, text string) float64 {
	w := clamp(SourceBaseWeight(source)*ContentSignal(text), MinWeight, MaxWeight)
	return math.Round(w*10000) / 10000
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
