package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
	"github.com/guavabuy/secondbrain/internal/core/ports/driving"
	"github.com/guavabuy/secondbrain/internal/logger"
	"github.com/guavabuy/secondbrain/internal/weighting"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

// Retrieval defaults.
const (
	DefaultTopK          = 6
	DefaultMaxScan       = 4000
	DefaultMinSimilarity = 0.05
)

// WeightingMode selects the ranking behaviour.
type WeightingMode string

const (
	// WeightingLegacy forces the cognitive multiplier to 1.0 no matter
	// what the corpus records carry. This is the fuse that makes old
	// ranking behaviour exactly reproducible.
	WeightingLegacy WeightingMode = "legacy"

	// WeightingDepth lets the depth-derived multiplier take effect,
	// provided a nonzero alpha is configured.
	WeightingDepth WeightingMode = "depth"
)

// ParseWeightingMode maps a config string to a mode, defaulting to
// legacy for anything unrecognised.
func ParseWeightingMode(s string) WeightingMode {
	if strings.EqualFold(strings.TrimSpace(s), string(WeightingDepth)) {
		return WeightingDepth
	}
	return WeightingLegacy
}

// WeightingConfig carries the ranking feature flags and parameters.
type WeightingConfig struct {
	Mode         WeightingMode
	DepthAlpha   float64
	DecayEnabled bool
	Decay        weighting.Decay
}

// CogEnabled reports whether the cognitive multiplier participates in
// ranking: only in depth mode with a nonzero alpha.
func (c WeightingConfig) CogEnabled() bool {
	return c.Mode == WeightingDepth && math.Abs(c.DepthAlpha) > 1e-12
}

// RetrievalService ranks corpus chunks against queries using lexical
// overlap plus the configured weighting multipliers.
type RetrievalService struct {
	corpus driven.CorpusStore
	cfg    WeightingConfig
}

// NewRetrievalService creates a retrieval service over the corpus store.
func NewRetrievalService(corpus driven.CorpusStore, cfg WeightingConfig) *RetrievalService {
	if cfg.Mode == "" {
		cfg.Mode = WeightingLegacy
	}
	if cfg.Decay == (weighting.Decay{}) {
		cfg.Decay = weighting.DefaultDecay()
	}
	return &RetrievalService{corpus: corpus, cfg: cfg}
}

// Retrieve scans the corpus tail, scores candidates and returns the
// reranked, deduplicated top-K. Empty queries yield empty results, not
// errors.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, opts driving.RetrieveOptions,
) ([]domain.RetrievalHit, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	maxScan := opts.MaxScan
	if maxScan <= 0 {
		maxScan = DefaultMaxScan
	}
	minSim := opts.MinSimilarity
	if minSim <= 0 {
		minSim = DefaultMinSimilarity
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	cogEnabled := s.cfg.CogEnabled()

	logger.Section("Retrieval")
	logger.Debug("Query: %q, topK=%d, maxScan=%d, minSim=%.3f, mode=%s, alpha=%.3f, decay=%t",
		q, topK, maxScan, minSim, s.cfg.Mode, s.cfg.DepthAlpha, s.cfg.DecayEnabled)

	chunks, err := s.corpus.Tail(ctx, maxScan)
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}

	var hits []domain.RetrievalHit
	for _, c := range chunks {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}

		sim := BaseSimilarity(q, text)
		if sim < minSim {
			continue
		}

		hit := domain.RetrievalHit{
			UID:            c.UID,
			Text:           text,
			Source:         c.Source,
			FilePath:       c.FilePath,
			CreatedAt:      c.CreatedAt,
			Meta:           c.Meta,
			BaseSimilarity: sim,
			DepthScore:     0.5,
			CogWeight:      1.0,
			TimeWeight:     1.0,
			FinalScore:     sim,
		}

		// Missing depth defaults to neutral; ingest is not forced to
		// backfill historical records.
		if c.DepthScore != nil {
			hit.DepthScore = *c.DepthScore
		}

		if t, ok := weighting.ParseTimestamp(c.CreatedAt); ok {
			age := now.Sub(t).Hours() / 24
			if age < 0 {
				age = 0
			}
			hit.AgeDays = &age

			// Decay applies only when enabled and the chunk carries an
			// explicit timestamp; unknown-age content is never decayed.
			if s.cfg.DecayEnabled {
				hit.TimeWeight = weighting.ScoreTime(&t, now, s.cfg.Decay)
			}
		}

		// The stored cog_weight is consulted only when the feature is
		// on; legacy mode ignores nonstandard historical fields.
		if cogEnabled {
			if c.CogWeight != nil {
				hit.CogWeight = *c.CogWeight
			} else {
				hit.CogWeight = weighting.CogWeight(hit.DepthScore, s.cfg.DepthAlpha)
			}
		}

		hits = append(hits, hit)
	}

	before := len(hits)
	hits = dedupHits(hits)
	logger.Debug("Candidates: %d, after dedup: %d", before, len(hits))

	rerank(hits, cogEnabled, s.cfg.DecayEnabled)

	if len(hits) > topK {
		hits = hits[:topK]
	}

	for i, h := range hits {
		logger.Debug("#%d final=%.4f sim=%.3f cog=%.3f time=%.3f src=%s uid=%s",
			i+1, h.FinalScore, h.BaseSimilarity, h.CogWeight, h.TimeWeight, h.Source, h.UID)
	}

	return hits, nil
}

// dedupHits merges duplicate records, keeping the higher base
// similarity and, on ties, the first-seen entry. Output order is the
// first-seen order of each key.
func dedupHits(hits []domain.RetrievalHit) []domain.RetrievalHit {
	best := make(map[string]int, len(hits))
	var kept []domain.RetrievalHit

	for _, h := range hits {
		key := h.DedupKey()
		idx, seen := best[key]
		if !seen {
			best[key] = len(kept)
			kept = append(kept, h)
			continue
		}
		if h.BaseSimilarity > kept[idx].BaseSimilarity {
			kept[idx] = h
		}
	}
	return kept
}

// rerank composes the final score and sorts descending. The sort is
// stable, so ties keep their scan order.
func rerank(hits []domain.RetrievalHit, cogEnabled, decayEnabled bool) {
	for i := range hits {
		mult := 1.0
		if cogEnabled {
			mult *= hits[i].CogWeight
		}
		if decayEnabled {
			mult *= hits[i].TimeWeight
		}
		hits[i].FinalScore = hits[i].BaseSimilarity * mult
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].FinalScore > hits[j].FinalScore
	})
}

var (
	asciiToken = regexp.MustCompile(`[a-z0-9]{2,}`)
	cjkRun     = regexp.MustCompile(`[\p{Han}]+`)
)

// Tokenize produces the lexical token set basis: lowercase ASCII
// word-ish runs of length >= 2, and overlapping bigrams for CJK runs
// (isolated single CJK characters are kept as-is).
func Tokenize(text string) []string {
	t := strings.ToLower(text)
	out := asciiToken.FindAllString(t, -1)

	for _, run := range cjkRun.FindAllString(t, -1) {
		runes := []rune(run)
		if len(runes) == 1 {
			out = append(out, run)
			continue
		}
		for i := 0; i < len(runes)-1; i++ {
			out = append(out, string(runes[i:i+2]))
		}
	}
	return out
}

// BaseSimilarity approximates cosine similarity over binary token sets:
// |Q ∩ D| / sqrt(|Q| * |D|), clamped to [0,1]. This lexical metric is
// what the routing thresholds were tuned against; it is intentionally
// not a semantic model.
func BaseSimilarity(query, text string) float64 {
	q := tokenSet(Tokenize(query))
	d := tokenSet(Tokenize(text))
	if len(q) == 0 || len(d) == 0 {
		return 0
	}

	inter := 0
	for tok := range q {
		if _, ok := d[tok]; ok {
			inter++
		}
	}
	if inter == 0 {
		return 0
	}
	return math.Min(1.0, float64(inter)/math.Sqrt(float64(len(q))*float64(len(d))))
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
