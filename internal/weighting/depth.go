package weighting

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Depth score component weights. Length and logic density dominate;
// thread structure is a bonus.
const (
	depthLenWeight    = 0.45
	depthLogicWeight  = 0.40
	depthThreadWeight = 0.15

	// lenSaturation is the character count past which extra length
	// stops adding depth.
	lenSaturation = 2000.0

	// logicReferenceSpan normalises logic-keyword density: one keyword
	// per this many characters scores 1.0 before clamping.
	logicReferenceSpan = 250.0
)

// Logic-connective phrase tables, bilingual. Versioned data, not code.
var logicPhrasesZH = []string{
	"因为", "所以", "因此", "结论", "假设", "推导", "综上", "由此", "前提",
	"推论", "归纳", "演绎", "证明", "反例", "机制", "原因", "结果", "目的",
	"例如", "比如",
}

var logicPhrasesEN = []string{
	"because", "therefore", "thus", "hence", "conclusion", "assume",
	"suppose", "derive", "proof", "premise", "infer", "in summary",
}

var (
	// fractionMarker matches X-thread style "1/8" progress markers.
	fractionMarker = regexp.MustCompile(`\b\d+\s*/\s*\d+\b`)

	// enumMarker matches numbered-list lines ("1. ", "2) ", "3、 ").
	enumMarker = regexp.MustCompile(`(?m)^\s*\d+\s*[.)、]\s+`)
)

// ScoreDepth estimates how substantive a piece of text is, in [0,1].
// It is a cheap structural heuristic (length, logic-connective density,
// thread markers), deliberately not a semantic model.
func ScoreDepth(text string, meta map[string]any) float64 {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0.0
	}

	n := utf8.RuneCountInString(t)

	lenScore := clamp(math.Log1p(float64(n))/math.Log1p(lenSaturation), 0, 1)

	lower := strings.ToLower(t)
	hits := 0
	for _, k := range logicPhrasesZH {
		hits += strings.Count(t, k)
	}
	for _, k := range logicPhrasesEN {
		hits += strings.Count(lower, k)
	}

	denom := math.Max(50.0, float64(n))
	density := float64(hits) * logicReferenceSpan / denom
	logicScore := clamp(density/2.0, 0, 1)

	threadScore := threadScoreFromMeta(meta)
	if threadScore <= 0 {
		threadScore = threadScoreFromText(t)
	}

	depth := depthLenWeight*lenScore + depthLogicWeight*logicScore + depthThreadWeight*threadScore
	return clamp(depth, 0, 1)
}

// threadScoreFromMeta reads a reported thread length from extracted
// metadata. Threads of three or more posts count as full structure.
func threadScoreFromMeta(meta map[string]any) float64 {
	if meta == nil {
		return 0
	}
	for _, key := range []string{"thread_len", "thread_size", "thread_count"} {
		v, ok := meta[key]
		if !ok {
			continue
		}
		if asInt(v) >= 3 {
			return 1.0
		}
	}
	return 0
}

// threadScoreFromText infers thread structure from fraction markers and
// enumerated lists when metadata carries nothing.
func threadScoreFromText(t string) float64 {
	fracs := len(fractionMarker.FindAllString(t, -1))
	enums := len(enumMarker.FindAllString(t, -1))
	switch {
	case fracs >= 2 || enums >= 2:
		return 1.0
	case fracs == 1 || enums == 1:
		return 0.5
	default:
		return 0
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// CogWeight converts a depth score into a ranking multiplier:
// 1 + alpha*(depth-0.5), never below 0.1. With alpha=0 this is exactly
// 1.0, which is the kill switch for the whole feature.
func CogWeight(depthScore, alpha float64) float64 {
	ds := clamp(depthScore, 0, 1)
	w := 1.0 + alpha*(ds-0.5)
	return math.Max(0.1, w)
}
