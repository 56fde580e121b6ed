package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// RetrievalHit is a chunk scored against one query. Hits are ephemeral:
// they are recomputed on every query and never persisted.
type RetrievalHit struct {
	// UID is the chunk's identifier, empty for legacy records.
	UID string

	// Text is the chunk content.
	Text string

	// Source and FilePath carry provenance from the chunk.
	Source   Source
	FilePath string

	// CreatedAt is the chunk's authored time, empty when unknown.
	CreatedAt string

	// Meta is the chunk's extracted metadata.
	Meta map[string]any

	// BaseSimilarity is the lexical overlap score in [0,1].
	BaseSimilarity float64

	// DepthScore is the structural-depth estimate used for weighting.
	DepthScore float64

	// AgeDays is the chunk age at query time; nil when CreatedAt is absent.
	AgeDays *float64

	// CogWeight multiplies the score when depth weighting is enabled.
	CogWeight float64

	// TimeWeight multiplies the score when recency decay is enabled.
	TimeWeight float64

	// FinalScore is the composed ranking score.
	FinalScore float64
}

// DedupKey identifies logically identical hits. The UID wins when
// present; otherwise provenance plus a text head stands in for it.
func (h *RetrievalHit) DedupKey() string {
	if h.UID != "" {
		return "uid:" + h.UID
	}
	head := h.Text
	if r := []rune(head); len(r) > 120 {
		head = string(r[:120])
	}
	return fmt.Sprintf("fp:%s|%s|%s|%s", h.Source, h.FilePath, h.CreatedAt, head)
}

// ChunkID returns a stable identifier for observability output: the UID
// when present, otherwise a short hash of the text prefixed with the
// hit's position.
func (h *RetrievalHit) ChunkID(idx int) string {
	if h.UID != "" {
		return h.UID
	}
	sum := sha1.Sum([]byte(h.Text))
	return fmt.Sprintf("h%d:%s", idx, hex.EncodeToString(sum[:])[:12])
}

// RetrievalPack is the normalised bag of hits the router consumes for one
// query or sub-query. HitCount and TopScore are derived, never trusted
// from callers.
type RetrievalPack struct {
	HitCount int
	TopScore float64
	Hits     []RetrievalHit
}

// NewRetrievalPack derives the routing fields from the given hits,
// dropping hits with empty text.
func NewRetrievalPack(hits []RetrievalHit) RetrievalPack {
	valid := make([]RetrievalHit, 0, len(hits))
	top := 0.0
	for _, h := range hits {
		if strings.TrimSpace(h.Text) == "" {
			continue
		}
		if h.BaseSimilarity > top {
			top = h.BaseSimilarity
		}
		if h.FinalScore > top {
			top = h.FinalScore
		}
		valid = append(valid, h)
	}
	return RetrievalPack{HitCount: len(valid), TopScore: top, Hits: valid}
}

// Contexts returns the non-empty hit texts in pack order.
func (p *RetrievalPack) Contexts() []string {
	out := make([]string, 0, len(p.Hits))
	for _, h := range p.Hits {
		if t := strings.TrimSpace(h.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ScoredText pairs a text fragment with an optional score, the smallest
// shape heterogeneous callers hand to PackFromInput.
type ScoredText struct {
	ID     string
	Text   string
	Score  float64
	Scored bool
	Source string
}

// PackInput is the tagged-union contract for pack normalisation. Exactly
// one arm should be set; the first non-empty arm wins and an empty input
// yields an empty pack. Replaces duck-typed adapter guessing with an
// explicit contract.
type PackInput struct {
	// Hits are fully formed retrieval hits.
	Hits []RetrievalHit

	// Pairs are loose text/score pairs from external retrievers.
	Pairs []ScoredText

	// Contexts are bare context strings with no scores.
	Contexts []string
}

// PackFromInput normalises any recognised input arm into a RetrievalPack.
// Unrecognised (all-empty) input yields an empty pack, which routes to
// Unknown downstream.
func PackFromInput(in PackInput) RetrievalPack {
	switch {
	case len(in.Hits) > 0:
		return NewRetrievalPack(in.Hits)
	case len(in.Pairs) > 0:
		hits := make([]RetrievalHit, 0, len(in.Pairs))
		for _, p := range in.Pairs {
			h := RetrievalHit{
				UID:        p.ID,
				Text:       p.Text,
				Source:     Source(p.Source),
				CogWeight:  1.0,
				TimeWeight: 1.0,
			}
			if p.Scored {
				h.BaseSimilarity = p.Score
				h.FinalScore = p.Score
			}
			hits = append(hits, h)
		}
		return NewRetrievalPack(hits)
	case len(in.Contexts) > 0:
		hits := make([]RetrievalHit, 0, len(in.Contexts))
		for _, c := range in.Contexts {
			hits = append(hits, RetrievalHit{Text: c, CogWeight: 1.0, TimeWeight: 1.0})
		}
		return NewRetrievalPack(hits)
	default:
		return RetrievalPack{}
	}
}
