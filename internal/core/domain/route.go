package domain

// RouteLabel classifies a query against retrieval confidence.
type RouteLabel string

const (
	// RouteKnown means the corpus carries enough evidence to answer.
	RouteKnown RouteLabel = "Known"

	// RouteUnknown means there is no usable evidence at all.
	RouteUnknown RouteLabel = "Unknown"

	// RouteAmbiguous is everything in between.
	RouteAmbiguous RouteLabel = "Ambiguous"
)

// Default routing thresholds, tuned against the lexical similarity
// metric's score distribution.
const (
	DefaultLowThreshold  = 0.25
	DefaultHighThreshold = 0.55
	DefaultMinHits       = 3
)

// Thresholds are the routing decision boundaries.
type Thresholds struct {
	// Low is the score below which a query is Unknown.
	Low float64

	// High is the score at or above which a query can be Known.
	High float64

	// MinHits is the minimum hit count required for Known.
	MinHits int
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Low:     DefaultLowThreshold,
		High:    DefaultHighThreshold,
		MinHits: DefaultMinHits,
	}
}

// SegmentMeta is the observability record for one routed sub-question.
// It is populated for every segment, including ones where nothing novel
// happened, so audit logs stay complete.
type SegmentMeta struct {
	// Index is the segment's position within the reply.
	Index int `json:"idx"`

	// Query is the (sub-)question that was routed.
	Query string `json:"query"`

	// Route is the label the state machine chose.
	Route RouteLabel `json:"route"`

	// TopScore and HitCount are the routing inputs.
	TopScore float64 `json:"top_score"`
	HitCount int     `json:"hit_count"`

	// UsedChunks identifies the chunks that informed the reply.
	UsedChunks []string `json:"used_chunks"`
}

// WebSearchMeta records one web-search attempt made while composing a
// reply.
type WebSearchMeta struct {
	Query   string `json:"query"`
	Limit   int    `json:"k"`
	OK      bool   `json:"ok"`
	Results int    `json:"n"`
}

// ReplyMeta is the structured metadata returned by the observability
// variant of the friend-mode answer path.
type ReplyMeta struct {
	Segments    []SegmentMeta   `json:"segments"`
	WebSearches []WebSearchMeta `json:"web_search"`
}
