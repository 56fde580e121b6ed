package driving

import (
	"context"
	"time"

	"github.com/guavabuy/secondbrain/internal/core/domain"
)

// RetrieveOptions bound one retrieval pass.
type RetrieveOptions struct {
	// TopK is the maximum number of hits returned after reranking.
	TopK int

	// MaxScan caps the corpus tail scanned, bounding cost on large
	// corpora. Zero means the configured default.
	MaxScan int

	// MinSimilarity discards candidates below this base similarity
	// before any weighting is computed.
	MinSimilarity float64

	// Now anchors age computation; zero means the current time.
	Now time.Time
}

// Retriever ranks corpus chunks against a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, opts RetrieveOptions) ([]domain.RetrievalHit, error)
}
