package driven

import (
	"context"

	"github.com/guavabuy/secondbrain/internal/core/domain"
)

// WebSearcher performs the optional external web search used by the
// routing layer. Implementations must never return an error to the
// caller: failures, timeouts and missing credentials all degrade to an
// empty result list so the router can state unavailability explicitly.
type WebSearcher interface {
	Search(ctx context.Context, query string, limit int) []domain.WebResult
}
