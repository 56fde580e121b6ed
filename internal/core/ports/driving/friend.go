package driving

import (
	"context"

	"github.com/guavabuy/secondbrain/internal/core/domain"
)

// FriendReplier composes friend-mode replies algorithmically from a
// retrieval pack, without calling the LLM.
type FriendReplier interface {
	// Answer routes the query (splitting compound questions) and
	// renders the reply text.
	Answer(ctx context.Context, query string, pack domain.RetrievalPack, thresholds domain.Thresholds) string

	// AnswerWithMeta additionally returns the observability metadata,
	// populated even when nothing novel happened.
	AnswerWithMeta(ctx context.Context, query string, pack domain.RetrievalPack, thresholds domain.Thresholds) (string, domain.ReplyMeta)
}

// ProfileUpdater rewrites the user profile from corpus lines past the
// profile cursor.
type ProfileUpdater interface {
	// Update reads new chunks, asks the LLM to revise the profile and
	// persists the result. It reports whether a rewrite happened.
	Update(ctx context.Context) (bool, error)
}
