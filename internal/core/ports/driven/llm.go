package driven

import "context"

// LLMService is the opaque text-completion collaborator. The friend-mode
// router bypasses it entirely; the self persona and the profile updater
// depend on it.
type LLMService interface {
	// Complete returns the model's reply to a system prompt plus user
	// message.
	Complete(ctx context.Context, system, user string) (string, error)
}

// ProfileStore persists the rendered user profile document.
type ProfileStore interface {
	// Load returns the current profile text, empty when none exists.
	Load(ctx context.Context) (string, error)

	// Save atomically replaces the profile text.
	Save(ctx context.Context, text string) error
}
