package driving

import (
	"context"

	"github.com/docent-ai/docent-cli/internal/core/domain"
)

// StatusFunc receives intermediate reasoning-state updates while a query
// is in flight. Implementations must be fast; updates are delivered inline
// on the calling goroutine.
type StatusFunc func(update domain.StatusUpdate)

// Assistant is the caller-facing surface the UI layer consumes.
type Assistant interface {
	// SendMessage submits a user query, emits intermediate status updates,
	// and returns the final grounded answer.
	SendMessage(ctx context.Context, text string) (*domain.Answer, error)

	// ClearConversation discards the conversation history.
	ClearConversation()

	// TestConnection verifies both providers are reachable with the
	// configured credentials.
	TestConnection(ctx context.Context) error
}
