package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
	"github.com/docent-ai/docent-cli/internal/core/ports/driving"
	"github.com/docent-ai/docent-cli/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.Assistant = (*AssistantService)(nil)

// AssistantService is the conversational surface over the orchestrator.
// It owns the conversation history and enforces newest-query-wins: a new
// SendMessage cancels any query still in flight, and stale queries can no
// longer emit status updates or append to the history.
type AssistantService struct {
	orchestrator *QueryOrchestrator
	embedder     driven.EmbeddingService
	llm          driven.LLMService
	notify       driving.StatusFunc

	historyWindow int

	mu           sync.Mutex
	conversation domain.Conversation
	generation   uint64
	cancelActive context.CancelFunc
}

// AssistantOption configures the assistant.
type AssistantOption func(*AssistantService)

// WithStatusFunc registers the status update observer.
func WithStatusFunc(fn driving.StatusFunc) AssistantOption {
	return func(s *AssistantService) {
		s.notify = fn
	}
}

// WithHistoryWindow sets how many recent turns accompany synthesis.
func WithHistoryWindow(n int) AssistantOption {
	return func(s *AssistantService) {
		if n >= 0 {
			s.historyWindow = n
		}
	}
}

// NewAssistantService creates a new assistant.
func NewAssistantService(
	orchestrator *QueryOrchestrator,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	opts ...AssistantOption,
) *AssistantService {
	s := &AssistantService{
		orchestrator:  orchestrator,
		embedder:      embedder,
		llm:           llm,
		historyWindow: domain.DefaultAppSettings().Retrieval.HistoryWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendMessage submits a user query and returns the grounded answer.
func (s *AssistantService) SendMessage(ctx context.Context, text string) (*domain.Answer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyQuery
	}

	ctx, generation, history := s.begin(ctx)

	answer, err := s.orchestrator.Execute(ctx, text, history, s.statusFor(generation))
	if err != nil {
		if errors.Is(err, context.Canceled) && !s.isCurrent(generation) {
			logger.Debug("Query superseded by a newer one")
		}
		return nil, err
	}

	s.recordTurn(generation, text, answer.Text)
	return answer, nil
}

// ClearConversation discards the conversation history.
func (s *AssistantService) ClearConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversation.Clear()
}

// TestConnection verifies both providers are reachable.
func (s *AssistantService) TestConnection(ctx context.Context) error {
	var errs []error
	if err := s.embedder.Ping(ctx); err != nil {
		errs = append(errs, fmt.Errorf("embedding service (%s): %w", s.embedder.ModelName(), err))
	}
	if err := s.llm.Ping(ctx); err != nil {
		errs = append(errs, fmt.Errorf("completion service (%s): %w", s.llm.ModelName(), err))
	}
	return errors.Join(errs...)
}

// ConversationLen reports how many turns are recorded.
func (s *AssistantService) ConversationLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.Len()
}

// begin cancels any in-flight query, advances the generation counter and
// snapshots the history window for the new query.
func (s *AssistantService) begin(ctx context.Context) (context.Context, uint64, []domain.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelActive != nil {
		s.cancelActive()
	}

	s.generation++
	generation := s.generation

	ctx, cancel := context.WithCancel(ctx)
	s.cancelActive = cancel

	return ctx, generation, s.conversation.Window(s.historyWindow)
}

// statusFor wraps the observer so a superseded query stops emitting.
func (s *AssistantService) statusFor(generation uint64) driving.StatusFunc {
	if s.notify == nil {
		return nil
	}
	return func(update domain.StatusUpdate) {
		if s.isCurrent(generation) {
			s.notify(update)
		}
	}
}

// recordTurn appends the exchange unless a newer query has taken over.
func (s *AssistantService) recordTurn(generation uint64, query, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != generation {
		return
	}
	s.conversation.Append(domain.RoleUser, query)
	s.conversation.Append(domain.RoleAssistant, answer)
}

func (s *AssistantService) isCurrent(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == generation
}
