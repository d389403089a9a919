package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"lexi-legal-be/pkg/extract"
	"lexi-legal-be/pkg/llm"
	"lexi-legal-be/pkg/store"
)

// ErrClassificationUnavailable signals that the completion service
// could not be reached while routing. The caller decides whether to
// degrade to the general specialist or abort the turn.
var ErrClassificationUnavailable = errors.New("classification service unavailable")

const contextTopK = 3

// Supervisor classifies the latest user turn into a route and, when the
// turn carries a file attachment, augments the thread with the most
// relevant slice of the extracted document.
type Supervisor struct {
	llmProvider llm.LLMProvider
	routerModel string
	extractor   *extract.Extractor
	selector    *extract.Selector
	logger      *log.Logger
}

func NewSupervisor(
	llmProvider llm.LLMProvider,
	routerModel string,
	extractor *extract.Extractor,
	selector *extract.Selector,
	logger *log.Logger,
) *Supervisor {
	return &Supervisor{
		llmProvider: llmProvider,
		routerModel: routerModel,
		extractor:   extractor,
		selector:    selector,
		logger:      logger,
	}
}

// Route runs one classification turn. Document context is derived only
// from this turn's attachment; a turn without one clears any context
// left over from a previous upload.
func (s *Supervisor) Route(ctx context.Context, thread *store.Thread, filePath string) (store.Route, error) {
	thread.Phase = store.PhaseRouting
	question := thread.LastUserMessage().Content
	thread.LastQuery = question

	if filePath != "" {
		if err := s.attachContext(ctx, thread, filePath, question); err != nil {
			return "", err
		}
	} else {
		thread.DocumentContext = ""
	}

	messages := []llm.Message{
		{Role: "system", Content: supervisorPrompt},
		{Role: "user", Content: fmt.Sprintf("Route this question: %s", question)},
	}

	opts := []llm.Option{llm.WithTemperature(0)}
	if s.routerModel != "" {
		opts = append(opts, llm.WithModel(s.routerModel))
	}

	raw, err := s.llmProvider.Chat(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}

	decision := parseDecision(raw)
	thread.Route = decision
	thread.Phase = store.PhaseDispatched

	s.logger.Printf("[SUPERVISOR] thread=%s decision=%s", thread.ID, decision)
	return decision, nil
}

func (s *Supervisor) attachContext(ctx context.Context, thread *store.Thread, filePath, question string) error {
	text, err := s.extractor.Extract(ctx, filePath)
	if err != nil {
		return err
	}

	chunks := extract.ChunkText(text, extract.DefaultChunkSize, extract.DefaultChunkOverlap)
	relevant, err := s.selector.SelectRelevant(chunks, question, contextTopK)
	if err != nil {
		return fmt.Errorf("select relevant chunks: %w", err)
	}

	thread.DocumentContext = relevant
	return nil
}

// parseDecision maps the model's verdict onto a route. Anything outside
// the three specialist labels, "finish" included, falls back to general
// rather than failing the turn.
func parseDecision(raw string) store.Route {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "law":
		return store.RouteLaw
	case "procedure":
		return store.RouteProcedure
	case "general":
		return store.RouteGeneral
	default:
		return store.RouteGeneral
	}
}
