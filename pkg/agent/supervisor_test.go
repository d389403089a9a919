package agent

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"lexi-legal-be/pkg/llm"
	"lexi-legal-be/pkg/store"
)

// scriptedProvider replays canned responses per method and records the
// histories it was called with.
type scriptedProvider struct {
	chatReplies []string
	chatErr     error

	toolResults []*llm.ChatResult
	toolErr     error

	streamTokens []string
	streamErr    error

	chatHistories   [][]llm.Message
	toolHistories   [][]llm.Message
	streamHistories [][]llm.Message
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.chatHistories = append(p.chatHistories, history)
	if p.chatErr != nil {
		return "", p.chatErr
	}
	reply := p.chatReplies[0]
	if len(p.chatReplies) > 1 {
		p.chatReplies = p.chatReplies[1:]
	}
	return reply, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (p *scriptedProvider) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.ToolSpec, options ...llm.Option) (*llm.ChatResult, error) {
	p.toolHistories = append(p.toolHistories, history)
	if p.toolErr != nil {
		return nil, p.toolErr
	}
	result := p.toolResults[0]
	if len(p.toolResults) > 1 {
		p.toolResults = p.toolResults[1:]
	}
	return result, nil
}

func (p *scriptedProvider) ChatStream(ctx context.Context, history []llm.Message, onToken func(token string), options ...llm.Option) (string, error) {
	p.streamHistories = append(p.streamHistories, history)
	if p.streamErr != nil {
		return "", p.streamErr
	}
	var full strings.Builder
	for _, token := range p.streamTokens {
		onToken(token)
		full.WriteString(token)
	}
	return full.String(), nil
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func userThread(prompt string) *store.Thread {
	thread := store.NewThread("thread-1", "user-1")
	thread.Append(llm.Message{Role: "user", Content: prompt})
	return thread
}

func TestSupervisorRoute(t *testing.T) {
	tests := []struct {
		name    string
		verdict string
		want    store.Route
	}{
		{"law verdict", "law", store.RouteLaw},
		{"procedure verdict", "procedure", store.RouteProcedure},
		{"general verdict", "general", store.RouteGeneral},
		{"padded mixed case", "  Law \n", store.RouteLaw},
		{"finish falls back to general", "finish", store.RouteGeneral},
		{"garbage falls back to general", "I think this is a law question", store.RouteGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedProvider{chatReplies: []string{tt.verdict}}
			s := NewSupervisor(provider, "router-model", nil, nil, testLogger())
			thread := userThread("what notice must a tenant give?")

			route, err := s.Route(context.Background(), thread, "")
			if err != nil {
				t.Fatal(err)
			}
			if route != tt.want {
				t.Errorf("route = %q, want %q", route, tt.want)
			}
			if thread.Route != tt.want {
				t.Errorf("thread.Route = %q, want %q", thread.Route, tt.want)
			}
			if thread.Phase != store.PhaseDispatched {
				t.Errorf("phase = %q, want %q", thread.Phase, store.PhaseDispatched)
			}
			if thread.LastQuery != "what notice must a tenant give?" {
				t.Errorf("LastQuery = %q", thread.LastQuery)
			}
		})
	}
}

func TestSupervisorRoutesLatestQuestion(t *testing.T) {
	provider := &scriptedProvider{chatReplies: []string{"law"}}
	s := NewSupervisor(provider, "", nil, nil, testLogger())

	thread := userThread("first question")
	thread.Append(llm.Message{Role: "assistant", Content: "first answer"})
	thread.Append(llm.Message{Role: "user", Content: "second question"})

	if _, err := s.Route(context.Background(), thread, ""); err != nil {
		t.Fatal(err)
	}

	sent := provider.chatHistories[0]
	if len(sent) != 2 || sent[0].Role != "system" {
		t.Fatalf("unexpected classification prompt: %+v", sent)
	}
	if !strings.Contains(sent[1].Content, "second question") {
		t.Errorf("classification prompt %q does not carry the latest turn", sent[1].Content)
	}
	if strings.Contains(sent[1].Content, "first question") {
		t.Errorf("classification prompt leaked earlier turns: %q", sent[1].Content)
	}
}

func TestSupervisorClassificationUnavailable(t *testing.T) {
	provider := &scriptedProvider{chatErr: errors.New("connection refused")}
	s := NewSupervisor(provider, "", nil, nil, testLogger())
	thread := userThread("question")

	_, err := s.Route(context.Background(), thread, "")
	if !errors.Is(err, ErrClassificationUnavailable) {
		t.Errorf("err = %v, want ErrClassificationUnavailable", err)
	}
}

func TestSupervisorClearsStaleDocumentContext(t *testing.T) {
	provider := &scriptedProvider{chatReplies: []string{"general"}}
	s := NewSupervisor(provider, "", nil, nil, testLogger())

	thread := userThread("follow-up without an attachment")
	thread.DocumentContext = "excerpt from an earlier upload"

	if _, err := s.Route(context.Background(), thread, ""); err != nil {
		t.Fatal(err)
	}
	if thread.DocumentContext != "" {
		t.Errorf("DocumentContext = %q, want it cleared", thread.DocumentContext)
	}
}
