package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lexi-legal-be/pkg/llm"
	"lexi-legal-be/pkg/store"
)

func newTestDispatcher(provider *scriptedProvider) *Dispatcher {
	logger := testLogger()
	supervisor := NewSupervisor(provider, "", nil, nil, logger)

	lookupCalls := 0
	law := NewLawSpecialist(provider, "", countingTool("laws_db_lookup", &lookupCalls, `[]`), logger)
	procedure := NewProcedureSpecialist(provider, "",
		countingTool("procedures_db_lookup", &lookupCalls, `[]`),
		countingTool("generate_court_form", &lookupCalls, "saved"), logger)
	general := NewGeneralSpecialist(provider, "", logger)

	return NewDispatcher(supervisor, law, procedure, general, logger)
}

func TestRunTurnCommitsPairAfterAnswer(t *testing.T) {
	provider := &scriptedProvider{
		chatReplies:  []string{"general"},
		streamTokens: []string{"Hello, ", "I can help with that."},
	}
	d := newTestDispatcher(provider)
	thread := store.NewThread("thread-1", "user-1")

	answer, err := d.RunTurn(context.Background(), thread, "hi there", "", nil)
	if err != nil {
		t.Fatal(err)
	}

	if answer != "Hello, I can help with that." {
		t.Errorf("answer = %q", answer)
	}
	if len(thread.Messages) != 2 {
		t.Fatalf("committed %d messages, want the user/assistant pair", len(thread.Messages))
	}
	if thread.Messages[0].Role != "user" || thread.Messages[0].Content != "hi there" {
		t.Errorf("first committed message = %+v", thread.Messages[0])
	}
	if thread.Messages[1].Role != "assistant" || thread.Messages[1].Content != answer {
		t.Errorf("second committed message = %+v", thread.Messages[1])
	}
	if thread.Route != store.RouteGeneral {
		t.Errorf("route = %q", thread.Route)
	}
	if thread.Phase != store.PhaseDone {
		t.Errorf("phase = %q", thread.Phase)
	}
}

func TestRunTurnRoutesToLawSpecialist(t *testing.T) {
	provider := &scriptedProvider{
		chatReplies:  []string{"law"},
		toolResults:  []*llm.ChatResult{toolCallResult("laws_db_lookup", `{"query":"notice"}`)},
		streamTokens: []string{"Under the Act, 60 days."},
	}
	d := newTestDispatcher(provider)
	thread := store.NewThread("thread-1", "user-1")

	answer, err := d.RunTurn(context.Background(), thread, "how much notice?", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if thread.Route != store.RouteLaw {
		t.Errorf("route = %q, want law", thread.Route)
	}
	if !strings.Contains(answer, "60 days") {
		t.Errorf("answer = %q", answer)
	}
	if len(provider.toolHistories) != 1 {
		t.Errorf("ChatWithTools called %d times, want 1", len(provider.toolHistories))
	}
}

func TestRunTurnFailedClassificationLeavesLogUntouched(t *testing.T) {
	provider := &scriptedProvider{chatErr: errors.New("connection refused")}
	d := newTestDispatcher(provider)

	thread := store.NewThread("thread-1", "user-1")
	thread.Append(llm.Message{Role: "user", Content: "earlier question"})
	thread.Append(llm.Message{Role: "assistant", Content: "earlier answer"})

	_, err := d.RunTurn(context.Background(), thread, "new question", "", nil)
	if !errors.Is(err, ErrClassificationUnavailable) {
		t.Fatalf("err = %v, want ErrClassificationUnavailable", err)
	}
	if len(thread.Messages) != 2 {
		t.Errorf("log has %d messages after a failed turn, want the original 2", len(thread.Messages))
	}
}

func TestRunTurnFailedSpecialistLeavesLogUntouched(t *testing.T) {
	provider := &scriptedProvider{
		chatReplies: []string{"general"},
		streamErr:   errors.New("stream reset"),
	}
	d := newTestDispatcher(provider)
	thread := store.NewThread("thread-1", "user-1")

	_, err := d.RunTurn(context.Background(), thread, "question", "", nil)
	if err == nil {
		t.Fatal("expected an error from the failed stream")
	}
	if len(thread.Messages) != 0 {
		t.Errorf("log has %d messages after a failed turn, want 0", len(thread.Messages))
	}
}

func TestRunTurnMultiTurnHistoryAccumulates(t *testing.T) {
	provider := &scriptedProvider{
		chatReplies:  []string{"general"},
		streamTokens: []string{"answer"},
	}
	d := newTestDispatcher(provider)
	thread := store.NewThread("thread-1", "user-1")

	for i := 0; i < 3; i++ {
		if _, err := d.RunTurn(context.Background(), thread, "question", "", nil); err != nil {
			t.Fatal(err)
		}
	}
	if len(thread.Messages) != 6 {
		t.Errorf("log has %d messages after 3 turns, want 6", len(thread.Messages))
	}

	// The third specialist prompt carries the two earlier pairs plus the
	// new user turn, after the system message.
	lastPrompt := provider.streamHistories[2]
	if len(lastPrompt) != 6 {
		t.Errorf("third specialist prompt has %d messages, want 6", len(lastPrompt))
	}
}

func TestRunTurnUnknownStoredRouteFallsBackToGeneral(t *testing.T) {
	provider := &scriptedProvider{
		chatReplies:  []string{"refuse to answer"},
		streamTokens: []string{"general fallback answer"},
	}
	d := newTestDispatcher(provider)
	thread := store.NewThread("thread-1", "user-1")

	answer, err := d.RunTurn(context.Background(), thread, "question", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if thread.Route != store.RouteGeneral {
		t.Errorf("route = %q, want general", thread.Route)
	}
	if answer != "general fallback answer" {
		t.Errorf("answer = %q", answer)
	}
	// The general specialist carries no tools, so no tool round ran.
	if len(provider.toolHistories) != 0 {
		t.Errorf("ChatWithTools called %d times, want 0", len(provider.toolHistories))
	}
}
