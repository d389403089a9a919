package store

import (
	"lexi-legal-be/pkg/llm"
)

// Route names the specialist a thread has been dispatched to.
type Route string

const (
	RouteLaw       Route = "law"
	RouteProcedure Route = "procedure"
	RouteGeneral   Route = "general"
	RouteFinish    Route = "finish"
)

// Phase tracks where a thread sits in the routing lifecycle.
type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhaseRouting    Phase = "ROUTING"
	PhaseDispatched Phase = "DISPATCHED"
	PhaseDone       Phase = "DONE"
)

// Thread is the active conversation state held in memory while a
// request moves through the supervisor and a specialist.
type Thread struct {
	ID     string `json:"id"` // ChatThreadID
	UserID string `json:"user_id"`
	Phase  Phase  `json:"phase"`
	Route  Route  `json:"route"`

	// Full turn history handed to the specialist, most recent last.
	Messages []llm.Message `json:"messages"`

	// Relevant excerpt selected from an uploaded document, empty when
	// the turn carried no attachment.
	DocumentContext string `json:"document_context"`

	LastQuery string `json:"last_query"`
}

func NewThread(id, userID string) *Thread {
	return &Thread{
		ID:     id,
		UserID: userID,
		Phase:  PhaseIdle,
	}
}

// Append adds a turn to the history.
func (t *Thread) Append(msg llm.Message) {
	t.Messages = append(t.Messages, msg)
}

// LastUserMessage returns the most recent user turn, or an empty
// message when the history holds none.
func (t *Thread) LastUserMessage() llm.Message {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == "user" {
			return t.Messages[i]
		}
	}
	return llm.Message{}
}
