package agent

import (
	"context"
	"log"

	"lexi-legal-be/pkg/llm"
	"lexi-legal-be/pkg/store"
)

// Dispatcher runs one full turn: supervisor classification, specialist
// execution, and the at-most-once commit of the user/assistant pair to
// the thread log. Turns within one thread must be serialized by the
// caller; turns across threads are independent.
type Dispatcher struct {
	supervisor *Supervisor
	law        *Specialist
	procedure  *Specialist
	general    *Specialist
	logger     *log.Logger
}

func NewDispatcher(supervisor *Supervisor, law, procedure, general *Specialist, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		supervisor: supervisor,
		law:        law,
		procedure:  procedure,
		general:    general,
		logger:     logger,
	}
}

// RunTurn classifies and answers one user prompt. Nothing is appended
// to the thread until the specialist's full answer is assembled, so an
// abandoned stream leaves the log untouched.
func (d *Dispatcher) RunTurn(ctx context.Context, thread *store.Thread, prompt, filePath string, onToken func(token string)) (string, error) {
	working := *thread
	working.Messages = append(append([]llm.Message{}, thread.Messages...),
		llm.Message{Role: "user", Content: prompt})

	route, err := d.supervisor.Route(ctx, &working, filePath)
	if err != nil {
		return "", err
	}

	specialist := d.specialistFor(route)
	answer, err := specialist.Respond(ctx, &working, onToken)
	if err != nil {
		return "", err
	}

	thread.Append(llm.Message{Role: "user", Content: prompt})
	thread.Append(llm.Message{Role: "assistant", Content: answer})
	thread.Route = working.Route
	thread.DocumentContext = working.DocumentContext
	thread.LastQuery = working.LastQuery
	thread.Phase = store.PhaseDone

	return answer, nil
}

func (d *Dispatcher) specialistFor(route store.Route) *Specialist {
	switch route {
	case store.RouteLaw:
		return d.law
	case store.RouteProcedure:
		return d.procedure
	case store.RouteGeneral:
		return d.general
	default:
		return d.general
	}
}
