package agent

import (
	"context"
	"fmt"
	"log"

	"lexi-legal-be/pkg/llm"
	"lexi-legal-be/pkg/store"
)

// Specialist is a tool-augmented completion loop for one domain. The
// loop runs non-streaming rounds while the model keeps requesting
// tools, then streams the final answer through a Collector.
type Specialist struct {
	name          string
	systemPrompt  string
	model         string
	llmProvider   llm.LLMProvider
	tools         []Tool
	maxToolRounds int
	logger        *log.Logger
}

// NewLawSpecialist must call the statute lookup exactly once, so its
// tool budget is a single round.
func NewLawSpecialist(llmProvider llm.LLMProvider, model string, statuteLookup Tool, logger *log.Logger) *Specialist {
	return &Specialist{
		name:          "law",
		systemPrompt:  lawSystemPrompt,
		model:         model,
		llmProvider:   llmProvider,
		tools:         []Tool{statuteLookup},
		maxToolRounds: 1,
		logger:        logger,
	}
}

func NewProcedureSpecialist(llmProvider llm.LLMProvider, model string, procedureLookup, courtForm Tool, logger *log.Logger) *Specialist {
	return &Specialist{
		name:          "procedure",
		systemPrompt:  procedureSystemPrompt,
		model:         model,
		llmProvider:   llmProvider,
		tools:         []Tool{procedureLookup, courtForm},
		maxToolRounds: 3,
		logger:        logger,
	}
}

func NewGeneralSpecialist(llmProvider llm.LLMProvider, model string, logger *log.Logger) *Specialist {
	return &Specialist{
		name:         "general",
		systemPrompt: generalSystemPrompt,
		model:        model,
		llmProvider:  llmProvider,
		logger:       logger,
	}
}

func (s *Specialist) Name() string { return s.name }

// Respond produces the assistant answer for the thread's latest turn.
// Tokens of the final answer pass through onToken when set; the cleaned
// full text is returned either way. The thread's message log is not
// modified here, the caller commits the answer after the stream
// completes.
func (s *Specialist) Respond(ctx context.Context, thread *store.Thread, onToken func(token string)) (string, error) {
	history := s.promptMessages(thread)

	for round := 0; round < s.maxToolRounds && len(s.tools) > 0; round++ {
		result, err := s.llmProvider.ChatWithTools(ctx, history, s.toolSpecs(), s.options()...)
		if err != nil {
			return "", fmt.Errorf("%s specialist: %w", s.name, err)
		}
		if !result.IsToolCall() {
			// Model answered without tools; run the content through the
			// same filter the streamed path uses.
			collector := NewCollector(onToken)
			collector.Write(result.Content)
			return CleanRoutePrefix(collector.Text()), nil
		}
		history = s.executeToolCalls(ctx, history, result.ToolCalls)
	}

	collector := NewCollector(onToken)
	if _, err := s.llmProvider.ChatStream(ctx, history, collector.Write, s.options()...); err != nil {
		return "", fmt.Errorf("%s specialist: %w", s.name, err)
	}
	return CleanRoutePrefix(collector.Text()), nil
}

// promptMessages builds the prompt sent to the model. When the thread
// carries document context, the last user message is replaced by a
// synthesized turn that embeds the context block; the stored history is
// left untouched.
func (s *Specialist) promptMessages(thread *store.Thread) []llm.Message {
	messages := make([]llm.Message, 0, len(thread.Messages)+1)
	messages = append(messages, llm.Message{Role: "system", Content: s.systemPrompt})
	messages = append(messages, thread.Messages...)

	if thread.DocumentContext != "" && len(messages) > 1 {
		last := len(messages) - 1
		if messages[last].Role == "user" {
			messages[last] = llm.Message{
				Role: "user",
				Content: fmt.Sprintf("User question: %s\nUser question context document:\n%s",
					messages[last].Content, thread.DocumentContext),
			}
		}
	}
	return messages
}

func (s *Specialist) executeToolCalls(ctx context.Context, history []llm.Message, calls []llm.ToolCall) []llm.Message {
	for _, call := range calls {
		tool, ok := s.findTool(call.Name)
		if !ok {
			history = append(history, llm.Message{
				Role:     "tool",
				ToolName: call.Name,
				Content:  fmt.Sprintf("unknown tool %q", call.Name),
			})
			continue
		}

		s.logger.Printf("[%s] executing tool %s", s.name, call.Name)
		output, err := tool.Run(ctx, call.Arguments)
		if err != nil {
			// Tool failures are reported to the model, which can still
			// produce a best-effort answer.
			output = fmt.Sprintf("tool error: %v", err)
			s.logger.Printf("[%s] tool %s failed: %v", s.name, call.Name, err)
		}
		history = append(history, llm.Message{
			Role:     "tool",
			ToolName: call.Name,
			Content:  output,
		})
	}
	return history
}

func (s *Specialist) findTool(name string) (Tool, bool) {
	for _, t := range s.tools {
		if t.Spec.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

func (s *Specialist) toolSpecs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(s.tools))
	for _, t := range s.tools {
		specs = append(specs, t.Spec)
	}
	return specs
}

func (s *Specialist) options() []llm.Option {
	if s.model == "" {
		return nil
	}
	return []llm.Option{llm.WithModel(s.model)}
}
