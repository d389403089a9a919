package llm

import (
	"context"
	"encoding/json"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system", "tool"
	Content string
	// ToolName is set on "tool" role messages carrying a tool result
	ToolName string
}

// ToolSpec describes a callable tool in JSON-schema form, as accepted by
// both the Ollama and OpenAI chat APIs.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// ChatResult is the outcome of a tool-aware chat turn: either final
// content, or one or more tool calls to execute before continuing.
type ChatResult struct {
	Content   string
	ToolCalls []ToolCall
}

func (r *ChatResult) IsToolCall() bool {
	return len(r.ToolCalls) > 0
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// ChatWithTools runs one turn with tool schemas attached. The result
	// carries either final content or the model's requested tool calls.
	ChatWithTools(ctx context.Context, history []Message, tools []ToolSpec, options ...Option) (*ChatResult, error)

	// ChatStream streams the response token by token through onToken and
	// returns the full accumulated text once the stream completes.
	ChatStream(ctx context.Context, history []Message, onToken func(token string), options ...Option) (string, error)
}
