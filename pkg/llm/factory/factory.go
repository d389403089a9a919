package factory

import (
	"fmt"

	"lexi-legal-be/pkg/llm"
	"lexi-legal-be/pkg/llm/ollama"
	"lexi-legal-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, ollamaBaseURL, openAIBaseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	case "openai":
		return openai.NewOpenAIProvider(apiKey, openAIBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
