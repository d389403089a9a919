package retriever

import (
	"context"
	"fmt"
	"log"
	"strings"

	"lexi-legal-be/pkg/llm"
	"lexi-legal-be/pkg/vectorstore"
)

const maxFilterRunes = 2000

const relevanceFilterPrompt = `Given the following question and context, return YES if the context is relevant to the question and NO if it isn't.

> Question: %s
> Context:
>>>
%s
>>>
> Relevant (YES / NO):`

// RelevanceFilter drops documents an LLM judges irrelevant to the
// query, preserving order among survivors.
type RelevanceFilter struct {
	llmProvider llm.LLMProvider
	model       string
	logger      *log.Logger
}

func NewRelevanceFilter(llmProvider llm.LLMProvider, model string, logger *log.Logger) *RelevanceFilter {
	return &RelevanceFilter{
		llmProvider: llmProvider,
		model:       model,
		logger:      logger,
	}
}

func (f *RelevanceFilter) Filter(ctx context.Context, query string, docs []vectorstore.ScoredDocument) ([]vectorstore.ScoredDocument, error) {
	var kept []vectorstore.ScoredDocument

	for i, doc := range docs {
		text := doc.Text
		// Truncate on rune boundaries so a multibyte character is never
		// split into an invalid tail.
		if runes := []rune(text); len(runes) > maxFilterRunes {
			text = string(runes[:maxFilterRunes])
		}

		opts := []llm.Option{llm.WithTemperature(0)}
		if f.model != "" {
			opts = append(opts, llm.WithModel(f.model))
		}

		response, err := f.llmProvider.Generate(ctx, fmt.Sprintf(relevanceFilterPrompt, query, text), opts...)
		if err != nil {
			return kept, fmt.Errorf("relevance filter call %d: %w", i, err)
		}

		verdict := strings.ToUpper(strings.TrimSpace(response))
		if strings.HasPrefix(verdict, "YES") {
			kept = append(kept, doc)
		} else {
			f.logger.Printf("[FILTER] Dropped doc %d as irrelevant", i+1)
		}
	}

	return kept, nil
}
