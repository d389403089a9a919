package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"lexi-legal-be/pkg/form"
	"lexi-legal-be/pkg/llm"
	"lexi-legal-be/pkg/retriever"
)

// Tool pairs a schema advertised to the model with the function that
// executes it. Run returns the serialized result fed back as a tool
// message.
type Tool struct {
	Spec llm.ToolSpec
	Run  func(ctx context.Context, args json.RawMessage) (string, error)
}

type lookupArgs struct {
	Query string `json:"query"`
}

func queryToolSpec(name, description string) llm.ToolSpec {
	return llm.ToolSpec{
		Name:        name,
		Description: description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query phrased for the knowledge base",
				},
			},
			"required": []string{"query"},
		},
	}
}

// NewStatuteLookupTool exposes the statutes retrieval pipeline as the
// laws_db_lookup tool.
func NewStatuteLookupTool(pipeline *retriever.Pipeline, logger *log.Logger) Tool {
	return Tool{
		Spec: queryToolSpec("laws_db_lookup",
			"Search Acts, regulations, and statutory instruments (Victoria). Returns a list of {metadata, text}."),
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			return runLookup(ctx, pipeline, args, logger)
		},
	}
}

// NewProcedureLookupTool exposes the procedures retrieval pipeline as
// the procedures_db_lookup tool.
func NewProcedureLookupTool(pipeline *retriever.Pipeline, logger *log.Logger) Tool {
	return Tool{
		Spec: queryToolSpec("procedures_db_lookup",
			"Search procedural forms and court application documents. Returns a list of {metadata, text}."),
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			return runLookup(ctx, pipeline, args, logger)
		},
	}
}

func runLookup(ctx context.Context, pipeline *retriever.Pipeline, args json.RawMessage, logger *log.Logger) (string, error) {
	var in lookupArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("parse lookup arguments: %w", err)
	}
	chunks, err := pipeline.Retrieve(ctx, in.Query)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(chunks)
	if err != nil {
		return "", fmt.Errorf("serialize lookup result: %w", err)
	}
	logger.Printf("[TOOL] lookup %q returned %d chunk(s)", in.Query, len(chunks))
	return string(out), nil
}

// NewCourtFormTool exposes the PDF generator as the generate_court_form
// tool.
func NewCourtFormTool(generator *form.Generator, logger *log.Logger) Tool {
	return Tool{
		Spec: llm.ToolSpec{
			Name:        "generate_court_form",
			Description: "Generate a fillable PDF court form based on form type and required fields.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Form title (required)",
					},
					"subtitle": map[string]interface{}{
						"type":        "string",
						"description": "Form subtitle (default: Supreme Court of Victoria)",
					},
					"fields": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "List of required fields for the form",
					},
					"instructions": map[string]interface{}{
						"type":        "string",
						"description": "Any special instructions for completing the form",
					},
				},
				"required": []string{"title"},
			},
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var spec form.Spec
			if err := json.Unmarshal(args, &spec); err != nil {
				return "", fmt.Errorf("parse form arguments: %w", err)
			}
			path, err := generator.Generate(spec)
			if err != nil {
				return fmt.Sprintf("Error generating form: %v", err), nil
			}
			logger.Printf("[TOOL] generated court form %s", path)
			return fmt.Sprintf("Form successfully generated and saved as: %s", path), nil
		},
	}
}
