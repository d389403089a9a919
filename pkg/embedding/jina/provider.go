// Package jina calls the Jina AI embeddings API through the shared
// EmbeddingProvider contract.
package jina

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lexi-legal-be/pkg/embedding"
)

const (
	defaultBaseURL = "https://api.jina.ai"
	defaultModel   = "jina-embeddings-v2-base-en"
)

type Provider struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Client    *http.Client
}

func NewProvider(apiKey, modelName string) *Provider {
	if modelName == "" {
		modelName = defaultModel
	}
	return &Provider{
		APIKey:    apiKey,
		BaseURL:   defaultBaseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type jinaEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type jinaEmbeddingData struct {
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

type jinaEmbeddingResponse struct {
	Data  []jinaEmbeddingData `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *Provider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	// The API takes a batch; we embed one text per call to keep the
	// provider contract symmetric with ollama.
	payload, err := json.Marshal(jinaEmbeddingRequest{
		Model: p.ModelName,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", p.BaseURL+"/v1/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jina embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("jina api error (status %d): %s", resp.StatusCode, string(body))
	}

	var decoded jinaEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("jina api returned error: %s", decoded.Error.Message)
	}
	if len(decoded.Data) == 0 || len(decoded.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding from jina api")
	}

	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{
			Values: decoded.Data[0].Embedding,
		},
	}, nil
}
