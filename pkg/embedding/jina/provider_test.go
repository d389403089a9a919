package jina

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate(t *testing.T) {
	var gotAuth string
	var gotReq jinaEmbeddingRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Error(err)
		}
		json.NewEncoder(w).Encode(jinaEmbeddingResponse{
			Data: []jinaEmbeddingData{{Index: 0, Embedding: []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer server.Close()

	p := NewProvider("test-key", "jina-embeddings-v3")
	p.BaseURL = server.URL

	res, err := p.Generate("some passage", "RETRIEVAL_DOCUMENT")
	if err != nil {
		t.Fatal(err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "jina-embeddings-v3" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Input) != 1 || gotReq.Input[0] != "some passage" {
		t.Errorf("input = %v", gotReq.Input)
	}
	if len(res.Embedding.Values) != 3 || res.Embedding.Values[1] != 0.2 {
		t.Errorf("values = %v", res.Embedding.Values)
	}
}

func TestGenerateDefaultsModel(t *testing.T) {
	p := NewProvider("key", "")
	if p.ModelName != defaultModel {
		t.Errorf("ModelName = %q, want %q", p.ModelName, defaultModel)
	}
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	p := NewProvider("bad-key", "")
	p.BaseURL = server.URL

	if _, err := p.Generate("text", "RETRIEVAL_QUERY"); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}

func TestGenerateEmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jinaEmbeddingResponse{})
	}))
	defer server.Close()

	p := NewProvider("key", "")
	p.BaseURL = server.URL

	if _, err := p.Generate("text", "RETRIEVAL_QUERY"); err == nil {
		t.Error("expected an error for an empty data array")
	}
}
