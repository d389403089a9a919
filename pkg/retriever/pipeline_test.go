package retriever

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"lexi-legal-be/pkg/cache"
	"lexi-legal-be/pkg/embedding"
	"lexi-legal-be/pkg/llm"
	"lexi-legal-be/pkg/vectorstore"
)

type fakeEmbedder struct {
	err error
}

func (f fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

type fakeStore struct {
	docs    []vectorstore.ScoredDocument
	err     error
	queries int
}

func (f *fakeStore) Add(ctx context.Context, docs []vectorstore.Document, embeddings [][]float32) error {
	return nil
}

func (f *fakeStore) SimilaritySearch(ctx context.Context, queryEmbedding []float32, k int) ([]vectorstore.ScoredDocument, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	if k < len(f.docs) {
		return f.docs[:k], nil
	}
	return f.docs, nil
}

type fakeScorer struct {
	scores []float64
	err    error
}

func (f fakeScorer) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scores[:len(documents)], nil
}

// verdictLLM answers the relevance prompt NO for any document whose text
// contains "irrelevant", YES otherwise.
type verdictLLM struct {
	err     error
	calls   int
	prompts []string
}

func (v *verdictLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	v.calls++
	v.prompts = append(v.prompts, prompt)
	if v.err != nil {
		return "", v.err
	}
	if strings.Contains(prompt, "irrelevant") {
		return "NO", nil
	}
	return "YES", nil
}

func (v *verdictLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func (v *verdictLLM) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.ToolSpec, options ...llm.Option) (*llm.ChatResult, error) {
	return nil, errors.New("not implemented")
}

func (v *verdictLLM) ChatStream(ctx context.Context, history []llm.Message, onToken func(token string), options ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func scoredDoc(id, text string, score float32) vectorstore.ScoredDocument {
	return vectorstore.ScoredDocument{
		Document: vectorstore.Document{
			ID:       id,
			Text:     text,
			Metadata: map[string]string{"source": id},
		},
		Score: score,
	}
}

func newTestCache(t *testing.T) *cache.RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewRedisCache(client, time.Hour, 1024, log.New(os.Stderr, "", 0))
}

func newTestPipeline(t *testing.T, store *fakeStore, model *verdictLLM, scorer fakeScorer, config Config) *Pipeline {
	t.Helper()
	logger := log.New(os.Stderr, "", 0)
	filter := NewRelevanceFilter(model, "", logger)
	return NewPipeline(store, fakeEmbedder{}, filter, scorer, newTestCache(t), config, logger)
}

func TestRetrieveFullPipeline(t *testing.T) {
	store := &fakeStore{docs: []vectorstore.ScoredDocument{
		scoredDoc("s1", "notice periods for tenants", 0.9),
		scoredDoc("s2", "irrelevant fishing rules", 0.8),
		scoredDoc("s3", "eviction procedure details", 0.7),
	}}
	// Rerank flips s1 and s3.
	scorer := fakeScorer{scores: []float64{0.2, 0.8, 0.5}}
	p := newTestPipeline(t, store, &verdictLLM{}, scorer, DefaultConfig("laws"))

	chunks, err := p.Retrieve(context.Background(), "what notice must a tenant give")
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2 after the filter dropped one", len(chunks))
	}
	if chunks[0].Text != "eviction procedure details" {
		t.Errorf("first chunk = %q, want the rerank winner", chunks[0].Text)
	}
	if chunks[1].Text != "notice periods for tenants" {
		t.Errorf("second chunk = %q", chunks[1].Text)
	}
	if chunks[0].Metadata["source"] != "s3" {
		t.Errorf("metadata not carried through: %v", chunks[0].Metadata)
	}
}

func TestRetrieveFilterFailureDegrades(t *testing.T) {
	store := &fakeStore{docs: []vectorstore.ScoredDocument{
		scoredDoc("s1", "doc one", 0.9),
		scoredDoc("s2", "doc two", 0.8),
	}}
	model := &verdictLLM{err: errors.New("model unavailable")}
	scorer := fakeScorer{scores: []float64{0.1, 0.9}}
	p := newTestPipeline(t, store, model, scorer, DefaultConfig("laws"))

	chunks, err := p.Retrieve(context.Background(), "query")
	if err != nil {
		t.Fatalf("degraded path must not surface an error, got %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2 from similarity+rerank", len(chunks))
	}
	if chunks[0].Text != "doc two" {
		t.Errorf("first chunk = %q, want the rerank winner", chunks[0].Text)
	}
}

func TestRetrieveRerankFailureKeepsOrder(t *testing.T) {
	store := &fakeStore{docs: []vectorstore.ScoredDocument{
		scoredDoc("s1", "doc one", 0.9),
		scoredDoc("s2", "doc two", 0.8),
	}}
	scorer := fakeScorer{err: errors.New("rerank service down")}
	p := newTestPipeline(t, store, &verdictLLM{}, scorer, DefaultConfig("laws"))

	chunks, err := p.Retrieve(context.Background(), "query")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 || chunks[0].Text != "doc one" || chunks[1].Text != "doc two" {
		t.Errorf("similarity order not preserved: %+v", chunks)
	}
}

func TestRetrieveSimilarityFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("store offline")}
	p := newTestPipeline(t, store, &verdictLLM{}, fakeScorer{}, DefaultConfig("laws"))

	_, err := p.Retrieve(context.Background(), "query")
	if !errors.Is(err, ErrRetrievalDegraded) {
		t.Errorf("err = %v, want ErrRetrievalDegraded", err)
	}
}

func TestRetrieveNoCandidates(t *testing.T) {
	p := newTestPipeline(t, &fakeStore{}, &verdictLLM{}, fakeScorer{}, DefaultConfig("laws"))

	chunks, err := p.Retrieve(context.Background(), "query")
	if err != nil {
		t.Fatal(err)
	}
	if chunks != nil {
		t.Errorf("chunks = %+v, want nil", chunks)
	}
}

func TestRetrieveCachesWhenConfigured(t *testing.T) {
	store := &fakeStore{docs: []vectorstore.ScoredDocument{
		scoredDoc("s1", "statute text", 0.9),
	}}
	config := DefaultConfig("laws")
	config.CacheResults = true
	p := newTestPipeline(t, store, &verdictLLM{}, fakeScorer{scores: []float64{0.5}}, config)

	first, err := p.Retrieve(context.Background(), "same query")
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Retrieve(context.Background(), "same query")
	if err != nil {
		t.Fatal(err)
	}

	if store.queries != 1 {
		t.Errorf("store searched %d times, want 1 with a warm cache", store.queries)
	}
	if len(first) != 1 || len(second) != 1 || first[0].Text != second[0].Text {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestRetrieveCacheDisabledHitsStore(t *testing.T) {
	store := &fakeStore{docs: []vectorstore.ScoredDocument{
		scoredDoc("s1", "procedure text", 0.9),
	}}
	p := newTestPipeline(t, store, &verdictLLM{}, fakeScorer{scores: []float64{0.5}}, DefaultConfig("procedures"))

	for i := 0; i < 2; i++ {
		if _, err := p.Retrieve(context.Background(), "same query"); err != nil {
			t.Fatal(err)
		}
	}
	if store.queries != 2 {
		t.Errorf("store searched %d times, want 2 with caching off", store.queries)
	}
}

func TestFilterTruncatesOnRuneBoundary(t *testing.T) {
	model := &verdictLLM{}
	f := NewRelevanceFilter(model, "", log.New(os.Stderr, "", 0))

	doc := scoredDoc("s1", strings.Repeat("é", 3000), 0.9)
	kept, err := f.Filter(context.Background(), "query", []vectorstore.ScoredDocument{doc})
	if err != nil {
		t.Fatal(err)
	}
	if len(kept) != 1 {
		t.Fatalf("kept %d docs, want 1", len(kept))
	}

	if len(model.prompts) != 1 {
		t.Fatalf("model called %d times, want 1", len(model.prompts))
	}
	prompt := model.prompts[0]
	if !utf8.ValidString(prompt) {
		t.Error("truncated prompt is not valid UTF-8")
	}
	if n := strings.Count(prompt, "é"); n != 2000 {
		t.Errorf("prompt carries %d runes of the document, want 2000", n)
	}
}

// shortScorer returns fewer scores than documents.
type shortScorer struct{}

func (shortScorer) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	return []float64{0.5}, nil
}

func TestRetrieveMismatchedRerankScoresKeepsOrder(t *testing.T) {
	store := &fakeStore{docs: []vectorstore.ScoredDocument{
		scoredDoc("s1", "doc one", 0.9),
		scoredDoc("s2", "doc two", 0.8),
	}}
	logger := log.New(os.Stderr, "", 0)
	p := NewPipeline(store, fakeEmbedder{}, NewRelevanceFilter(&verdictLLM{}, "", logger),
		shortScorer{}, newTestCache(t), DefaultConfig("laws"), logger)

	chunks, err := p.Retrieve(context.Background(), "query")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 || chunks[0].Text != "doc one" || chunks[1].Text != "doc two" {
		t.Errorf("similarity order not preserved: %+v", chunks)
	}
}

func TestRetrieveCorruptCacheEntryDeleted(t *testing.T) {
	store := &fakeStore{docs: []vectorstore.ScoredDocument{
		scoredDoc("s1", "statute text", 0.9),
	}}
	config := DefaultConfig("laws")
	config.CacheResults = true

	logger := log.New(os.Stderr, "", 0)
	cacheStore := newTestCache(t)
	p := NewPipeline(store, fakeEmbedder{}, NewRelevanceFilter(&verdictLLM{}, "", logger), fakeScorer{scores: []float64{0.5}}, cacheStore, config, logger)

	key := cache.QueryPrefix + cache.HashQuery("query") + ":laws"
	cacheStore.SetWithTTL(context.Background(), key, "not json", time.Hour)

	chunks, err := p.Retrieve(context.Background(), "query")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || chunks[0].Text != "statute text" {
		t.Errorf("corrupt cache entry not bypassed: %+v", chunks)
	}
	if store.queries != 1 {
		t.Errorf("store searched %d times, want 1", store.queries)
	}
}
