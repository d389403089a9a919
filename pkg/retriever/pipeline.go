package retriever

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"lexi-legal-be/pkg/cache"
	"lexi-legal-be/pkg/embedding"
	"lexi-legal-be/pkg/rerank"
	"lexi-legal-be/pkg/vectorstore"
)

// ErrRetrievalDegraded marks a pipeline that fell back to the minimal
// similarity+rerank path. It is logged, not surfaced to tool callers.
var ErrRetrievalDegraded = errors.New("retrieval degraded")

// RetrievedChunk is one retrieval result. The slice of these is what
// gets serialized into the query cache.
type RetrievedChunk struct {
	Metadata map[string]string `json:"metadata"`
	Text     string            `json:"text"`
}

// Config encapsulates per-domain retrieval parameters.
type Config struct {
	Domain       string // cache key suffix, e.g. "laws"
	SearchK      int    // similarity search fan-out
	TopN         int    // results surviving the rerank
	CacheResults bool   // statutes cache, procedures always hit the live pipeline
}

func DefaultConfig(domain string) Config {
	return Config{
		Domain:  domain,
		SearchK: 7,
		TopN:    3,
	}
}

// Pipeline is the three-stage retriever: similarity search, LLM
// relevance filter, cross-encoder rerank.
type Pipeline struct {
	store    vectorstore.Store
	embedder embedding.EmbeddingProvider
	filter   *RelevanceFilter
	scorer   rerank.Scorer
	cache    *cache.RedisCache
	config   Config
	logger   *log.Logger
}

func NewPipeline(
	store vectorstore.Store,
	embedder embedding.EmbeddingProvider,
	filter *RelevanceFilter,
	scorer rerank.Scorer,
	cacheStore *cache.RedisCache,
	config Config,
	logger *log.Logger,
) *Pipeline {
	return &Pipeline{
		store:    store,
		embedder: embedder,
		filter:   filter,
		scorer:   scorer,
		cache:    cacheStore,
		config:   config,
		logger:   logger,
	}
}

// Retrieve runs the full pipeline for a query. When any middle stage
// fails it degrades to similarity+rerank and returns whatever partial
// results it has, rather than failing the caller's tool call.
func (p *Pipeline) Retrieve(ctx context.Context, query string) ([]RetrievedChunk, error) {
	cacheKey := cache.QueryPrefix + cache.HashQuery(query) + ":" + p.config.Domain

	if p.config.CacheResults {
		if cached, ok := p.cache.Get(ctx, cacheKey); ok {
			var chunks []RetrievedChunk
			if err := json.Unmarshal([]byte(cached), &chunks); err == nil {
				p.logger.Printf("[RETRIEVE:%s] Using cached query result", p.config.Domain)
				return chunks, nil
			}
			// A corrupt entry is worse than a miss
			p.cache.Delete(ctx, cacheKey)
		}
		p.logger.Printf("[RETRIEVE:%s] Cache miss", p.config.Domain)
	}

	candidates, err := p.similaritySearch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity search: %v", ErrRetrievalDegraded, err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	filtered, err := p.filter.Filter(ctx, query, candidates)
	if err != nil {
		p.logger.Printf("[RETRIEVE:%s] Relevance filter failed (%v), degrading to similarity+rerank", p.config.Domain, err)
		return p.rerankTop(ctx, query, candidates), nil
	}
	if len(filtered) == 0 {
		return nil, nil
	}

	chunks := p.rerankTop(ctx, query, filtered)

	if p.config.CacheResults {
		if serialized, err := json.Marshal(chunks); err == nil {
			p.cache.SetWithTTL(ctx, cacheKey, string(serialized), p.cache.DefaultTTL())
			p.logger.Printf("[RETRIEVE:%s] Cached new query result", p.config.Domain)
		}
	}

	return chunks, nil
}

func (p *Pipeline) similaritySearch(ctx context.Context, query string) ([]vectorstore.ScoredDocument, error) {
	embeddingRes, err := p.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	results, err := p.store.SimilaritySearch(ctx, embeddingRes.Embedding.Values, p.config.SearchK)
	if err != nil {
		return nil, err
	}

	p.logger.Printf("[RETRIEVE:%s] Similarity search returned %d documents", p.config.Domain, len(results))
	return results, nil
}

// rerankTop keeps the TopN documents by cross-encoder score, descending.
// A scorer failure keeps the incoming order instead of dropping results.
func (p *Pipeline) rerankTop(ctx context.Context, query string, docs []vectorstore.ScoredDocument) []RetrievedChunk {
	type rankedDoc struct {
		doc   vectorstore.ScoredDocument
		score float64
	}

	ranked := make([]rankedDoc, len(docs))

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
		ranked[i] = rankedDoc{doc: d, score: float64(d.Score)}
	}

	scores, err := p.scorer.Score(ctx, query, texts)
	if err != nil {
		p.logger.Printf("[RETRIEVE:%s] Rerank failed (%v), keeping similarity order", p.config.Domain, err)
	} else if len(scores) != len(ranked) {
		p.logger.Printf("[RETRIEVE:%s] Rerank returned %d scores for %d documents, keeping similarity order", p.config.Domain, len(scores), len(ranked))
	} else {
		for i := range ranked {
			ranked[i].score = scores[i]
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].score > ranked[j].score
		})
	}

	topN := p.config.TopN
	if topN <= 0 || topN > len(ranked) {
		topN = len(ranked)
	}

	chunks := make([]RetrievedChunk, topN)
	for i := 0; i < topN; i++ {
		chunks[i] = RetrievedChunk{
			Metadata: ranked[i].doc.Metadata,
			Text:     ranked[i].doc.Text,
		}
	}
	return chunks
}
