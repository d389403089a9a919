package chromem

import (
	"context"
	"fmt"
	"log"
	"os"

	chromemgo "github.com/philippgille/chromem-go"

	"lexi-legal-be/pkg/vectorstore"
)

// Store is a directory-persisted vector store backed by chromem-go.
// Collections survive restarts as gob files under the configured dir,
// which is what lets a knowledge base be mounted or mirrored from blob
// storage as plain files.
type Store struct {
	collection *chromemgo.Collection
	logger     *log.Logger
}

var _ vectorstore.Store = &Store{}

func NewStore(dir, collectionName string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create vector dir %s: %w", dir, err)
	}

	db, err := chromemgo.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db at %s: %w", dir, err)
	}

	// Embeddings are always supplied by the caller; the embedding func
	// must never be reached.
	collection, err := db.GetOrCreateCollection(collectionName, nil, func(ctx context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("collection %s expects precomputed embeddings", collectionName)
	})
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", collectionName, err)
	}

	logger.Printf("[VECTOR] Opened chromem collection %q at %s (%d docs)", collectionName, dir, collection.Count())

	return &Store{
		collection: collection,
		logger:     logger,
	}, nil
}

func (s *Store) Add(ctx context.Context, docs []vectorstore.Document, embeddings [][]float32) error {
	if len(docs) != len(embeddings) {
		return fmt.Errorf("documents and embeddings length mismatch: %d vs %d", len(docs), len(embeddings))
	}

	chromemDocs := make([]chromemgo.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromemgo.Document{
			ID:        doc.ID,
			Content:   doc.Text,
			Metadata:  doc.Metadata,
			Embedding: embeddings[i],
		}
	}

	if err := s.collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

func (s *Store) SimilaritySearch(ctx context.Context, queryEmbedding []float32, k int) ([]vectorstore.ScoredDocument, error) {
	// chromem rejects k larger than the collection size
	if count := s.collection.Count(); k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, queryEmbedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	scored := make([]vectorstore.ScoredDocument, len(results))
	for i, res := range results {
		scored[i] = vectorstore.ScoredDocument{
			Document: vectorstore.Document{
				ID:       res.ID,
				Text:     res.Content,
				Metadata: res.Metadata,
			},
			Score: res.Similarity,
		}
	}
	return scored, nil
}
