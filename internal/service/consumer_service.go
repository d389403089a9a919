package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"lexi-legal-be/internal/dto"
	"lexi-legal-be/pkg/embedding"
	"lexi-legal-be/pkg/extract"
	"lexi-legal-be/pkg/vectorstore"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService indexes published documents into the per-domain
// vector stores: extract, chunk, embed, add.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	extractor         *extract.Extractor
	embeddingProvider embedding.EmbeddingProvider
	stores            map[string]vectorstore.Store
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	extractor *extract.Extractor,
	embeddingProvider embedding.EmbeddingProvider,
	stores map[string]vectorstore.Store,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		extractor:         extractor,
		embeddingProvider: embeddingProvider,
		stores:            stores,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	store, ok := cs.stores[payload.Domain]
	if !ok {
		log.Printf("[ERROR] Unknown knowledge domain %q, dropping message", payload.Domain)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Indexing %s into domain %s", payload.FilePath, payload.Domain)

	text, err := cs.extractor.Extract(ctx, payload.FilePath)
	if err != nil {
		log.Printf("[ERROR] Extraction failed for %s: %v", payload.FilePath, err)
		msg.Nack() // Retriable
		return
	}

	chunks := extract.ChunkText(text, extract.DefaultChunkSize, extract.DefaultChunkOverlap)
	if len(chunks) == 0 {
		log.Printf("[WARN] No content extracted from %s", payload.FilePath)
		msg.Ack()
		return
	}

	docs := make([]vectorstore.Document, 0, len(chunks))
	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		resp, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Embedding chunk %d of %s failed: %v", i, payload.FilePath, err)
			msg.Nack()
			return
		}
		docs = append(docs, vectorstore.Document{
			ID:   fmt.Sprintf("%s#%d", payload.Source, i),
			Text: chunk,
			Metadata: map[string]string{
				"source":      payload.Source,
				"chunk_index": fmt.Sprintf("%d", i),
			},
		})
		embeddings = append(embeddings, resp.Embedding.Values)
	}

	if err := store.Add(ctx, docs, embeddings); err != nil {
		log.Printf("[ERROR] Failed to index %s: %v", payload.FilePath, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Indexed %d chunk(s) from %s", len(docs), payload.FilePath)
	msg.Ack()
}
