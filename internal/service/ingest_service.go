package service

import (
	"context"
	"encoding/json"

	"lexi-legal-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const IngestTopic = "knowledge.ingest"

type IIngestService interface {
	PublishDocument(ctx context.Context, domain, source, filePath string) error
}

type ingestService struct {
	pubSub *gochannel.GoChannel
}

func NewIngestService(pubSub *gochannel.GoChannel) IIngestService {
	return &ingestService{pubSub: pubSub}
}

func (s *ingestService) PublishDocument(ctx context.Context, domain, source, filePath string) error {
	payload := dto.PublishIngestDocumentMessage{
		Domain:   domain,
		Source:   source,
		FilePath: filePath,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), raw)
	return s.pubSub.Publish(IngestTopic, msg)
}
