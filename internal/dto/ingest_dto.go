package dto

// PublishIngestDocumentMessage is the payload of one knowledge
// ingestion event carried over the in-process event bus.
type PublishIngestDocumentMessage struct {
	Domain   string `json:"domain"`
	Source   string `json:"source"`
	FilePath string `json:"file_path"`
}
