package rag

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Common errors returned by the rag package
var (
	// ErrNoDocuments is returned when an ingestion request carries no documents.
	ErrNoDocuments = errors.New("no documents to ingest")
)

// Document is one reference file to be made available for retrieval.
type Document struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Size     int    `json:"size"`
}

// Ingestor defines the interface for adding reference documents to the
// retrieval system backing future analyses.
type Ingestor interface {
	// Ingest processes the documents under the given tech area and
	// returns how many were accepted.
	Ingest(ctx context.Context, documents []Document, techArea string) (int, error)
}

// MockIngestor simulates document ingestion. A real implementation would
// chunk the text, embed it, and store the vectors; this one logs each
// document and reports success after a short delay so the API surface
// can be exercised end to end.
type MockIngestor struct {
	logger *slog.Logger

	// Delay is the simulated processing time per request.
	Delay time.Duration
}

var _ Ingestor = (*MockIngestor)(nil)

// NewMockIngestor creates a MockIngestor with the default simulated delay.
func NewMockIngestor(logger *slog.Logger) *MockIngestor {
	return &MockIngestor{
		logger: logger,
		Delay:  1500 * time.Millisecond,
	}
}

// Ingest implements Ingestor.
func (m *MockIngestor) Ingest(ctx context.Context, documents []Document, techArea string) (int, error) {
	if len(documents) == 0 {
		return 0, ErrNoDocuments
	}

	select {
	case <-time.After(m.Delay):
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	batchID := uuid.New()
	m.logger.InfoContext(ctx, "mock ingestion batch processed",
		"batch_id", batchID,
		"tech_area", techArea,
		"document_count", len(documents))

	for _, doc := range documents {
		m.logger.DebugContext(ctx, "ingested document",
			"batch_id", batchID,
			"filename", doc.Filename,
			"size_bytes", doc.Size)
	}

	return len(documents), nil
}
