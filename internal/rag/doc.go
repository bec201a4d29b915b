// Package rag handles ingestion of reference documents for retrieval.
// Only the interface and a mock implementation exist today; a vector
// store backed implementation can slot in behind the Ingestor interface.
package rag
