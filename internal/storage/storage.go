package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// PlanArchive defines the interface for archiving externally generated plan
// documents to object storage. The raw payload is kept verbatim so the lossy
// materialization (rep ranges collapsed to a numeric target) stays
// recoverable.
type PlanArchive interface {
	// SaveDocument writes a document under the given object key.
	SaveDocument(ctx context.Context, objectKey string, body []byte, contentType string) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for the archived document.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an archived document.
	DeleteObject(ctx context.Context, objectKey string) error
}
