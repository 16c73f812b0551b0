package storage

import (
	"context"

	"github.com/iudanet/daysync/internal/models"
)

// DocumentStorage defines interface for the per-user document collection
type DocumentStorage interface {
	// ListDocuments returns every document of the user ordered by id
	// Returns empty slice if the collection is empty
	ListDocuments(ctx context.Context, userID string) ([]*models.RemoteDocument, error)

	// GetDocument retrieves a single document
	// Returns ErrDocumentNotFound if document doesn't exist
	GetDocument(ctx context.Context, userID, docID string) (*models.RemoteDocument, error)

	// PutDocument upserts a document; WrittenAt is assigned by the storage.
	// Last write wins, no version checks are made.
	PutDocument(ctx context.Context, userID string, doc *models.RemoteDocument) (*models.RemoteDocument, error)

	// ApplyBatch applies all puts and deletes in one transaction.
	// Either every operation is applied or none is.
	ApplyBatch(ctx context.Context, userID string, puts []*models.RemoteDocument, deletes []string) error
}
