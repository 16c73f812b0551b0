package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/daysync/internal/models"
	"github.com/iudanet/daysync/internal/server/storage"
)

const upsertDocumentQuery = `
	INSERT INTO documents (user_id, doc_id, key, value, written_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (user_id, doc_id) DO UPDATE SET
		key = excluded.key,
		value = excluded.value,
		written_at = excluded.written_at
`

// ListDocuments returns every document of the user ordered by id
func (s *Storage) ListDocuments(ctx context.Context, userID string) ([]*models.RemoteDocument, error) {
	query := `
		SELECT doc_id, key, value, written_at
		FROM documents
		WHERE user_id = ?
		ORDER BY doc_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	docs := make([]*models.RemoteDocument, 0)
	for rows.Next() {
		doc := &models.RemoteDocument{}
		var writtenAt int64
		if err := rows.Scan(&doc.DocID, &doc.Key, &doc.Value, &writtenAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.WrittenAt = time.Unix(0, writtenAt).UTC()
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return docs, nil
}

// GetDocument retrieves a single document
func (s *Storage) GetDocument(ctx context.Context, userID, docID string) (*models.RemoteDocument, error) {
	query := `
		SELECT doc_id, key, value, written_at
		FROM documents
		WHERE user_id = ? AND doc_id = ?
	`

	doc := &models.RemoteDocument{}
	var writtenAt int64

	err := s.db.QueryRowContext(ctx, query, userID, docID).Scan(&doc.DocID, &doc.Key, &doc.Value, &writtenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	doc.WrittenAt = time.Unix(0, writtenAt).UTC()

	return doc, nil
}

// PutDocument upserts a document and stamps it with the server time
func (s *Storage) PutDocument(ctx context.Context, userID string, doc *models.RemoteDocument) (*models.RemoteDocument, error) {
	writtenAt := s.now().UTC()

	_, err := s.db.ExecContext(ctx, upsertDocumentQuery,
		userID,
		doc.DocID,
		doc.Key,
		doc.Value,
		writtenAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert document: %w", err)
	}

	return &models.RemoteDocument{
		DocID:     doc.DocID,
		Key:       doc.Key,
		Value:     doc.Value,
		WrittenAt: writtenAt,
	}, nil
}

// ApplyBatch applies puts and deletes in one transaction.
// Deletes run after puts, so a put and a delete of the same id leave no document.
func (s *Storage) ApplyBatch(ctx context.Context, userID string, puts []*models.RemoteDocument, deletes []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	writtenAt := s.now().UTC().UnixNano()

	for _, doc := range puts {
		if _, err = tx.ExecContext(ctx, upsertDocumentQuery, userID, doc.DocID, doc.Key, doc.Value, writtenAt); err != nil {
			return fmt.Errorf("failed to put document %q: %w", doc.DocID, err)
		}
	}

	for _, id := range deletes {
		if _, err = tx.ExecContext(ctx, `DELETE FROM documents WHERE user_id = ? AND doc_id = ?`, userID, id); err != nil {
			return fmt.Errorf("failed to delete document %q: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	return nil
}
