package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/iudanet/daysync/internal/models"
	"github.com/iudanet/daysync/internal/server/storage"
	"github.com/iudanet/daysync/internal/validation"
	"github.com/iudanet/daysync/pkg/api"
)

// maxBatchBytes ограничивает размер тела batch запроса.
// Число операций не ограничено: миграция коммитится одним batch.
const maxBatchBytes int64 = 256 << 20

// DocumentHandler serves the per-user document collection
type DocumentHandler struct {
	logger        *slog.Logger
	storage       storage.DocumentStorage
	maxBatchBytes int64
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(logger *slog.Logger, storage storage.DocumentStorage) *DocumentHandler {
	return &DocumentHandler{
		logger:        logger,
		storage:       storage,
		maxBatchBytes: maxBatchBytes,
	}
}

// List обрабатывает GET /api/v1/documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	docs, err := h.storage.ListDocuments(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list documents", "error", err, "user_id", userID)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ListDocumentsResponse{Documents: make([]api.Document, 0, len(docs))}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, toAPIDocument(doc))
	}

	username, _ := GetUsername(ctx)
	h.logger.InfoContext(ctx, "documents listed", "user_id", userID, "username", username, "count", len(resp.Documents))
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/v1/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	docID := r.PathValue("id")
	if err := validation.ValidateDocumentID(docID); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := h.storage.GetDocument(ctx, userID, docID)
	if err != nil {
		if errors.Is(err, storage.ErrDocumentNotFound) {
			sendError(h.logger, w, "document not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get document", "error", err, "user_id", userID, "doc_id", docID)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toAPIDocument(doc), http.StatusOK)
}

// Put обрабатывает PUT /api/v1/documents/{id}
// Upsert без проверки версий: последняя запись побеждает
func (h *DocumentHandler) Put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	docID := r.PathValue("id")
	if err := validation.ValidateDocumentID(docID); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	var req api.PutDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode put request", "error", err)
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateValue(req.Value); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	saved, err := h.storage.PutDocument(ctx, userID, &models.RemoteDocument{
		DocID: docID,
		Key:   req.Key,
		Value: req.Value,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to put document", "error", err, "user_id", userID, "doc_id", docID)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.DebugContext(ctx, "document written", "user_id", userID, "doc_id", docID)
	sendJSON(h.logger, w, toAPIDocument(saved), http.StatusOK)
}

// Batch обрабатывает POST /api/v1/documents/batch
// Все вставки и удаления применяются атомарно
func (h *DocumentHandler) Batch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.BatchRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBatchBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.WarnContext(ctx, "batch request too large", "user_id", userID, "limit", tooLarge.Limit)
			sendError(h.logger, w, fmt.Sprintf("batch body must not exceed %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.WarnContext(ctx, "failed to decode batch request", "error", err)
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	puts := make([]*models.RemoteDocument, 0, len(req.Puts))
	for i, p := range req.Puts {
		if err := validation.ValidateDocumentID(p.ID); err != nil {
			sendError(h.logger, w, fmt.Sprintf("put %d: %v", i, err), http.StatusBadRequest)
			return
		}
		if err := validation.ValidateValue(p.Value); err != nil {
			sendError(h.logger, w, fmt.Sprintf("put %d: %v", i, err), http.StatusRequestEntityTooLarge)
			return
		}
		puts = append(puts, &models.RemoteDocument{DocID: p.ID, Key: p.Key, Value: p.Value})
	}
	for i, id := range req.Deletes {
		if err := validation.ValidateDocumentID(id); err != nil {
			sendError(h.logger, w, fmt.Sprintf("delete %d: %v", i, err), http.StatusBadRequest)
			return
		}
	}

	if err := h.storage.ApplyBatch(ctx, userID, puts, req.Deletes); err != nil {
		h.logger.ErrorContext(ctx, "failed to apply batch", "error", err, "user_id", userID)
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "batch applied",
		"user_id", userID,
		"written", len(puts),
		"deleted", len(req.Deletes))

	sendJSON(h.logger, w, api.BatchResponse{Written: len(puts), Deleted: len(req.Deletes)}, http.StatusOK)
}

func toAPIDocument(doc *models.RemoteDocument) api.Document {
	return api.Document{
		ID:        doc.DocID,
		Key:       doc.Key,
		Value:     doc.Value,
		WrittenAt: doc.WrittenAt,
	}
}
