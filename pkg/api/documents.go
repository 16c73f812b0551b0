package api

import "time"

// Document представляет один документ удаленного хранилища
type Document struct {
	WrittenAt time.Time `json:"written_at"` // назначается сервером
	ID        string    `json:"id"`         // нормализованный ключ
	Key       string    `json:"key"`        // исходный ключ кэша
	Value     string    `json:"value"`      // сериализованное значение
}

// PutDocumentRequest представляет тело PUT /api/v1/documents/{id}
type PutDocumentRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ListDocumentsResponse представляет ответ GET /api/v1/documents
type ListDocumentsResponse struct {
	Documents []Document `json:"documents"`
}

// BatchPut представляет вставку внутри атомарного batch
type BatchPut struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BatchRequest представляет атомарный набор вставок и удалений.
// Сервер применяет его в одной транзакции: либо все операции, либо ни одной.
type BatchRequest struct {
	Puts    []BatchPut `json:"puts"`
	Deletes []string   `json:"deletes"`
}

// BatchResponse представляет результат применения batch
type BatchResponse struct {
	Written int `json:"written"`
	Deleted int `json:"deleted"`
}

// DeviceIDHeader carries the client device id on every request
const DeviceIDHeader = "X-Device-ID"
