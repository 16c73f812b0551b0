package models

import "time"

// CacheEntry представляет одну запись локального кэша устройства.
// Value хранит сериализованный JSON как есть.
type CacheEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RemoteDocument представляет документ в удаленном хранилище пользователя.
// После reconcile всегда выполняется DocID == keynorm.Normalize(Key).
type RemoteDocument struct {
	WrittenAt time.Time `json:"written_at"` // WrittenAt назначается сервером при записи
	DocID     string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
}

// IsNewerThan reports whether d was written after other.
// Equal timestamps are broken by DocID so that the choice is deterministic.
func (d *RemoteDocument) IsNewerThan(other *RemoteDocument) bool {
	if d.WrittenAt.After(other.WrittenAt) {
		return true
	}
	if d.WrittenAt.Before(other.WrittenAt) {
		return false
	}
	return d.DocID > other.DocID
}

// Move describes relocation of one document to its canonical identifier.
// When DeleteOnly is set the document at ToDocID already holds a newer payload
// and only FromDocID has to be removed.
type Move struct {
	FromDocID  string `json:"from_id"`
	ToDocID    string `json:"to_id"`
	Key        string `json:"key"`
	Value      string `json:"value"`
	DeleteOnly bool   `json:"delete_only"`
}

// MigrationPlan is the set of moves computed by one reconciliation pass.
// It is never persisted.
type MigrationPlan struct {
	Moves []Move
}

// Empty reports whether the plan has nothing to apply.
func (p *MigrationPlan) Empty() bool {
	return p == nil || len(p.Moves) == 0
}

// Puts returns moves that insert a document at the canonical identifier.
func (p *MigrationPlan) Puts() []Move {
	if p == nil {
		return nil
	}
	puts := make([]Move, 0, len(p.Moves))
	for _, m := range p.Moves {
		if !m.DeleteOnly {
			puts = append(puts, m)
		}
	}
	return puts
}

// Deletes returns stale identifiers removed by the plan.
// An identifier that another move writes to is not deleted: the server
// applies deletes after puts and would otherwise drop the fresh copy.
func (p *MigrationPlan) Deletes() []string {
	if p == nil {
		return nil
	}
	targets := make(map[string]struct{}, len(p.Moves))
	for _, m := range p.Moves {
		if !m.DeleteOnly {
			targets[m.ToDocID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(p.Moves))
	for _, m := range p.Moves {
		if _, ok := targets[m.FromDocID]; ok {
			continue
		}
		ids = append(ids, m.FromDocID)
	}
	return ids
}
