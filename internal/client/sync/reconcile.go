package sync

import (
	"sort"

	"github.com/iudanet/daysync/internal/keynorm"
	"github.com/iudanet/daysync/internal/models"
)

// Plan computes the moves that bring every document to its canonical id.
//
// A document whose id differs from keynorm.Normalize(key) is moved. When several
// stale documents map to one id only the newest is written, the rest are deleted.
// When the canonical slot already holds a document at least as new, the stale
// documents are only deleted. This also applies when the holder belongs to a
// different key that normalizes to the same id: like ordinary pushes, the
// newest write owns the id. The result is empty once all ids are canonical.
func Plan(docs []models.RemoteDocument) *models.MigrationPlan {
	// occupied: канонические документы, которые останутся на месте
	occupied := make(map[string]*models.RemoteDocument, len(docs))
	stale := make(map[string][]*models.RemoteDocument)

	for i := range docs {
		doc := &docs[i]
		correctID := keynorm.Normalize(doc.Key)
		if doc.DocID == correctID {
			occupied[doc.DocID] = doc
			continue
		}
		stale[correctID] = append(stale[correctID], doc)
	}

	targets := make([]string, 0, len(stale))
	for id := range stale {
		targets = append(targets, id)
	}
	sort.Strings(targets)

	plan := &models.MigrationPlan{}
	for _, correctID := range targets {
		group := stale[correctID]
		sort.Slice(group, func(i, j int) bool { return group[i].IsNewerThan(group[j]) })

		winner := group[0]
		existing, ok := occupied[correctID]
		if ok && !winner.WrittenAt.After(existing.WrittenAt) {
			winner = nil
		}

		for _, doc := range group {
			if doc == winner {
				plan.Moves = append(plan.Moves, models.Move{
					FromDocID: doc.DocID,
					ToDocID:   correctID,
					Key:       doc.Key,
					Value:     doc.Value,
				})
				continue
			}
			plan.Moves = append(plan.Moves, models.Move{
				FromDocID:  doc.DocID,
				ToDocID:    correctID,
				DeleteOnly: true,
			})
		}
	}

	return plan
}

// CountNonCanonical returns how many documents are stored under a stale id
func CountNonCanonical(docs []models.RemoteDocument) int {
	n := 0
	for _, doc := range docs {
		if !keynorm.IsCanonical(doc.DocID, doc.Key) {
			n++
		}
	}
	return n
}
