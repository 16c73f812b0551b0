// Package keynorm maps cache keys to remote document identifiers.
//
// Normalize is the single source of truth for identifier shape. Documents written
// under an older shape are detected with IsCanonical and moved by the reconciler.
package keynorm

import "strings"

const (
	// Placeholder replaces every character that is not allowed in a document ID.
	Placeholder = '|'

	// EmptyID is the identifier used for the empty key. The local cache
	// rejects the empty key, so only documents written by other clients can
	// land here. The literal key "__empty__" shares this id, the same way any
	// two keys that differ only in illegal characters share one.
	EmptyID = "__empty__"
)

// illegal lists characters rejected by document stores in identifiers
// (path separators, field path dots, brackets and hashes).
const illegal = "/\\.[]#"

var replacer = buildReplacer()

func buildReplacer() *strings.Replacer {
	pairs := make([]string, 0, len(illegal)*2)
	for _, r := range illegal {
		pairs = append(pairs, string(r), string(Placeholder))
	}
	return strings.NewReplacer(pairs...)
}

// Normalize returns the canonical document identifier for key.
// It is total, deterministic and idempotent: Normalize(Normalize(k)) == Normalize(k).
func Normalize(key string) string {
	if key == "" {
		return EmptyID
	}
	return replacer.Replace(key)
}

// IsCanonical reports whether docID is the canonical identifier for key.
func IsCanonical(docID, key string) bool {
	return docID == Normalize(key)
}

// HasIllegal reports whether s contains a character Normalize would replace.
func HasIllegal(s string) bool {
	return strings.ContainsAny(s, illegal)
}
