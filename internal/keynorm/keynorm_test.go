package keynorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "plain key is unchanged", key: "todos-2025-06-01", want: "todos-2025-06-01"},
		{name: "slash dated key", key: "pomoSessions-6/1/2025", want: "pomoSessions-6|1|2025"},
		{name: "backslash", key: `a\b`, want: "a|b"},
		{name: "dots", key: "quote.idx", want: "quote|idx"},
		{name: "brackets and hash", key: "list[0]#x", want: "list|0||x"},
		{name: "only dots", key: "..", want: "||"},
		{name: "empty key maps to sentinel", key: "", want: EmptyID},
		{name: "placeholder kept", key: "todos|2025", want: "todos|2025"},
		{name: "unicode untouched", key: "дневник-🌷", want: "дневник-🌷"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.key))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	keys := []string{
		"", "habits", "todos-2025-06-01", "pomoSessions-6/1/2025", `a\b/c.d[e]#f`,
		EmptyID, "||", "wtasks-2025-W23", "/", "#", "a..b",
	}

	for _, k := range keys {
		once := Normalize(k)
		assert.Equal(t, once, Normalize(once), "key %q", k)
		assert.False(t, HasIllegal(once), "key %q", k)
	}
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("todos-2025-06-01", "todos-2025-06-01"))
	assert.False(t, IsCanonical("todos|2025|06|01", "todos-2025-06-01"))
	assert.True(t, IsCanonical("pomoSessions-6|1|2025", "pomoSessions-6/1/2025"))
	assert.False(t, IsCanonical("pomoSessions-6/1/2025", "pomoSessions-6/1/2025"))
	assert.True(t, IsCanonical(EmptyID, ""))
}
