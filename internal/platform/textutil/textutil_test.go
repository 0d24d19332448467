package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "shorter than limit", in: "abc", n: 5, want: "abc"},
		{name: "exact", in: "abc", n: 3, want: "abc"},
		{name: "multibyte", in: "жжжж", n: 2, want: "жж"},
		{name: "zero", in: "abc", n: 0, want: ""},
		{name: "negative", in: "abc", n: -1, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrefixRunes(tt.in, tt.n))
		})
	}
}

func TestChunks(t *testing.T) {
	assert.Nil(t, Chunks("", 10))
	assert.Equal(t, []string{"abc"}, Chunks("abc", 10))
	assert.Equal(t, []string{"ab", "cd", "e"}, Chunks("abcde", 2))

	long := strings.Repeat("ü", 25)
	chunks := Chunks(long, 10)
	assert.Len(t, chunks, 3)
	assert.Equal(t, long, strings.Join(chunks, ""))
	assert.Equal(t, strings.Repeat("ü", 5), chunks[2])
}
