// Package textutil holds character-based string helpers shared by the
// extraction, summary and sync stages. Lengths are counted in runes.
package textutil

// PrefixRunes returns at most n leading characters of s.
func PrefixRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}

	count := 0

	for i := range s {
		if count == n {
			return s[:i]
		}

		count++
	}

	return s
}

// Chunks splits s into consecutive pieces of at most n characters.
// An empty string yields no chunks.
func Chunks(s string, n int) []string {
	if s == "" || n <= 0 {
		return nil
	}

	var chunks []string

	for s != "" {
		head := PrefixRunes(s, n)
		chunks = append(chunks, head)
		s = s[len(head):]
	}

	return chunks
}
