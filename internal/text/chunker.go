package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// BoundaryWindow is how far back from the budget boundary the chunker looks for a clean cut.
const BoundaryWindow = 200

// boundary matches a sentence terminator or a pause tag close followed by whitespace.
var boundary = regexp.MustCompile(`(?:[.?!]|/>)\s`)

// Split breaks text into chunks of at most maxChars runes, preferring to cut after
// sentence-ending punctuation or pause markup. When no boundary exists in the last
// BoundaryWindow runes before the budget, the chunk is hard-cut at exactly maxChars.
// Whitespace runs are collapsed to single spaces before splitting. Empty input
// returns no chunks.
func Split(s string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}

	clean := []rune(strings.Join(strings.Fields(s), " "))
	total := len(clean)

	var chunks []string
	start := 0
	for start < total {
		if total-start <= maxChars {
			chunks = appendChunk(chunks, string(clean[start:]))
			break
		}

		end := start + maxChars
		cut := end
		if at := lastBoundary(clean, start, end); at > start {
			cut = at
		}

		chunks = appendChunk(chunks, string(clean[start:cut]))
		start = cut
	}

	return chunks
}

// lastBoundary returns the rune offset just past the last boundary inside the
// search window ending at end, or -1 when there is none.
func lastBoundary(clean []rune, start, end int) int {
	windowStart := end - BoundaryWindow
	if windowStart < start {
		windowStart = start
	}

	window := string(clean[windowStart:end])
	matches := boundary.FindAllStringIndex(window, -1)
	if len(matches) == 0 {
		return -1
	}

	last := matches[len(matches)-1]
	return windowStart + utf8.RuneCountInString(window[:last[1]])
}

func appendChunk(chunks []string, chunk string) []string {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return chunks
	}
	return append(chunks, chunk)
}
