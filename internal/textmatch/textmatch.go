// Package textmatch implements the literal text operations behind note
// filtering, match highlighting, and bulk replacement.
//
// Terms are always plain text. Nothing here interprets pattern syntax, so a
// term such as "a.b(c" only ever matches those exact characters.
package textmatch

import (
	"strings"
	"unicode/utf8"
)

// Segment is a contiguous slice of rendered text.
type Segment struct {
	Text    string `json:"text"`
	Matched bool   `json:"matched"`
}

// Matches reports whether content contains term as a case-sensitive
// substring. An empty term matches everything.
func Matches(content, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(content, term)
}

// Count returns the number of non-overlapping case-sensitive occurrences of
// term in content. An empty term has no occurrences.
func Count(content, term string) int {
	if term == "" {
		return 0
	}
	return strings.Count(content, term)
}

// ReplaceAll replaces every non-overlapping case-sensitive occurrence of term
// with replacement, scanning left to right. An empty term leaves content
// unchanged.
func ReplaceAll(content, term, replacement string) string {
	if term == "" {
		return content
	}
	return strings.ReplaceAll(content, term, replacement)
}

// FirstLine returns the first line of content after trimming surrounding
// whitespace.
func FirstLine(content string) string {
	trimmed := strings.TrimSpace(content)
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		return strings.TrimRight(trimmed[:i], "\r")
	}
	return trimmed
}

// Highlight splits text into segments, marking every case-insensitive
// occurrence of term. The scan is left to right; once a match is taken the
// scan resumes after its end, so marked regions never overlap. Two matches
// that touch are separated by an empty unmatched segment. Joining the segment
// texts yields text unchanged.
func Highlight(text, term string) []Segment {
	if term == "" || text == "" {
		return []Segment{{Text: text}}
	}

	termRunes := utf8.RuneCountInString(term)
	var (
		out   []Segment
		start int // start of the pending unmatched run
		pos   int
	)
	for pos < len(text) {
		if end, ok := matchAt(text, pos, term, termRunes); ok {
			if start < pos || (len(out) > 0 && out[len(out)-1].Matched) {
				out = append(out, Segment{Text: text[start:pos]})
			}
			out = append(out, Segment{Text: text[pos:end], Matched: true})
			pos, start = end, end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	if start < len(text) {
		out = append(out, Segment{Text: text[start:]})
	}
	return out
}

// matchAt reports whether the runes of text starting at byte offset pos
// equal term under simple case folding, returning the byte offset just past
// the match. Folding is rune for rune, so a match spans exactly as many runes
// as term.
func matchAt(text string, pos int, term string, termRunes int) (int, bool) {
	end := pos
	for n := 0; n < termRunes; n++ {
		if end >= len(text) {
			return 0, false
		}
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	if !strings.EqualFold(text[pos:end], term) {
		return 0, false
	}
	return end, true
}
