package inline

import (
	"unicode"
	"unicode/utf8"
)

// Run describes a maximal run of one delimiter character.
type Run struct {
	Count         int
	LeftFlanking  bool
	RightFlanking bool
	PunctBefore   bool
	PunctAfter    bool
}

// ScanRun counts up to maxLen copies of c starting at start and classifies
// the run's flanking. The start and end of the chunk count as whitespace.
// A non-positive maxLen means no limit.
func ScanRun(chunk Chunk, start, maxLen int, c byte) Run {
	if maxLen <= 0 {
		maxLen = chunk.Len()
	}

	end := start
	for end < chunk.Len() && end-start < maxLen && chunk.At(end) == c {
		end++
	}

	before, after := ' ', ' '
	if start > 0 {
		before, _ = utf8.DecodeLastRune(chunk.Slice(0, start))
	}
	if end < chunk.Len() {
		after, _ = utf8.DecodeRune(chunk.Slice(end, chunk.Len()))
	}

	left, right := Flanking(before, after)

	return Run{
		Count:         end - start,
		LeftFlanking:  left,
		RightFlanking: right,
		PunctBefore:   IsUnicodePunct(before),
		PunctAfter:    IsUnicodePunct(after),
	}
}

// Flanking classifies a delimiter run given the runes around it.
//
// A run is left-flanking if it is not followed by whitespace, and either not
// followed by punctuation or preceded by whitespace or punctuation.
// Right-flanking is the mirror image.
func Flanking(before, after rune) (left, right bool) {
	left = !IsUnicodeSpace(after) &&
		(!IsUnicodePunct(after) || IsUnicodeSpace(before) || IsUnicodePunct(before))
	right = !IsUnicodeSpace(before) &&
		(!IsUnicodePunct(before) || IsUnicodeSpace(after) || IsUnicodePunct(after))
	return left, right
}

// IsPunct reports whether c is ASCII punctuation.
func IsPunct(c byte) bool {
	return '!' <= c && c <= '/' || ':' <= c && c <= '@' || '[' <= c && c <= '`' || '{' <= c && c <= '~'
}

// IsSpace reports whether c is ASCII whitespace.
func IsSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// IsUnicodeSpace reports whether r is whitespace for flanking purposes.
func IsUnicodeSpace(r rune) bool {
	if r < utf8.RuneSelf {
		return IsSpace(byte(r))
	}
	return unicode.In(r, unicode.Zs)
}

// IsUnicodePunct reports whether r is punctuation for flanking purposes.
// Symbols count as punctuation.
func IsUnicodePunct(r rune) bool {
	if r < utf8.RuneSelf {
		return IsPunct(byte(r))
	}
	return unicode.In(r, unicode.Punct, unicode.Symbol)
}
