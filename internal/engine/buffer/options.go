package buffer

import "strings"

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending restored by Export.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithDetectedLineEnding detects the line ending of text and uses it for
// Export. Mixed content resolves to the most frequent style.
func WithDetectedLineEnding(text string) Option {
	return func(b *Buffer) {
		b.lineEnding = DetectLineEnding(text)
	}
}

// DetectLineEnding returns the dominant line ending style in text.
// Text without line breaks reports LineEndingLF.
func DetectLineEnding(text string) LineEnding {
	crlf := strings.Count(text, "\r\n")
	cr := strings.Count(text, "\r") - crlf
	lf := strings.Count(text, "\n") - crlf

	switch {
	case crlf > lf && crlf >= cr:
		return LineEndingCRLF
	case cr > lf && cr > crlf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}
