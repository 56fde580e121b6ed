// Package chunker provides fixed-budget text chunking with overlap.
package chunker

import "strings"

// DefaultMaxChars is the default character budget per chunk.
const DefaultMaxChars = 1200

// DefaultOverlap is the default number of characters shared between
// consecutive chunks, preserving local continuity for retrieval.
const DefaultOverlap = 120

// Chunker splits whitespace-normalised text into bounded chunks.
type Chunker struct {
	maxChars int
	overlap  int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChars sets the chunk character budget.
func WithMaxChars(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxChars = n
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks.
func WithOverlap(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlap = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxChars: DefaultMaxChars,
		overlap:  DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave forward progress.
	if c.overlap >= c.maxChars {
		c.overlap = c.maxChars / 4
	}

	return c
}

// Split normalises whitespace and slides a fixed window over the text.
// Short texts come back as a single chunk; empty texts produce none.
// Budgets count runes, not bytes, so CJK text is not over-split.
func (c *Chunker) Split(text string) []string {
	t := strings.Join(strings.Fields(text), " ")
	if t == "" {
		return nil
	}

	runes := []rune(t)
	if len(runes) <= c.maxChars {
		return []string{t}
	}

	var out []string
	start := 0
	for start < len(runes) {
		end := start + c.maxChars
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
		start = end - c.overlap
		if start < 0 {
			start = 0
		}
	}
	return out
}
