package domain

import "strings"

// Source tags a chunk with the system that produced its original document.
type Source string

const (
	// SourceNotion is exported Notion notes.
	SourceNotion Source = "notion"

	// SourceX is X/Twitter posts.
	SourceX Source = "x"

	// SourceTrades is trading journals and exchange exports.
	SourceTrades Source = "trades"

	// SourceUnknown is anything the path conventions cannot classify.
	SourceUnknown Source = "unknown"
)

// GuessSource infers the source tag from path conventions.
// Paths are matched case-insensitively with forward slashes.
func GuessSource(path string) Source {
	p := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	switch {
	case strings.Contains(p, "/notion/"):
		return SourceNotion
	case strings.Contains(p, "/x/"), strings.Contains(p, "/twitter/"):
		return SourceX
	case strings.Contains(p, "/trades/"), strings.Contains(p, "/hyperliquid/"):
		return SourceTrades
	default:
		return SourceUnknown
	}
}
