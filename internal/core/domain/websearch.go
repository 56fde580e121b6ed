package domain

// WebResult is one item returned by the web search service. Any field
// may be empty; composition degrades per field rather than dropping the
// result.
type WebResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}
