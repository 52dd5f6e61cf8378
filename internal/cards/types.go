package cards

// QuizItem is a validated quiz card loaded from a content document.
type QuizItem struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	Slug           string  `json:"slug"`
	Body           string  `json:"body"`
	BodyHTML       string  `json:"bodyHtml,omitempty"`
	SourceURL      *string `json:"source,omitempty"`
	Subreddit      *string `json:"subreddit,omitempty"`
	VerdictSummary *string `json:"topCommentSummary,omitempty"`
	VerdictLabel   *string `json:"topCommentVerdict,omitempty"`
}

// Verdict returns the raw crowd verdict, or "" when the document has none.
func (q QuizItem) Verdict() string {
	if q.VerdictLabel == nil {
		return ""
	}
	return *q.VerdictLabel
}

// Summary returns the crowd commentary, or "" when the document has none.
func (q QuizItem) Summary() string {
	if q.VerdictSummary == nil {
		return ""
	}
	return *q.VerdictSummary
}

// Source returns the source URL, or "" when the document has none.
func (q QuizItem) Source() string {
	if q.SourceURL == nil {
		return ""
	}
	return *q.SourceURL
}

// ParsedItem is a document split into its metadata block and body.
type ParsedItem struct {
	Meta map[string]any
	Body string
}

// Diagnostic describes a document that was left out of the catalog.
type Diagnostic struct {
	File  string `json:"file"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Catalog is the result of one ingestion pass.
type Catalog struct {
	Items       []QuizItem   `json:"items"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}
