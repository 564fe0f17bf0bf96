// Package mcp exposes the assistant over the Model Context Protocol so
// MCP clients can ask questions against the indexed corpus.
package mcp

// AskInput defines the input parameters for the ask tool.
type AskInput struct {
	// Question is the user question to answer from the indexed documents.
	Question string `json:"question" jsonschema:"required,description=The question to answer from the indexed documents"`
}

// AskOutput contains the assistant's answer.
type AskOutput struct {
	// Answer is the full answer text.
	Answer string `json:"answer"`
	// Source is "faq" for exact FAQ matches, "documents" otherwise.
	Source string `json:"source"`
	// Passages is how many retrieved passages grounded the answer.
	Passages int `json:"passages"`
}

// SearchPassagesInput defines the input parameters for the
// search_passages tool.
type SearchPassagesInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"required,description=The semantic search query for finding relevant passages"`
	// Limit is the maximum number of passages to return.
	Limit int `json:"limit,omitempty" jsonschema:"minimum=1,maximum=20,default=3,description=Maximum number of passages to return"`
}

// SearchPassagesOutput contains the raw retrieval results.
type SearchPassagesOutput struct {
	// Passages is the list of matches ordered by similarity.
	Passages []Passage `json:"passages"`
	// Message provides informational context when there are no matches.
	Message string `json:"message,omitempty"`
}

// Passage is a single retrieved chunk with its similarity score.
type Passage struct {
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}
