package storage

// Point is the unit persisted in the vector store: an opaque generated
// ID, the embedding vector, and the source chunk text as payload.
// Points are immutable; a fresh ingestion run replaces the whole
// collection instead of mutating them.
type Point struct {
	ID     string
	Vector []float32
	Text   string
}

// ScoredPassage is one similarity-search hit: the stored chunk text and
// its cosine similarity to the query vector.
type ScoredPassage struct {
	Text  string
	Score float32
}
