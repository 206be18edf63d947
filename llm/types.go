package llm

// DocType identifies the worksheet a document was derived from
type DocType string

const (
	DocTypeMedicine DocType = "medicine"
	DocTypeDisease  DocType = "disease"
	DocTypeSymptom  DocType = "symptom"
)

// Document represents one knowledge-base entry built from a single sheet row
type Document struct {
	ID       string                 `json:"id"`
	Content  string                 `json:"content"`
	DocType  DocType                `json:"doc_type"`
	Metadata map[string]interface{} `json:"metadata"`
}

// SearchResult represents a search result with relevance score
type SearchResult struct {
	Document Document
	Score    float32
}
