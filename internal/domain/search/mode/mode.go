package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Semantic ranks by cosine similarity over stored embeddings.
	Semantic Mode = "semantic"
	// Keyword ranks by case-insensitive term matching.
	Keyword Mode = "keyword"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Semantic || m == Keyword
}
