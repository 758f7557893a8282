package port

// Embedder generates a vector embedding for a single text.
type Embedder interface {
	// EmbedOne embeds one text. It returns domain.ErrEmptyInput when the
	// text is empty after whitespace normalization, and *domain.BackendError
	// on a non-success backend response.
	EmbedOne(text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
