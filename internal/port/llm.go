package port

// Generator produces an answer for a fully assembled prompt.
type Generator interface {
	// Generate returns the generated text. It returns
	// *domain.GenerationBlockedError when the backend refused the prompt
	// with a block reason, and *domain.BackendError on other failures.
	Generate(prompt string) (string, error)

	// ModelName returns the name of the generation model.
	ModelName() string
}
