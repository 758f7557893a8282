package embedding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"auditrag/internal/domain"
)

// GeminiEmbedder calls the Gemini embedContent endpoint one text at a
// time. Failures are classified into backend error kinds so the batch
// path can tell a dead credential from a transient rate limit.
type GeminiEmbedder struct {
	apiKey    string
	model     string
	baseURL   string
	dimension int
	client    *http.Client
}

type embedRequest struct {
	Model   string       `json:"model"`
	Content embedContent `json:"content"`
}

type embedContent struct {
	Parts []embedPart `json:"parts"`
}

type embedPart struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGeminiEmbedder reads the API key from the named environment
// variable and returns a configured embedder.
func NewGeminiEmbedder(apiKeyEnv, model, baseURL string, dimension int, timeout time.Duration) (*GeminiEmbedder, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1"
	}
	if dimension <= 0 {
		dimension = 768
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiEmbedder{
		apiKey:    apiKey,
		model:     model,
		baseURL:   baseURL,
		dimension: dimension,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// EmbedOne normalizes the text and embeds it. Empty-after-normalization
// text returns domain.ErrEmptyInput; backend failures return a
// *domain.BackendError with the kind mapped from the response.
func (e *GeminiEmbedder) EmbedOne(text string) ([]float32, error) {
	clean := strings.Join(strings.Fields(text), " ")
	if clean == "" {
		return nil, domain.ErrEmptyInput
	}

	reqBody := embedRequest{
		Model:   "models/" + e.model,
		Content: embedContent{Parts: []embedPart{{Text: clean}}},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", e.baseURL, e.model, e.apiKey)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return nil, &domain.BackendError{Kind: domain.KindTimeout, Message: err.Error()}
		}
		return nil, &domain.BackendError{Kind: domain.KindUnknown, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.BackendError{Kind: domain.KindUnknown, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, backendErrorFromStatus(resp.StatusCode, body)
	}

	var embResp embedResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, &domain.BackendError{
			Kind:    domain.KindUnknown,
			Message: fmt.Sprintf("failed to parse response: %v", err),
		}
	}
	if embResp.Error != nil {
		return nil, &domain.BackendError{Kind: domain.KindUnknown, Message: embResp.Error.Message}
	}

	values := embResp.Embedding.Values
	if len(values) == 0 {
		return nil, &domain.BackendError{Kind: domain.KindUnknown, Message: "response contains no embedding values"}
	}
	if len(values) != e.dimension {
		// Never let a mismatched vector into the index; scoring would
		// have to skip it anyway.
		return nil, &domain.BackendError{
			Kind:    domain.KindUnknown,
			Message: fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", e.dimension, len(values)),
		}
	}

	return values, nil
}

func (e *GeminiEmbedder) Dimension() int {
	return e.dimension
}

func (e *GeminiEmbedder) ModelName() string {
	return e.model
}

// backendErrorFromStatus maps HTTP status classes to error kinds:
// 429 is retriable, other 4xx mean the request itself is bad (wrong
// key, wrong format) and will not succeed on retry.
func backendErrorFromStatus(status int, body []byte) *domain.BackendError {
	message := parseErrorMessage(body)

	switch {
	case status == http.StatusTooManyRequests:
		return &domain.BackendError{Kind: domain.KindRateLimited, Status: status, Message: message}
	case status >= 400 && status < 500:
		return &domain.BackendError{Kind: domain.KindInvalidRequest, Status: status, Message: message}
	default:
		return &domain.BackendError{Kind: domain.KindUnknown, Status: status, Message: message}
	}
}

func parseErrorMessage(body []byte) string {
	var payload struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != nil {
		return payload.Error.Message
	}
	preview := string(body)
	if len(preview) > 200 {
		preview = preview[:200]
	}
	return preview
}
