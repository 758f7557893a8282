package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"auditrag/internal/domain"
)

// Params are the generation settings forwarded to the backend.
type Params struct {
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
}

// GeminiGenerator calls the Gemini generateContent endpoint.
type GeminiGenerator struct {
	apiKey  string
	model   string
	baseURL string
	params  Params
	client  *http.Client
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGeminiGenerator reads the API key from the named environment
// variable and returns a configured generator.
func NewGeminiGenerator(apiKeyEnv, model, baseURL string, params Params, timeout time.Duration) (*GeminiGenerator, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &GeminiGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		params:  params,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Generate sends the prompt and returns the generated text. A prompt
// the backend blocked comes back as *domain.GenerationBlockedError so
// the caller can surface the reason instead of a generic failure.
func (g *GeminiGenerator) Generate(prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     g.params.Temperature,
			TopK:            g.params.TopK,
			TopP:            g.params.TopP,
			MaxOutputTokens: g.params.MaxOutputTokens,
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return "", &domain.BackendError{Kind: domain.KindTimeout, Message: err.Error()}
		}
		return "", &domain.BackendError{Kind: domain.KindUnknown, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.BackendError{Kind: domain.KindUnknown, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", &domain.BackendError{Kind: domain.KindUnknown, Message: fmt.Sprintf("failed to parse response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		message := string(body)
		if genResp.Error != nil {
			message = genResp.Error.Message
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return "", &domain.BackendError{Kind: domain.KindRateLimited, Status: resp.StatusCode, Message: message}
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return "", &domain.BackendError{Kind: domain.KindInvalidRequest, Status: resp.StatusCode, Message: message}
		default:
			return "", &domain.BackendError{Kind: domain.KindUnknown, Status: resp.StatusCode, Message: message}
		}
	}

	if len(genResp.Candidates) > 0 && len(genResp.Candidates[0].Content.Parts) > 0 {
		if text := genResp.Candidates[0].Content.Parts[0].Text; text != "" {
			return text, nil
		}
	}

	if genResp.PromptFeedback != nil && genResp.PromptFeedback.BlockReason != "" {
		return "", &domain.GenerationBlockedError{Reason: genResp.PromptFeedback.BlockReason}
	}

	return "", &domain.BackendError{Kind: domain.KindUnknown, Message: "response contains no generated text"}
}

func (g *GeminiGenerator) ModelName() string {
	return g.model
}
