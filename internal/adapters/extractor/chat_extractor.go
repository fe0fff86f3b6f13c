package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"routeflow-service/internal/platform/httpx"
	"routeflow-service/internal/platform/obs"
	"routeflow-service/internal/ports"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"
)

const systemPrompt = `You are a logistics assistant specialised in named-entity extraction.
Read the user's message and extract every complete physical address it mentions.

OUTPUT RULES:
1. Return ONLY a valid JSON object.
2. The format must be exactly: {"addresses": ["Address 1", "Address 2"]}
3. Keep the addresses in the order they appear in the message.
4. If an address does not name a city, assume it is in %s.
5. Do not add explanations or any text outside the JSON.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type extractedAddresses struct {
	Addresses []string `json:"addresses"`
}

// ChatExtractor implements TextExtractor on top of an OpenAI-compatible
// chat-completions endpoint (Groq by default).
//
// The model is asked for a JSON object with deterministic sampling; upstream
// auth, model and rate-limit failures are mapped to the ports sentinel errors.
type ChatExtractor struct {
	retrier     *httpx.Retrier
	apiKey      string
	baseURL     string
	model       string
	defaultCity string
}

func NewChatExtractor(apiKey, baseURL, model, defaultCity string) (*ChatExtractor, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("LLM api key is empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	// Groq keys carry a fixed prefix; a mismatch usually means a pasted key
	// from another provider.
	if strings.Contains(baseURL, "groq.com") && !strings.HasPrefix(apiKey, "gsk_") {
		log.Warn().Msg("LLM api key does not start with gsk_; check the configured key")
	}

	return &ChatExtractor{
		retrier:     httpx.NewRetrier(&http.Client{Timeout: 30 * time.Second}),
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		defaultCity: defaultCity,
	}, nil
}

func (c *ChatExtractor) prompt() string {
	city := strings.TrimSpace(c.defaultCity)
	if city == "" {
		city = "the city mentioned elsewhere in the message"
	}
	return fmt.Sprintf(systemPrompt, city)
}

// ExtractAddresses asks the model for the addresses mentioned in text.
func (c *ChatExtractor) ExtractAddresses(ctx context.Context, text string) (_ []string, err error) {
	defer obs.Time(ctx, "extractor.chat")(&err)

	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.prompt()},
			{Role: "user", Content: text},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    0,
	})
	if err != nil {
		return nil, fmt.Errorf("extract addresses: marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	resp, err := c.retrier.Do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("extract addresses: %w", classify(err))
	}
	defer resp.Body.Close()

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("extract addresses: decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, errors.New("extract addresses: response has no choices")
	}

	var out extractedAddresses
	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("extract addresses: model returned invalid JSON: %w", err)
	}

	addresses := make([]string, 0, len(out.Addresses))
	for _, a := range out.Addresses {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}

	return addresses, nil
}

// classify maps upstream HTTP status codes to extractor sentinel errors.
func classify(err error) error {
	var se *httpx.StatusError
	if !errors.As(err, &se) {
		return err
	}

	switch se.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %v", ports.ErrExtractorUnauthenticated, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", ports.ErrExtractorModelUnavailable, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ports.ErrExtractorRateLimited, err)
	}
	return err
}
