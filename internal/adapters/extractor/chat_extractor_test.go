package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"routeflow-service/internal/ports"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T, handler http.HandlerFunc) *ChatExtractor {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	e, err := NewChatExtractor("gsk_test", srv.URL, "test-model", "São Paulo, SP")
	require.NoError(t, err)
	e.retrier.Backoff = time.Millisecond
	return e
}

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestChatExtractorExtractAddresses(t *testing.T) {
	var got chatRequest
	var auth string
	e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(completion(`{"addresses": ["Av. Paulista, 1000", " ", "Rua Augusta, 500"]}`)))
	})

	addrs, err := e.ExtractAddresses(context.Background(), "Coletar na Av. Paulista, 1000 e entregar na Rua Augusta, 500")
	require.NoError(t, err)

	assert.Equal(t, []string{"Av. Paulista, 1000", "Rua Augusta, 500"}, addrs)
	assert.Equal(t, "Bearer gsk_test", auth)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.Equal(t, 0.0, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "São Paulo, SP")
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestChatExtractorUpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthenticated", http.StatusUnauthorized, ports.ErrExtractorUnauthenticated},
		{"model missing", http.StatusNotFound, ports.ErrExtractorModelUnavailable},
		{"rate limited", http.StatusTooManyRequests, ports.ErrExtractorRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := e.ExtractAddresses(context.Background(), "Rua Augusta, 500")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestChatExtractorInvalidModelOutput(t *testing.T) {
	e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completion("Sure! Here are the addresses: ...")))
	})

	_, err := e.ExtractAddresses(context.Background(), "Rua Augusta, 500")
	assert.Error(t, err)
}

func TestChatExtractorNoChoices(t *testing.T) {
	e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := e.ExtractAddresses(context.Background(), "Rua Augusta, 500")
	assert.Error(t, err)
}

func TestChatExtractorBlankText(t *testing.T) {
	e := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	addrs, err := e.ExtractAddresses(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestNewChatExtractorDefaults(t *testing.T) {
	_, err := NewChatExtractor("", "", "", "")
	assert.Error(t, err)

	e, err := NewChatExtractor("gsk_x", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, e.baseURL)
	assert.Equal(t, DefaultModel, e.model)
	assert.NotContains(t, e.prompt(), "%s")
}
