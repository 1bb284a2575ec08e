package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/versekit/verse-router/internal/adapter"
	"github.com/versekit/verse-router/internal/config"
	"github.com/versekit/verse-router/internal/domain"
	"github.com/versekit/verse-router/internal/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newMockProviderServer simulates an OpenAI-compatible provider.
// Requests without a Bearer token get a 401; everything else gets a fixed
// fenced Swift reply.
func newMockProviderServer(requestCounter *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestCounter != nil {
			atomic.AddInt32(requestCounter, 1)
		}

		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "missing API key", "type": "invalid_request_error"},
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-mock",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": "```swift\nprivate let verses = [\n/* 1 */ \"mocked\",\n]\n```",
					},
					"finish_reason": "stop",
				},
			},
		})
	}))
}

func e2eConfig(baseURL string) *config.Configuration {
	return &config.Configuration{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 5000},
		Provider: config.ProviderConfig{
			Type:           domain.ProviderMistral,
			BaseURL:        baseURL,
			APIKey:         "test-key-for-e2e",
			TimeoutSeconds: 5,
		},
		Defaults: config.DefaultsConfig{
			Model:          "mistral-small-latest",
			MaxTokens:      256,
			Temperature:    0.7,
			VerseModel:     "mistral-small-latest",
			VerseMaxTokens: 512,
		},
	}
}

func e2eRouter(t *testing.T, cfg *config.Configuration, withProvider bool) *gin.Engine {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	opts := []handler.CompletionHandlerOption{handler.WithLogger(logger)}
	if withProvider {
		provider, err := adapter.FromConfig(cfg)
		if err != nil {
			t.Fatalf("FromConfig: %v", err)
		}
		opts = append(opts, handler.WithProvider(provider))
	}

	completions := handler.NewCompletionHandler(cfg, opts...)
	cache := handler.NewTransformCache(handler.WithCacheLogger(logger))
	return buildRouter(completions, cache, logger)
}

func doPost(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestE2EChatCompletionThroughProvider(t *testing.T) {
	var calls int32
	mock := newMockProviderServer(&calls)
	defer mock.Close()

	router := e2eRouter(t, e2eConfig(mock.URL), true)

	w := doPost(router, "/v1/chat/completions", map[string]any{
		"model": "mistral-small-latest",
		"messages": []map[string]string{
			{"role": "user", "content": "Hello, test message!"},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("provider calls = %d, want 1", calls)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if obj, _ := resp["object"].(string); obj != "chat.completion" {
		t.Errorf("object = %v", resp["object"])
	}
	content := resp["choices"].([]any)[0].(map[string]any)["message"].(map[string]any)["content"].(string)
	if !strings.Contains(content, "mocked") {
		t.Errorf("content = %q, want the mock reply", content)
	}
}

func TestE2ERenumberCachedSecondCall(t *testing.T) {
	var calls int32
	mock := newMockProviderServer(&calls)
	defer mock.Close()

	router := e2eRouter(t, e2eConfig(mock.URL), true)

	payload := map[string]any{"code": "private let verses = [\n    \"one\",\n]"}

	first := doPost(router, "/renumber-verses-stream", payload)
	second := doPost(router, "/renumber-verses-stream", payload)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d", first.Code, second.Code)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("provider calls = %d, want 1 (second served from cache)", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached response differs from original")
	}
}

func TestE2ELocalModeWithoutProvider(t *testing.T) {
	router := e2eRouter(t, e2eConfig(""), false)

	w := doPost(router, "/renumber-verses", map[string]any{
		"code": "private let verses = [\n    \"In the beginning\",\n    \"and then\",\n]",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	formatted, _ := resp["formatted_code"].(string)
	if !strings.Contains(formatted, "/* 1 */ \"In the beginning\",") {
		t.Errorf("formatted_code = %q, want sequential annotations", formatted)
	}
	if !strings.HasPrefix(formatted, "```swift\n") {
		t.Errorf("formatted_code should be fenced, got %q", formatted)
	}
}

func TestE2EHealthAndModels(t *testing.T) {
	router := e2eRouter(t, e2eConfig(""), false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}

	var health map[string]any
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health["ok"] != true {
		t.Errorf("ok = %v", health["ok"])
	}
	if health["configured"] != false {
		t.Errorf("configured = %v, want false without provider", health["configured"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/models", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("models status = %d", w.Code)
	}
}

func TestE2ECORSPreflights(t *testing.T) {
	router := e2eRouter(t, e2eConfig(""), false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1/chat/completions", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS allow-origin header")
	}
}
