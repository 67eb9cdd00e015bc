package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func newAnthropicTestServer(t *testing.T, reply string, body *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if body != nil {
			json.NewDecoder(r.Body).Decode(body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply))
	}))
}

func TestAnthropicGenerate(t *testing.T) {
	var body map[string]any
	srv := newAnthropicTestServer(t, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-haiku-4-5",
		"content": [{"type": "text", "text": "Rates "}, {"type": "text", "text": "hold."}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 3, "output_tokens": 2}
	}`, &body)
	defer srv.Close()

	client := NewAnthropicClient("test-key", srv.URL+"/", 5*time.Second)

	resp, err := client.Generate(context.Background(), Request{
		Model:       "claude-haiku-4-5",
		System:      "You are an analyst.",
		Prompt:      "Summarise.",
		Temperature: Temperature(0.1),
	})

	assert.Equal(t, nil, err)
	assert.Equal(t, "Rates hold.", resp.Text)
	assert.Equal(t, "claude-haiku-4-5", resp.ModelUsed)
	assert.Equal(t, "claude-haiku-4-5", body["model"])
	assert.Equal(t, float64(anthropicMaxTokens), body["max_tokens"])

	system := body["system"].([]any)
	assert.Equal(t, "You are an analyst.", system[0].(map[string]any)["text"])
}

func TestAnthropicGenerate_NoContent(t *testing.T) {
	srv := newAnthropicTestServer(t, `{
		"id": "msg_2",
		"type": "message",
		"role": "assistant",
		"model": "claude-haiku-4-5",
		"content": [],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 3, "output_tokens": 0}
	}`, nil)
	defer srv.Close()

	client := NewAnthropicClient("test-key", srv.URL+"/", 5*time.Second)

	_, err := client.Generate(context.Background(), Request{Model: "claude-haiku-4-5", Prompt: "hi"})

	assert.Equal(t, ErrEmptyResponse, err)
}
