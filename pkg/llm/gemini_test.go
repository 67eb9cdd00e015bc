package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestGeminiGenerateWithSchema(t *testing.T) {
	var got map[string]any
	var path, key string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"role": "model", "parts": []map[string]any{
					{"text": `{"symbol":"NVDA",`},
					{"text": `"bullishPercent":72}`},
				}}},
			},
			"modelVersion": "gemini-3-flash-preview-001",
		})
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", srv.URL, 5*time.Second)
	resp, err := client.Generate(context.Background(), Request{
		Model:  "gemini-3-flash-preview",
		Prompt: "analyze NVDA",
		Schema: Object(Prop("symbol", String()), Prop("bullishPercent", Number())),
	})

	assert.Equal(t, nil, err)
	assert.Equal(t, "/models/gemini-3-flash-preview:generateContent", path)
	assert.Equal(t, "test-key", key)
	assert.Equal(t, `{"symbol":"NVDA","bullishPercent":72}`, resp.Text)
	assert.Equal(t, "gemini-3-flash-preview-001", resp.ModelUsed)

	cfg := got["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", cfg["responseMimeType"])
	schema := cfg["responseSchema"].(map[string]any)
	assert.Equal(t, "OBJECT", schema["type"])
	assert.Equal(t, []any{"symbol", "bullishPercent"}, schema["propertyOrdering"])
	_, hasTemp := cfg["temperature"]
	assert.Equal(t, false, hasTemp)
}

func TestGeminiGenerateText(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "Core facts first."}}}},
			},
		})
	}))
	defer srv.Close()

	client := NewGeminiClient("k", srv.URL, time.Second)
	resp, err := client.Generate(context.Background(), Request{
		Model:       "gemini-3-pro-preview",
		System:      "You are an analyst.",
		Prompt:      "What happened?",
		Temperature: Temperature(0.1),
	})

	assert.Equal(t, nil, err)
	assert.Equal(t, "Core facts first.", resp.Text)
	assert.Equal(t, "gemini-3-pro-preview", resp.ModelUsed)

	cfg := got["generationConfig"].(map[string]any)
	assert.Equal(t, 0.1, cfg["temperature"])
	_, hasSchema := cfg["responseSchema"]
	assert.Equal(t, false, hasSchema)
	assert.NotEqual(t, nil, got["systemInstruction"])
}

func TestGeminiNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient("k", srv.URL, time.Second)
	_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})

	assert.Equal(t, true, errors.Is(err, ErrEmptyResponse))
}

func TestGeminiHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewGeminiClient("k", srv.URL, time.Second)
	resp, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, resp == nil)
}
