package llm

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestSchemaGeminiEncoding(t *testing.T) {
	s := ArrayOf(Object(
		Prop("concept", String()),
		Prop("trends", ArrayOf(Object(Prop("volume", Number())))),
	).Require("concept", "trends"))

	raw, err := json.Marshal(s)
	assert.Equal(t, nil, err)

	var doc map[string]any
	json.Unmarshal(raw, &doc)
	assert.Equal(t, "ARRAY", doc["type"])
	items := doc["items"].(map[string]any)
	assert.Equal(t, "OBJECT", items["type"])
	assert.Equal(t, []any{"concept", "trends"}, items["required"])
}

func TestSchemaJSONSchema(t *testing.T) {
	s := Object(
		Prop("sentiment", Enum("positive", "negative", "neutral")),
		Prop("likes", Integer()),
	)

	doc := s.JSONSchema()
	assert.Equal(t, "object", doc["type"])
	props := doc["properties"].(map[string]any)
	sentiment := props["sentiment"].(map[string]any)
	assert.Equal(t, "string", sentiment["type"])
	assert.Equal(t, []string{"positive", "negative", "neutral"}, sentiment["enum"])

	instr := s.Instruction()
	assert.Equal(t, true, strings.HasPrefix(instr, "Output JSON only"))
	assert.Equal(t, true, strings.Contains(instr, `"enum"`))
}

func TestSystemWithSchema(t *testing.T) {
	assert.Equal(t, "sys", systemWithSchema(Request{System: "sys"}))

	withSchema := systemWithSchema(Request{System: "sys", Schema: Object(Prop("a", String()))})
	assert.Equal(t, true, strings.HasPrefix(withSchema, "sys\n\nOutput JSON only"))

	onlySchema := systemWithSchema(Request{Schema: String()})
	assert.Equal(t, true, strings.HasPrefix(onlySchema, "Output JSON only"))
}

func TestNewProviders(t *testing.T) {
	tests := []struct {
		provider string
		wantErr  bool
	}{
		{provider: ProviderGemini},
		{provider: ""},
		{provider: ProviderOpenAI},
		{provider: ProviderAnthropic},
		{provider: "bard", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			g, err := New(Config{Provider: tt.provider, APIKey: "k", Timeout: time.Second})
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.wantErr, g == nil)
		})
	}

	_, err := New(Config{Provider: ProviderGemini})
	assert.NotEqual(t, nil, err)
}

func TestDefaultModels(t *testing.T) {
	deep, fast := DefaultModels(ProviderGemini)
	assert.Equal(t, "gemini-3-pro-preview", deep)
	assert.Equal(t, "gemini-3-flash-preview", fast)

	deep, fast = DefaultModels(ProviderOpenAI)
	assert.NotEqual(t, "", deep)
	assert.NotEqual(t, deep, fast)
}

type countingGenerator struct {
	calls int
}

func (c *countingGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	c.calls++
	return &Response{Text: "ok", ModelUsed: req.Model}, nil
}

func TestRateLimited(t *testing.T) {
	inner := &countingGenerator{}

	assert.Equal(t, Generator(inner), RateLimited(inner, 0))

	limited := RateLimited(inner, 600)
	for i := 0; i < 3; i++ {
		_, err := limited.Generate(context.Background(), Request{Model: "m"})
		assert.Equal(t, nil, err)
	}
	assert.Equal(t, 3, inner.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	slow := RateLimited(&countingGenerator{}, 1)
	slow.Generate(ctx, Request{})
	_, err := slow.Generate(ctx, Request{})
	assert.NotEqual(t, nil, err)
}
