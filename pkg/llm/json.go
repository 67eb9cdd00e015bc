package llm

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// DecodeJSON parses a model reply into v. The reply is trusted as-is: fields
// are not validated against the declared schema.
func DecodeJSON(text string, v any) error {
	content := extractJSON(cleanJSONResponse(text), openingDelimiter(v))
	if content == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}
	return nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// extractJSON cuts prose around the reply's JSON value. open is '[' for an
// array target and '{' otherwise; brackets in the prose before the value
// are skipped when the target is an object.
func extractJSON(content string, open byte) string {
	start := strings.IndexByte(content, open)
	if start < 0 {
		return content
	}
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(content, closer)
	if end > start {
		content = content[start : end+1]
	}
	return content
}

func openingDelimiter(v any) byte {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
		return '['
	}
	return '{'
}
