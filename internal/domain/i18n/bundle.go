// internal/domain/i18n/bundle.go
package i18n

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Bundle is one language's translation tree
type Bundle struct {
	Lang     string                 `json:"lang"`
	Messages map[string]interface{} `json:"messages"`
}

func parseBundle(lang string, data []byte) (*Bundle, error) {
	var messages map[string]interface{}
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse %s bundle: %w", lang, err)
	}
	return &Bundle{Lang: lang, Messages: messages}, nil
}

// T resolves a dotted key. A missing or non-text key returns fallback,
// or the key itself when fallback is empty.
func (b *Bundle) T(key, fallback string) string {
	if b != nil {
		var node interface{} = b.Messages
		for _, part := range strings.Split(key, ".") {
			m, ok := node.(map[string]interface{})
			if !ok {
				node = nil
				break
			}
			node = m[part]
		}
		if s, ok := node.(string); ok && s != "" {
			return s
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
