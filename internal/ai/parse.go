package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// suggestion is the JSON contract the model is instructed to return.
type suggestion struct {
	CategoryID string  `json:"categoria_id"`
	Confidence float64 `json:"confianca"`
	Reasoning  string  `json:"reasoning"`
}

// cleanMarkdownWrapper strips the ```json fences some models insist on
// emitting despite instructions.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}

// parseSuggestion parses the model output strictly. Anything that is not the
// agreed JSON object is a hard failure; guessing at malformed output would
// put invented categories in the database.
func parseSuggestion(content string) (*suggestion, error) {
	content = cleanMarkdownWrapper(content)

	var s suggestion
	if err := json.Unmarshal([]byte(content), &s); err != nil {
		return nil, fmt.Errorf("resposta do modelo não é JSON válido: %w", err)
	}

	if s.CategoryID == "" {
		return nil, fmt.Errorf("resposta do modelo sem categoria_id")
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return nil, fmt.Errorf("confiança fora do intervalo [0,1]: %v", s.Confidence)
	}

	return &s, nil
}
