package openai

import (
	"encoding/json"
	"strings"

	domain "github.com/bizsimlab/venture-sim/internal/domain/scenarios"
)

// parseSimulation recovers a SimulationResult from whatever the model wrote.
// Stages, first success wins:
//  1. parse the whole text as JSON
//  2. slice from the first '{' to the last '}' and parse that
//  3. structural fallback keeping the raw text as recommendations
func parseSimulation(text string) *domain.SimulationResult {
	if res, ok := decodeResult(text); ok {
		return res
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		if res, ok := decodeResult(text[start : end+1]); ok {
			return res
		}
	}

	return domain.FallbackResult(text)
}

func decodeResult(text string) (*domain.SimulationResult, bool) {
	var res domain.SimulationResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return nil, false
	}
	return &res, true
}
