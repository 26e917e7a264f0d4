package prompt

import (
	"fmt"

	domain "github.com/bizsimlab/venture-sim/internal/domain/scenarios"
)

// GetSystemPrompt constrains the assistant to emit only a JSON object of the
// fixed simulation schema.
func GetSystemPrompt() string {
	return `You are a business consultant. Only respond in valid JSON. Do NOT include any introduction or explanation. Use this format: {"recommendations": "...", "marketAnalysis": {...}, "risks": [...]}`
}

// GetUserPrompt embeds the scenario fields and repeats the exact target JSON
// schema to reinforce format compliance.
func GetUserPrompt(s *domain.Scenario) string {
	return fmt.Sprintf(`Analyze this business scenario and provide specific recommendations. Return ONLY the JSON object, no additional text:

Business Details:
- Title: %s
- Budget: $%.2f
- Location: %s
- Timeline: %s
- Description: %s

Return ONLY this JSON structure, no other text:
{
    "recommendations": "Your specific recommendations for this business",
    "marketAnalysis": {
        "marketSize": "small/medium/large",
        "competitionLevel": "low/medium/high",
        "growthPotential": "low/moderate/high"
    },
    "risks": [
        {
            "category": "risk category",
            "severity": "low/medium/high",
            "description": "specific risk description"
        }
    ]
}`, s.Title, s.Budget, s.Location, s.Timeline, s.Description)
}
