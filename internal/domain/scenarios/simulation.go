package scenarios

import "fmt"

// MarketAnalysis qualitative ratings value object
type MarketAnalysis struct {
	MarketSize       string `json:"marketSize"`
	CompetitionLevel string `json:"competitionLevel"`
	GrowthPotential  string `json:"growthPotential"`
}

// Risk entry inside a simulation result
type Risk struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// SimulationResult is the AI-produced feasibility analysis. It is never
// addressed on its own, always embedded inside a Scenario. The JSON tags are
// the wire schema the model is asked to produce, so a well-formed completion
// round-trips without loss.
type SimulationResult struct {
	Recommendations string         `json:"recommendations"`
	MarketAnalysis  MarketAnalysis `json:"marketAnalysis"`
	Risks           []Risk         `json:"risks"`
}

func neutralMarket() MarketAnalysis {
	return MarketAnalysis{
		MarketSize:       "medium",
		CompetitionLevel: "medium",
		GrowthPotential:  "moderate",
	}
}

// FallbackResult keeps the raw model output as the recommendations text when
// no JSON object could be recovered from it.
func FallbackResult(raw string) *SimulationResult {
	return &SimulationResult{
		Recommendations: raw,
		MarketAnalysis:  neutralMarket(),
		Risks: []Risk{{
			Category:    "General",
			Severity:    "medium",
			Description: "Market conditions and competition",
		}},
	}
}

// ServiceFailureResult is returned when the AI endpoint itself failed
// (transport error, non-2xx, timeout). The underlying error message is kept
// in the recommendations text for diagnosability.
func ServiceFailureResult(err error) *SimulationResult {
	return &SimulationResult{
		Recommendations: fmt.Sprintf(
			"We're having trouble generating recommendations right now. Please try again in a few moments. (Error: %v)", err),
		MarketAnalysis: neutralMarket(),
		Risks: []Risk{{
			Category:    "System",
			Severity:    "high",
			Description: "Temporary service disruption",
		}},
	}
}
