package scenarios

import (
	"time"
)

// ID tipe untuk Scenario
type ScenarioID string

// Aggregate Root: Scenario
// A scenario is always created with the five business fields validated;
// Simulation is attached afterwards and stays nil if the record was written
// but the analysis never completed.
type Scenario struct {
	ID          ScenarioID        `json:"id"`
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Budget      float64           `json:"budget"`
	Location    string            `json:"location"`
	Timeline    string            `json:"timeline"`
	Description string            `json:"description"`
	Simulation  *SimulationResult `json:"simulation,omitempty"`
	ReportURL   string            `json:"report_url,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
