package mysql

import (
	"database/sql"
	"encoding/json"

	domain "github.com/bizsimlab/venture-sim/internal/domain/scenarios"
)

// marshalSimulation serializes the simulation payload for the JSON column.
// A scenario without a result stores NULL.
func marshalSimulation(sim *domain.SimulationResult) (any, error) {
	if sim == nil {
		return nil, nil
	}
	b, err := json.Marshal(sim)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanSimulation(raw sql.NullString) (*domain.SimulationResult, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var sim domain.SimulationResult
	if err := json.Unmarshal([]byte(raw.String), &sim); err != nil {
		return nil, err
	}
	return &sim, nil
}
