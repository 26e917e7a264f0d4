package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	domain "github.com/bizsimlab/venture-sim/internal/domain/scenarios"
)

type ScenarioRepository struct{ db *sql.DB }

func NewScenarioRepository(db *sql.DB) *ScenarioRepository { return &ScenarioRepository{db: db} }

func (r *ScenarioRepository) Create(ctx context.Context, s *domain.Scenario) error {
	const q = `
INSERT INTO scenarios
(id, user_id, title, budget, location, timeline, description, simulation, report_url, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11);`
	sim, err := marshalSimulation(s.Simulation)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		s.ID, s.UserID, s.Title, s.Budget, s.Location, s.Timeline, s.Description,
		sim, s.ReportURL, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *ScenarioRepository) Update(ctx context.Context, s *domain.Scenario) error {
	const q = `
UPDATE scenarios
SET title=$1, budget=$2, location=$3, timeline=$4, description=$5,
    simulation=$6, report_url=$7, updated_at=$8
WHERE user_id=$9 AND id=$10;`
	sim, err := marshalSimulation(s.Simulation)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		s.Title, s.Budget, s.Location, s.Timeline, s.Description,
		sim, s.ReportURL, s.UpdatedAt,
		s.UserID, s.ID,
	)
	return err
}

func (r *ScenarioRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]*domain.Scenario, error) {
	const q = `
SELECT id, user_id, title, budget, location, timeline, description, simulation, report_url, created_at, updated_at
FROM scenarios
WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Scenario
	for rows.Next() {
		s, err := scanScenario(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ScenarioRepository) FindOneByOwnerAndID(ctx context.Context, ownerID string, id domain.ScenarioID) (*domain.Scenario, error) {
	const q = `
SELECT id, user_id, title, budget, location, timeline, description, simulation, report_url, created_at, updated_at
FROM scenarios
WHERE user_id=$1 AND id=$2 LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, ownerID, id)
	s, err := scanScenario(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ScenarioRepository) Delete(ctx context.Context, ownerID string, id domain.ScenarioID) error {
	const q = `DELETE FROM scenarios WHERE user_id=$1 AND id=$2;`
	_, err := r.db.ExecContext(ctx, q, ownerID, id)
	return err
}

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

func scanScenario(scan func(dest ...any) error) (*domain.Scenario, error) {
	var s domain.Scenario
	var sim sql.NullString
	var reportURL sql.NullString
	if err := scan(
		&s.ID, &s.UserID, &s.Title, &s.Budget, &s.Location, &s.Timeline, &s.Description,
		&sim, &reportURL, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if sim.Valid && sim.String != "" {
		var parsed domain.SimulationResult
		if err := json.Unmarshal([]byte(sim.String), &parsed); err != nil {
			return nil, err
		}
		s.Simulation = &parsed
	}
	s.ReportURL = reportURL.String
	return &s, nil
}
