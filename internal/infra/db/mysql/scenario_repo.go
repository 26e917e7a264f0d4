package mysql

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/bizsimlab/venture-sim/internal/domain/scenarios"
)

type ScenarioRepository struct {
	db *sql.DB
}

func NewScenarioRepository(db *sql.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// Create inserts a new scenario row (pre-simulation, simulation is NULL)
func (r *ScenarioRepository) Create(ctx context.Context, s *domain.Scenario) error {
	const q = `
INSERT INTO scenarios
(id, user_id, title, budget, location, timeline, description, simulation, report_url, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?);
`
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

// Update rewrites the mutable columns, scoped by owner
func (r *ScenarioRepository) Update(ctx context.Context, s *domain.Scenario) error {
	const q = `
UPDATE scenarios
SET title=?, budget=?, location=?, timeline=?, description=?,
    simulation=?, report_url=?, updated_at=?
WHERE user_id=? AND id=?;
`
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

// FindAllByOwner returns the owner's scenarios, newest first
func (r *ScenarioRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]*domain.Scenario, error) {
	const q = `
SELECT id, user_id, title, budget, location, timeline, description, simulation, report_url, created_at, updated_at
FROM scenarios
WHERE user_id=? ORDER BY created_at DESC;
`
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

// FindOneByOwnerAndID returns (nil, nil) when no owned record matches
func (r *ScenarioRepository) FindOneByOwnerAndID(ctx context.Context, ownerID string, id domain.ScenarioID) (*domain.Scenario, error) {
	const q = `
SELECT id, user_id, title, budget, location, timeline, description, simulation, report_url, created_at, updated_at
FROM scenarios
WHERE user_id=? AND id=? LIMIT 1;
`
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

// Delete removes an owned scenario
func (r *ScenarioRepository) Delete(ctx context.Context, ownerID string, id domain.ScenarioID) error {
	const q = `DELETE FROM scenarios WHERE user_id=? AND id=?;`
	_, err := r.db.ExecContext(ctx, q, ownerID, id)
	return err
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
	parsed, err := scanSimulation(sim)
	if err != nil {
		return nil, err
	}
	s.Simulation = parsed
	s.ReportURL = reportURL.String
	return &s, nil
}
