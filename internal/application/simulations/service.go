package simulations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizsimlab/venture-sim/internal/application"
	domai "github.com/bizsimlab/venture-sim/internal/domain/ai"
	domain "github.com/bizsimlab/venture-sim/internal/domain/scenarios"
)

// Service implements use-cases untuk Scenario simulation.
// Safe for concurrent use; all state lives in the repository.
type Service struct {
	Repo    domain.Repository
	AI      domai.Simulator
	Reports domain.ReportArchive // optional, nil disables archiving
	Clock   application.Clock
	Log     *zap.Logger
}

//
// ==== USE CASES ====
//

// Command to submit a scenario for simulation. Budget is a pointer so a
// missing field is distinguishable from an explicit zero.
type SubmitCommand struct {
	Title       string
	Budget      *float64
	Location    string
	Timeline    string
	Description string
}

// SubmitResult carries the final scenario state plus the simulation payload
// duplicated at the top level, so callers that only want the analysis don't
// have to dig into the nested scenario shape.
type SubmitResult struct {
	Scenario   *domain.Scenario         `json:"scenario"`
	Simulation *domain.SimulationResult `json:"simulation"`
}

// Submit validates the input, persists the scenario before the AI call, runs
// the simulation, and persists again with the result attached.
//
// The record is written first on purpose: the submission must survive even if
// the AI call fails catastrophically. A crash between the two writes leaves a
// scenario without a simulation, which is a valid, displayable state. If the
// second write fails the error is surfaced but the first write stands.
func (s *Service) Submit(ctx context.Context, ownerID string, cmd SubmitCommand) (SubmitResult, error) {
	if err := validate(cmd); err != nil {
		return SubmitResult{}, err
	}

	now := s.Clock.Now()
	scenario := &domain.Scenario{
		ID:          domain.ScenarioID(uuid.New().String()),
		UserID:      ownerID,
		Title:       strings.TrimSpace(cmd.Title),
		Budget:      *cmd.Budget,
		Location:    strings.TrimSpace(cmd.Location),
		Timeline:    strings.TrimSpace(cmd.Timeline),
		Description: strings.TrimSpace(cmd.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Repo.Create(ctx, scenario); err != nil {
		return SubmitResult{}, fmt.Errorf("saving scenario: %w", err)
	}

	// Simulator never fails outward; failure is encoded in the result.
	simulation := s.AI.Simulate(ctx, scenario)

	scenario.Simulation = simulation
	scenario.UpdatedAt = s.Clock.Now()

	s.archiveReport(ctx, scenario)

	if err := s.Repo.Update(ctx, scenario); err != nil {
		return SubmitResult{}, fmt.Errorf("saving simulation result: %w", err)
	}

	s.Log.Info("simulation completed",
		zap.String("scenario_id", string(scenario.ID)),
		zap.String("user_id", ownerID),
	)

	return SubmitResult{Scenario: scenario, Simulation: simulation}, nil
}

// List returns the caller's scenarios, most recently created first.
func (s *Service) List(ctx context.Context, ownerID string) ([]*domain.Scenario, error) {
	return s.Repo.FindAllByOwner(ctx, ownerID)
}

// Delete removes a scenario only if the caller owns it. A missing record and
// someone else's record produce the same ErrNotFound.
func (s *Service) Delete(ctx context.Context, ownerID string, id domain.ScenarioID) error {
	scenario, err := s.Repo.FindOneByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("looking up scenario: %w", err)
	}
	if scenario == nil {
		return domain.ErrNotFound
	}
	return s.Repo.Delete(ctx, ownerID, id)
}

// archiveReport uploads the final scenario report JSON, best effort. Archive
// failures are logged and never fail the submission.
func (s *Service) archiveReport(ctx context.Context, scenario *domain.Scenario) {
	if s.Reports == nil {
		return
	}
	data, err := json.Marshal(scenario)
	if err != nil {
		return
	}
	key := fmt.Sprintf("%s/%s.json", scenario.UserID, scenario.ID)
	url, err := s.Reports.Put(ctx, key, data)
	if err != nil {
		s.Log.Warn("report archive failed",
			zap.String("scenario_id", string(scenario.ID)),
			zap.Error(err),
		)
		return
	}
	scenario.ReportURL = url
}

func validate(cmd SubmitCommand) error {
	if strings.TrimSpace(cmd.Title) == "" ||
		cmd.Budget == nil ||
		strings.TrimSpace(cmd.Location) == "" ||
		strings.TrimSpace(cmd.Timeline) == "" ||
		strings.TrimSpace(cmd.Description) == "" {
		return domain.NewValidationError(
			"Please provide all required fields: title, budget, location, timeline, and description")
	}
	if len(strings.TrimSpace(cmd.Title)) < 3 {
		return domain.NewValidationError("Title must be at least 3 characters long")
	}
	if *cmd.Budget < 0 {
		return domain.NewValidationError("Budget cannot be negative")
	}
	return nil
}
