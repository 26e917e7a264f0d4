package ai

import (
	"context"

	"github.com/bizsimlab/venture-sim/internal/domain/scenarios"
)

// Simulator runs the feasibility analysis for a scenario. There is no error
// return on purpose: every failure mode (unreachable endpoint, timeout,
// malformed output) degrades to a structurally valid SimulationResult, so
// callers never need a nil-check or a failure branch.
type Simulator interface {
	Simulate(ctx context.Context, s *scenarios.Scenario) *scenarios.SimulationResult
}
