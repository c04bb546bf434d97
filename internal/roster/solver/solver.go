// Package solver wraps the CP-SAT solve step: configuring the time
// budget, running the solver, and classifying its outcome.
package solver

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"

	"github.com/rosterforge/roster-engine/internal/roster/modelbuilder"
)

// Outcome classifies a completed solve per §4.3.
type Outcome int

const (
	// OutcomeSuccess means the solver returned OPTIMAL or FEASIBLE; the
	// writer should commit the solution.
	OutcomeSuccess Outcome = iota
	// OutcomeInfeasible means the solver proved no feasible assignment
	// exists.
	OutcomeInfeasible
	// OutcomeNotSolved covers MODEL_INVALID, UNKNOWN, or a timeout
	// without a feasible solution.
	OutcomeNotSolved
)

// Result is the classified result of one solve.
type Result struct {
	Outcome  Outcome
	Response *cpmodel.CpSolverResponse
}

// Driver runs CP-SAT with a fixed wall-clock budget and worker count. It
// never retries: a single solve either produces a usable result or a
// classified failure.
type Driver struct {
	TimeBudgetSeconds float64
	Workers           int32
}

// NewDriver creates a solver driver. workers defaults to 1 (single
// threaded cooperative solve per §4.3) when given as 0.
func NewDriver(timeBudgetSeconds float64, workers int32) *Driver {
	if workers <= 0 {
		workers = 1
	}
	return &Driver{TimeBudgetSeconds: timeBudgetSeconds, Workers: workers}
}

// Solve runs the model and classifies the outcome. A non-nil error means
// the model could not even be instantiated or solved, which the caller
// should classify as INTERNAL.
func (d *Driver) Solve(m *modelbuilder.Model) (*Result, error) {
	proto_, err := m.CpModel()
	if err != nil {
		return nil, fmt.Errorf("instantiate model: %w", err)
	}

	params := &sppb.SatParameters{
		MaxTimeInSeconds: proto.Float64(d.TimeBudgetSeconds),
		NumWorkers:       proto.Int32(d.Workers),
	}

	response, err := cpmodel.SolveCpModelWithParameters(proto_, params)
	if err != nil {
		return nil, fmt.Errorf("solve model: %w", err)
	}

	return &Result{Outcome: classify(response), Response: response}, nil
}

func classify(response *cpmodel.CpSolverResponse) Outcome {
	switch response.GetStatus() {
	case cpmodel.CpSolverStatus_OPTIMAL, cpmodel.CpSolverStatus_FEASIBLE:
		return OutcomeSuccess
	case cpmodel.CpSolverStatus_INFEASIBLE:
		return OutcomeInfeasible
	default: // MODEL_INVALID, UNKNOWN, or a timeout with no feasible solution
		return OutcomeNotSolved
	}
}
