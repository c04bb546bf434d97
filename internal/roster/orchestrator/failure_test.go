package orchestrator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/rosterforge/roster-engine/pkg/errors"
)

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantKind FailureKind
	}{
		{"infeasible", apperrors.Infeasible("no feasible roster exists for the given constraints"), FailureInfeasible},
		{"not solved", apperrors.NotSolved("the solver did not reach a decision within the time budget"), FailureNotSolved},
		{"misconfigured with message", apperrors.Misconfigured("shift \"Night\" has no day group assigned"), FailureMisconfigured},
		{"plain error", errors.New("boom"), FailureInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, msg := classifyFailure(tc.err)
			assert.Equal(t, tc.wantKind, kind)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestClassifyFailure_MisconfiguredDefaultMessage(t *testing.T) {
	kind, msg := classifyFailure(apperrors.Misconfigured(""))
	assert.Equal(t, FailureMisconfigured, kind)
	assert.Equal(t, "Please check that all shifts and shift sequences have day groups assigned.", msg)
}

func TestMisconfiguredMessage(t *testing.T) {
	assert.Equal(t,
		"Please check that all shifts and shift sequences have day groups assigned.",
		misconfiguredMessage(nil))

	assert.Equal(t,
		`Please check that all shifts and shift sequences have day groups assigned: shift "Night" has no day group assigned; sequence "Weekend" has no day group assigned`,
		misconfiguredMessage([]string{
			`shift "Night" has no day group assigned`,
			`sequence "Weekend" has no day group assigned`,
		}))
}

func TestJob_StatusMessage(t *testing.T) {
	j := &Job{Status: StatusSucceeded, Message: "should be ignored"}
	assert.Equal(t, "", j.StatusMessage())

	j = &Job{Status: StatusFailed, Message: "could not solve"}
	assert.Equal(t, "could not solve", j.StatusMessage())
}

func TestJob_ExternalStatus_FoldsSubmittedIntoProcessing(t *testing.T) {
	j := &Job{Status: StatusSubmitted}
	assert.Equal(t, StatusProcessing, j.ExternalStatus())

	for _, s := range []Status{StatusProcessing, StatusSucceeded, StatusFailed} {
		j := &Job{Status: s}
		assert.Equal(t, s, j.ExternalStatus())
	}
}
