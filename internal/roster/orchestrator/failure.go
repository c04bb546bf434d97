package orchestrator

import (
	"errors"

	apperrors "github.com/rosterforge/roster-engine/pkg/errors"
)

// classifyFailure maps a generation error onto a FailureKind and a
// user-facing message, per §7's taxonomy.
func classifyFailure(err error) (FailureKind, string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "INFEASIBLE":
			return FailureInfeasible, "Could not generate roster, ensure staff details and rules are correct."
		case "NOT_SOLVED":
			return FailureNotSolved, "The solver did not reach a decision within the time budget."
		case "MISCONFIGURED":
			msg := appErr.Message
			if msg == "" {
				msg = "Please check that all shifts and shift sequences have day groups assigned."
			}
			return FailureMisconfigured, msg
		}
	}
	return FailureInternal, err.Error()
}

func misconfiguredMessage(reasons []string) string {
	if len(reasons) == 0 {
		return "Please check that all shifts and shift sequences have day groups assigned."
	}
	msg := "Please check that all shifts and shift sequences have day groups assigned: "
	for i, reason := range reasons {
		if i > 0 {
			msg += "; "
		}
		msg += reason
	}
	return msg
}
