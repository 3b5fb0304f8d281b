package storeauth

import (
	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidStageTransition = "INVALID_RECOVERY_STAGE_TRANSITION"

// RecoveryStage tracks progress through the password recovery flow. The
// stage lives inside the recovery token, never in the database.
type RecoveryStage = string

const (
	// StageRequested means a recovery code was issued but not yet verified
	StageRequested RecoveryStage = "requested"
	// StageCodeVerified means the code was verified and a password change is allowed
	StageCodeVerified RecoveryStage = "code_verified"
)

// ErrInvalidStageTransition is returned when a recovery step runs against
// a token minted for a different stage.
var ErrInvalidStageTransition = goerrors.New("invalid recovery stage transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidStageTransition).
	WithCode(goerrors.CodeBadRequest)

// ValidStage checks the stage is one of the predefined values
func ValidStage(s RecoveryStage) bool {
	switch s {
	case StageRequested, StageCodeVerified:
		return true
	default:
		return false
	}
}

var stageTransitions = map[RecoveryStage]map[RecoveryStage]struct{}{
	StageRequested: {
		StageCodeVerified: {},
	},
	// Re-verifying an already verified code is allowed so the step stays
	// idempotent for clients that retry.
	StageCodeVerified: {
		StageCodeVerified: {},
	},
}

// CanTransitionStage reports whether the recovery flow may move between stages.
func CanTransitionStage(from, to RecoveryStage) bool {
	targets, ok := stageTransitions[from]
	if !ok {
		return false
	}

	_, ok = targets[to]
	return ok
}

// EnsureStage validates that the token stage matches the stage a step requires.
func EnsureStage(claims *TokenClaims, want RecoveryStage) error {
	if claims == nil {
		return ErrUnableToDecodeSession
	}

	if claims.Stage == want {
		return nil
	}

	if want == StageCodeVerified && claims.Stage == StageRequested {
		return ErrNotVerified.Clone().WithMetadata(map[string]any{
			"stage": claims.Stage,
			"want":  want,
		})
	}

	return ErrInvalidStageTransition.Clone().WithMetadata(map[string]any{
		"stage": claims.Stage,
		"want":  want,
	})
}
