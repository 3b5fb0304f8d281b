package storeauth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type RecoveryVerifyCodeMessage struct {
	Token string `json:"token"`
	Code  string `json:"code"`

	OnResponse func(resp *RecoveryVerifyCodeResponse)
}

func (e RecoveryVerifyCodeMessage) Type() string { return "recovery.verify_code" }

type RecoveryVerifyCodeResponse struct {
	Token     string
	ExpiresAt time.Time
}

// RecoveryVerifyCodeHandler checks the submitted code against the recovery
// token and rotates it into a "code_verified" token with a fresh TTL. An
// already verified token may be verified again.
type RecoveryVerifyCodeHandler struct {
	Tokens TokenService
}

func (h *RecoveryVerifyCodeHandler) Execute(ctx context.Context, event RecoveryVerifyCodeMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during recovery code verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RecoveryVerifyCodeHandler) execute(_ context.Context, event RecoveryVerifyCodeMessage) error {
	resp := &RecoveryVerifyCodeResponse{}

	claims, err := h.Tokens.Validate(event.Token)
	if err != nil {
		if IsTokenExpiredError(err) {
			return ErrTokenExpired
		}
		return ErrTokenMalformed
	}

	if claims.Kind != TokenKindRecovery {
		return ErrTokenMalformed
	}

	// A "code_verified" token may pass through again, the step is
	// idempotent and simply rotates the token with a fresh TTL.
	if !CanTransitionStage(claims.Stage, StageCodeVerified) {
		return ErrInvalidStageTransition.Clone().WithMetadata(map[string]any{
			"stage": claims.Stage,
		})
	}

	if !codeMatches(claims.Code, event.Code) {
		return ErrBadCode.Clone().WithMetadata(map[string]any{
			"email": claims.Email,
		})
	}

	token, expiresAt, err := MintRecoveryToken(h.Tokens, claims.Email, claims.UserType, claims.Code, StageCodeVerified, ScopedTokenOptions{})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint recovery token")
	}

	resp.Token = token
	resp.ExpiresAt = expiresAt

	event.OnResponse(resp)

	return nil
}
