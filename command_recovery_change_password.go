package storeauth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type RecoveryChangePasswordMessage struct {
	Token    string `json:"token"`
	Password string `json:"password"`

	OnResponse func(resp *RecoveryChangePasswordResponse)
}

func (e RecoveryChangePasswordMessage) Type() string { return "recovery.change_password" }

type RecoveryChangePasswordResponse struct {
	Email   string
	Changed bool
}

// RecoveryChangePasswordHandler finalizes recovery. It only accepts a
// token whose stage is "code_verified"; a stage "requested" token means
// the code step was skipped and gets rejected with NOT_VERIFIED.
type RecoveryChangePasswordHandler struct {
	Repo   RepositoryManager
	Tokens TokenService
}

func (h *RecoveryChangePasswordHandler) Execute(ctx context.Context, event RecoveryChangePasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password change",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RecoveryChangePasswordHandler) execute(ctx context.Context, event RecoveryChangePasswordMessage) error {
	resp := &RecoveryChangePasswordResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

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

	if err := EnsureStage(claims, StageCodeVerified); err != nil {
		// Skipping the verify step is a flow mistake by the client, a
		// 400 rather than a permissions failure.
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeNotVerified {
			return richErr.Clone().WithCode(goerrors.CodeBadRequest)
		}
		return err
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	err = h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := h.Repo.Directory().SetPasswordTx(ctx, tx, claims.Email, claims.UserType, hash); err != nil {
			// The account can vanish between request and change, that is
			// a 404 to the client, not a storage fault.
			if mapped := notFoundAsAccountError(err, claims.Email); mapped != err {
				return mapped
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password")
		}
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "password change transaction failed")
	}

	resp.Email = claims.Email
	resp.Changed = true

	event.OnResponse(resp)

	return nil
}
