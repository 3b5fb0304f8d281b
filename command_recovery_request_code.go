package storeauth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type RecoveryRequestCodeMessage struct {
	Email string `json:"email"`

	OnResponse func(resp *RecoveryRequestCodeResponse)
}

func (e RecoveryRequestCodeMessage) Type() string { return "recovery.request_code" }

type RecoveryRequestCodeResponse struct {
	Code      string
	Token     string
	ExpiresAt time.Time
}

// RecoveryRequestCodeHandler starts password recovery. The code and the
// stage travel inside the token, nothing is written to the database, so
// requesting a new code simply supersedes the previous token.
type RecoveryRequestCodeHandler struct {
	Repo   RepositoryManager
	Tokens TokenService
	Mailer CodeMailer
}

func (h *RecoveryRequestCodeHandler) Execute(ctx context.Context, event RecoveryRequestCodeMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during recovery code request",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RecoveryRequestCodeHandler) execute(ctx context.Context, event RecoveryRequestCodeMessage) error {
	resp := &RecoveryRequestCodeResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	email := NormalizeEmail(event.Email)

	account, err := h.Repo.Directory().Resolve(ctx, email)
	if err != nil {
		// An unknown email at this step is a client mistake in a form,
		// keep the NOT_FOUND kind but answer with a 400.
		if goerrors.IsNotFound(err) {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr.Clone().WithCode(goerrors.CodeBadRequest)
			}
			return ErrAccountNotFound.Clone().WithCode(goerrors.CodeBadRequest)
		}
		return err
	}

	code, err := GenerateRecoveryCode()
	if err != nil {
		return err
	}

	token, expiresAt, err := MintRecoveryToken(h.Tokens, account.Email(), account.Type, code, StageRequested, ScopedTokenOptions{})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint recovery token")
	}

	resp.Code = code
	resp.Token = token
	resp.ExpiresAt = expiresAt

	event.OnResponse(resp)

	if h.Mailer != nil {
		if err := h.Mailer.SendCode(ctx, account.Email(), code, PurposeRecovery); err != nil {
			return err
		}
	}

	return nil
}
