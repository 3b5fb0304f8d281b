package storeauth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type VerifyEmailMessage struct {
	Token string `json:"token"`
	Code  string `json:"code"`

	OnResponse func(resp *VerifyEmailResponse)
}

func (e VerifyEmailMessage) Type() string { return "account.verify_email" }

type VerifyEmailResponse struct {
	Email    string
	UserType UserType
	Verified bool
}

// VerifyEmailHandler checks the submitted code against the verification
// token and flips the account's verified flag. Token failures surface as
// 400s here since the client is mid form, not mid session.
type VerifyEmailHandler struct {
	Repo   RepositoryManager
	Tokens TokenService
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during email verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) error {
	resp := &VerifyEmailResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	claims, err := h.Tokens.Validate(event.Token)
	if err != nil {
		return badRequestTokenError(err)
	}

	if claims.Kind != TokenKindVerification {
		return ErrTokenMalformed.Clone().WithCode(goerrors.CodeBadRequest)
	}

	if !codeMatches(claims.Code, event.Code) {
		return ErrBadCode.Clone().WithMetadata(map[string]any{
			"email": claims.Email,
		})
	}

	err = h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := h.Repo.Directory().MarkVerifiedTx(ctx, tx, claims.Email, claims.UserType); err != nil {
			// A verification token can outlive its account. Surface that
			// as a 404 instead of a storage fault.
			if mapped := notFoundAsAccountError(err, claims.Email); mapped != err {
				return mapped
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark account as verified")
		}
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "email verification transaction failed")
	}

	resp.Email = claims.Email
	resp.UserType = claims.UserType
	resp.Verified = true

	event.OnResponse(resp)

	return nil
}

// badRequestTokenError keeps the taxonomy kind but downgrades the status
// to 400, since verification clients hold a form token, not a session.
func badRequestTokenError(err error) error {
	if IsTokenExpiredError(err) {
		return ErrTokenExpired.Clone().WithCode(goerrors.CodeBadRequest)
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Clone().WithCode(goerrors.CodeBadRequest)
	}

	return ErrTokenMalformed.Clone().WithCode(goerrors.CodeBadRequest)
}

// codeMatches requires an exact, case sensitive match against the code
// claim. Codes are short and machine generated, so no normalization.
func codeMatches(expected, got string) bool {
	return expected != "" && expected == got
}
