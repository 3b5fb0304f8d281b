package storeauth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type ResendVerificationMessage struct {
	Token string `json:"token"`

	OnResponse func(resp *ResendVerificationResponse)
}

func (e ResendVerificationMessage) Type() string { return "account.resend_verification" }

type ResendVerificationResponse struct {
	Code      string
	Token     string
	ExpiresAt time.Time
}

// ResendVerificationHandler rotates the verification code. It accepts the
// previous verification token, even an expired one, so a user who missed
// the first email can ask for another without signing up again.
type ResendVerificationHandler struct {
	Repo   RepositoryManager
	Tokens TokenService
	Mailer CodeMailer
}

func (h *ResendVerificationHandler) Execute(ctx context.Context, event ResendVerificationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during verification resend",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ResendVerificationHandler) execute(ctx context.Context, event ResendVerificationMessage) error {
	resp := &ResendVerificationResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	claims, err := h.Tokens.Validate(event.Token)
	if err != nil {
		if !IsTokenExpiredError(err) {
			return badRequestTokenError(err)
		}
		parser, ok := h.Tokens.(expiredTokenParser)
		if !ok {
			return badRequestTokenError(err)
		}
		claims, err = parser.ParseExpired(event.Token)
		if err != nil {
			return badRequestTokenError(err)
		}
	}

	if claims.Kind != TokenKindVerification {
		return ErrTokenMalformed.Clone().WithCode(goerrors.CodeBadRequest)
	}

	account, err := h.Repo.Directory().ResolveByType(ctx, claims.Email, claims.UserType)
	if err != nil {
		return err
	}

	if account.IsVerified() {
		return goerrors.New("account is already verified", goerrors.CategoryConflict).
			WithTextCode(TextCodeConflict).
			WithCode(goerrors.CodeConflict)
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return err
	}

	token, expiresAt, err := MintVerificationToken(h.Tokens, account, claims.UserType, code, ScopedTokenOptions{})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint verification token")
	}

	resp.Code = code
	resp.Token = token
	resp.ExpiresAt = expiresAt

	event.OnResponse(resp)

	if h.Mailer != nil {
		if err := h.Mailer.SendCode(ctx, account.Email(), code, PurposeVerification); err != nil {
			return err
		}
	}

	return nil
}
