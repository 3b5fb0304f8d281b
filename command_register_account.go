package storeauth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterAccountMessage struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone_number"`
	Password  string   `json:"password"`
	UserType  UserType `json:"type"`
	Role      UserRole `json:"role"`
	UseHashid bool

	OnResponse func(resp *RegisterAccountResponse)
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

type RegisterAccountResponse struct {
	Account   *Account
	Code      string
	Token     string
	ExpiresAt time.Time
}

// RegisterAccountHandler creates an unverified account, mints the email
// verification token, and mails the challenge code. A failed mail send
// still leaves the account and token usable for a resend.
type RegisterAccountHandler struct {
	Repo   RepositoryManager
	Tokens TokenService
	Mailer CodeMailer
	Logger Logger
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) error {
	resp := &RegisterAccountResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	email := NormalizeEmail(event.Email)

	userType := event.UserType
	if userType == "" {
		userType = UserTypeCustomer
	}

	err := h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.Repo.Directory().ResolveTx(ctx, tx, email); err == nil {
			return ErrEmailTaken.Clone().WithMetadata(map[string]any{
				"email": email,
			})
		} else if !goerrors.IsNotFound(err) && !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		switch userType {
		case UserTypeEmployee:
			record := &Employee{
				FirstName:    event.FirstName,
				LastName:     event.LastName,
				Email:        email,
				Phone:        event.Phone,
				PasswordHash: hash,
				Role:         event.Role,
			}
			if event.UseHashid {
				if id, err := hashid.NewUUID(email); err == nil {
					record.ID = id
				}
			}
			if record, err = h.Repo.Employees().RegisterTx(ctx, tx, record); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create employee")
			}
			resp.Account = NewEmployeeAccount(record)
		default:
			record := &Customer{
				FirstName:    event.FirstName,
				LastName:     event.LastName,
				Email:        email,
				Phone:        event.Phone,
				PasswordHash: hash,
			}
			if event.UseHashid {
				if id, err := hashid.NewUUID(email); err == nil {
					record.ID = id
				}
			}
			if record, err = h.Repo.Customers().RegisterTx(ctx, tx, record); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create customer")
			}
			resp.Account = NewCustomerAccount(record)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account registration transaction failed")
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return err
	}

	token, expiresAt, err := MintVerificationToken(h.Tokens, resp.Account, userType, code, ScopedTokenOptions{})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint verification token")
	}

	resp.Code = code
	resp.Token = token
	resp.ExpiresAt = expiresAt

	event.OnResponse(resp)

	if h.Mailer != nil {
		if err := h.Mailer.SendCode(ctx, email, code, PurposeVerification); err != nil {
			h.logger().Error("registration code email failed", "email", email, "error", err)
			return err
		}
	}

	return nil
}

func (h *RegisterAccountHandler) logger() Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return defLogger{}
}
