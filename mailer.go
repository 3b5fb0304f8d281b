package storeauth

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/keighl/postmark"
)

// CodePurpose names the flow a code email belongs to
type CodePurpose = string

const (
	// PurposeVerification is the signup email verification code
	PurposeVerification CodePurpose = "verification"
	// PurposeRecovery is the password recovery code
	PurposeRecovery CodePurpose = "recovery"
)

// CodeMailer delivers challenge codes to account emails
type CodeMailer interface {
	SendCode(ctx context.Context, to, code string, purpose CodePurpose) error
}

// MailerConfig holds Postmark credentials and sender identity
type MailerConfig struct {
	ServerToken  string
	AccountToken string
	Sender       string
}

// PostmarkMailer sends code emails through Postmark
type PostmarkMailer struct {
	client *postmark.Client
	sender string
	logger Logger
}

var _ CodeMailer = (*PostmarkMailer)(nil)

// NewPostmarkMailer initializes and returns a new PostmarkMailer instance
func NewPostmarkMailer(cfg MailerConfig) *PostmarkMailer {
	return &PostmarkMailer{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		sender: cfg.Sender,
		logger: defLogger{},
	}
}

// WithLogger sets the logger used for delivery failures
func (m *PostmarkMailer) WithLogger(logger Logger) *PostmarkMailer {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// SendCode sends the challenge code for the given flow
func (m *PostmarkMailer) SendCode(ctx context.Context, to, code string, purpose CodePurpose) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled before sending code email")
	default:
	}

	subject, body := codeEmailContent(code, purpose)

	_, err := m.client.SendEmail(postmark.Email{
		From:     m.sender,
		To:       to,
		Subject:  subject,
		HtmlBody: body,
		TextBody: body,
	})

	if err != nil {
		m.logger.Error("Postmark send code email failed", "to", to, "purpose", purpose, "error", err)
		return goerrors.Wrap(err, ErrMailDispatchFailed.Category, ErrMailDispatchFailed.Message).
			WithTextCode(ErrMailDispatchFailed.TextCode).
			WithCode(ErrMailDispatchFailed.Code)
	}

	m.logger.Debug("Postmark code email sent", "to", to, "purpose", purpose)

	return nil
}

func codeEmailContent(code string, purpose CodePurpose) (subject, body string) {
	switch purpose {
	case PurposeRecovery:
		subject = "Your password recovery code"
		body = fmt.Sprintf("<strong>Use the following code to recover your password:</strong> %s", code)
	default:
		subject = "Verify your email"
		body = fmt.Sprintf("<strong>Use the following code to verify your email:</strong> %s", code)
	}
	return subject, body
}
