package storeauth

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/nyaruka/phonenumbers"
)

type AuthControllerRoutes struct {
	Signup          string
	SignupVerify    string
	SignupResend    string
	RecoveryRequest string
	RecoveryVerify  string
	RecoveryChange  string
	ValidateToken   string
	Login           string
	Logout          string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
	Tokens TokenService
	Mailer CodeMailer
	Auther Authenticator
	Config Config
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithRepositoryManager(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithTokenService(tokens TokenService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = tokens
		return c
	}
}

func WithMailer(mailer CodeMailer) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Mailer = mailer
		return c
	}
}

func WithAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Signup:          "/signup",
			SignupVerify:    "/signup/verifyCode",
			SignupResend:    "/signup/resendCode",
			RecoveryRequest: "/recoveryPassword/requestCode",
			RecoveryVerify:  "/recoveryPassword/verifyCode",
			RecoveryChange:  "/recoveryPassword/changePassword",
			ValidateToken:   "/validateAuthToken",
			Login:           "/login",
			Logout:          "/logout",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in auth controller...")
	}

	if c.Auther == nil {
		c.Auther = NewAuthenticator(c.Repo, c.Config).WithLogger(c.Logger).WithTokenService(c.Tokens)
	}

	c.Config = c.Config.withDefaults()

	return c
}

func RegisterAuthRoutes(app *fiber.App, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Signup, controller.SignupPost)
	app.Post(controller.Routes.SignupVerify, controller.SignupVerifyPost)
	app.Post(controller.Routes.SignupResend, controller.SignupResendPost)

	app.Post(controller.Routes.RecoveryRequest, controller.RecoveryRequestCodePost)
	app.Post(controller.Routes.RecoveryVerify, controller.RecoveryVerifyCodePost)
	app.Post(controller.Routes.RecoveryChange, controller.RecoveryChangePasswordPost)

	app.Post(controller.Routes.ValidateToken, controller.ValidateAuthToken)

	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Logout, controller.LogoutPost)

	return controller
}

// SignupPayload is the signup request body
type SignupPayload struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone_number"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate will validate the payload
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.By(ValidatePhoneNumber)),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(10, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *AuthController) SignupPost(c *fiber.Ctx) error {
	payload := new(SignupPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload: ", "error", err)
		return RespondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithTextCode(TextCodeValidationError).
			WithCode(fiber.StatusBadRequest))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload: ", "error", err)
		return RespondError(c, validationError(err))
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("==========================")
	}

	var res *RegisterAccountResponse

	req := RegisterAccountMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Password:  payload.Password,
		UserType:  UserTypeEmployee,
		UseHashid: true,
		OnResponse: func(resp *RegisterAccountResponse) {
			res = resp
		},
	}

	register := RegisterAccountHandler{
		Repo:   a.Repo,
		Tokens: a.Tokens,
		Mailer: a.Mailer,
		Logger: a.Logger,
	}

	err := register.Execute(c.UserContext(), req)

	// A mail failure after the account persisted should not strand the
	// user: hand out the verification cookie so resend still works.
	if res != nil && res.Token != "" {
		setCookieToken(c, CookieVerificationToken, res.Token, time.Until(res.ExpiresAt))
	}

	if err != nil {
		a.Logger.Error("signup error: ", "error", err)
		return RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"account": res.Account.Sanitize(),
		"message": "verification code sent",
	})
}

// VerifyCodePayload is the body for both code verification endpoints
type VerifyCodePayload struct {
	Code string `json:"code"`
}

// Validate will validate the payload
func (r VerifyCodePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(1, 12)),
	)
}

func (a *AuthController) SignupVerifyPost(c *fiber.Ctx) error {
	token := c.Cookies(CookieVerificationToken)
	if token == "" {
		return RespondError(c, ErrNoToken.Clone().WithCode(fiber.StatusBadRequest))
	}

	payload := new(VerifyCodePayload)
	if err := c.BodyParser(payload); err != nil {
		return RespondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithTextCode(TextCodeValidationError).
			WithCode(fiber.StatusBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, validationError(err))
	}

	var res *VerifyEmailResponse

	req := VerifyEmailMessage{
		Token: token,
		Code:  payload.Code,
		OnResponse: func(resp *VerifyEmailResponse) {
			res = resp
		},
	}

	verify := VerifyEmailHandler{Repo: a.Repo, Tokens: a.Tokens}

	if err := verify.Execute(c.UserContext(), req); err != nil {
		a.Logger.Error("signup verify error: ", "error", err)
		return RespondError(c, err)
	}

	cookieDel(c, CookieVerificationToken)

	return c.JSON(fiber.Map{
		"email":    res.Email,
		"verified": res.Verified,
	})
}

func (a *AuthController) SignupResendPost(c *fiber.Ctx) error {
	token := c.Cookies(CookieVerificationToken)
	if token == "" {
		return RespondError(c, ErrNoToken)
	}

	var res *ResendVerificationResponse

	req := ResendVerificationMessage{
		Token: token,
		OnResponse: func(resp *ResendVerificationResponse) {
			res = resp
		},
	}

	resend := ResendVerificationHandler{Repo: a.Repo, Tokens: a.Tokens, Mailer: a.Mailer}

	err := resend.Execute(c.UserContext(), req)

	if res != nil && res.Token != "" {
		setCookieToken(c, CookieVerificationToken, res.Token, time.Until(res.ExpiresAt))
	}

	if err != nil {
		a.Logger.Error("signup resend error: ", "error", err)
		return RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "verification code sent",
	})
}

// RecoveryRequestPayload is the recovery start request body
type RecoveryRequestPayload struct {
	Email string `json:"email"`
}

// Validate will validate the payload
func (r RecoveryRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) RecoveryRequestCodePost(c *fiber.Ctx) error {
	payload := new(RecoveryRequestPayload)

	if err := c.BodyParser(payload); err != nil {
		return RespondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithTextCode(TextCodeValidationError).
			WithCode(fiber.StatusBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, validationError(err))
	}

	var res *RecoveryRequestCodeResponse

	req := RecoveryRequestCodeMessage{
		Email: payload.Email,
		OnResponse: func(resp *RecoveryRequestCodeResponse) {
			res = resp
		},
	}

	request := RecoveryRequestCodeHandler{Repo: a.Repo, Tokens: a.Tokens, Mailer: a.Mailer}

	err := request.Execute(c.UserContext(), req)

	if res != nil && res.Token != "" {
		setCookieToken(c, CookieRecoveryToken, res.Token, time.Until(res.ExpiresAt))
	}

	if err != nil {
		a.Logger.Error("recovery request code error: ", "error", err)
		return RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "recovery code sent",
	})
}

func (a *AuthController) RecoveryVerifyCodePost(c *fiber.Ctx) error {
	token := c.Cookies(CookieRecoveryToken)
	if token == "" {
		return RespondError(c, ErrNoToken)
	}

	payload := new(VerifyCodePayload)
	if err := c.BodyParser(payload); err != nil {
		return RespondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithTextCode(TextCodeValidationError).
			WithCode(fiber.StatusBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, validationError(err))
	}

	var res *RecoveryVerifyCodeResponse

	req := RecoveryVerifyCodeMessage{
		Token: token,
		Code:  payload.Code,
		OnResponse: func(resp *RecoveryVerifyCodeResponse) {
			res = resp
		},
	}

	verify := RecoveryVerifyCodeHandler{Tokens: a.Tokens}

	if err := verify.Execute(c.UserContext(), req); err != nil {
		a.Logger.Error("recovery verify code error: ", "error", err)
		return RespondError(c, err)
	}

	setCookieToken(c, CookieRecoveryToken, res.Token, time.Until(res.ExpiresAt))

	return c.JSON(fiber.Map{
		"message": "code verified",
	})
}

// ChangePasswordPayload is the recovery finalize request body
type ChangePasswordPayload struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate will validate the payload
func (r ChangePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(10, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *AuthController) RecoveryChangePasswordPost(c *fiber.Ctx) error {
	token := c.Cookies(CookieRecoveryToken)
	if token == "" {
		return RespondError(c, ErrNoToken)
	}

	payload := new(ChangePasswordPayload)
	if err := c.BodyParser(payload); err != nil {
		return RespondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithTextCode(TextCodeValidationError).
			WithCode(fiber.StatusBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, validationError(err))
	}

	var res *RecoveryChangePasswordResponse

	req := RecoveryChangePasswordMessage{
		Token:    token,
		Password: payload.Password,
		OnResponse: func(resp *RecoveryChangePasswordResponse) {
			res = resp
		},
	}

	change := RecoveryChangePasswordHandler{Repo: a.Repo, Tokens: a.Tokens}

	if err := change.Execute(c.UserContext(), req); err != nil {
		a.Logger.Error("recovery change password error: ", "error", err)
		return RespondError(c, err)
	}

	cookieDel(c, CookieRecoveryToken)

	return c.JSON(fiber.Map{
		"changed": res.Changed,
	})
}

func (a *AuthController) ValidateAuthToken(c *fiber.Ctx) error {
	raw := c.Cookies(CookieAuthToken)
	if raw == "" {
		return RespondError(c, ErrUnauthenticated)
	}

	session, err := a.Auther.SessionFromToken(raw)
	if err != nil {
		if IsTokenExpiredError(err) {
			return RespondError(c, ErrSessionExpired)
		}
		return RespondError(c, ErrTokenMalformed)
	}

	return c.JSON(fiber.Map{
		"valid":   true,
		"session": session,
	})
}

// LoginPayload is the login request body
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		return RespondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse body").
			WithTextCode(TextCodeValidationError).
			WithCode(fiber.StatusBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, validationError(err))
	}

	token, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("login error: ", "error", err)
		return RespondError(c, err)
	}

	setCookieToken(c, CookieAuthToken, token, a.Config.SessionTTL)

	return c.JSON(fiber.Map{
		"message": "logged in",
	})
}

func (a *AuthController) LogoutPost(c *fiber.Ctx) error {
	cookieDel(c, CookieAuthToken)

	return c.JSON(fiber.Map{
		"message": "logged out",
	})
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// ValidatePhoneNumber checks the value parses as a valid phone number.
// Empty values pass, the field is optional.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "US")
	if err != nil {
		return errors.New("must be a valid phone number")
	}

	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}

	return nil
}

func validationError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
		WithTextCode(TextCodeValidationError).
		WithCode(fiber.StatusBadRequest)
}
