package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"WonFM/logger"
	"WonFM/model"
	"WonFM/repository"

	"github.com/google/uuid"
)

// User-facing messages for the known failure cases. Raw causes are logged,
// never shown.
const (
	MsgEmailExists      = "An account with this email already exists. Please try logging in instead."
	MsgPasswordTooShort = "Password must be at least 6 characters long."
	MsgInvalidEmail     = "Please enter a valid email address."
	MsgSignupDisabled   = "Account registration is currently disabled. Please contact support."
	MsgBadCredentials   = "Invalid email or password. Please check your credentials and try again."
	MsgResetLinkInvalid = "Invalid or expired reset link. Please request a new one."
	MsgEmailUnconfirmed = "Please check your email and confirm your account before logging in."
	MsgTooManyAttempts  = "Too many login attempts. Please wait a few minutes and try again."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const resetTokenTTL = time.Hour

// Pinger is the pre-flight connectivity probe run before each primary call.
type Pinger func() error

// Facade wraps signup/login/logout/password-reset against the backing store
// and normalizes the known failure cases into fixed user-facing strings.
type Facade struct {
	users          repository.UserRepository
	resets         repository.ResetRepository
	broker         *SessionBroker
	ping           Pinger
	signupDisabled bool
}

// NewFacade wires the auth facade.
func NewFacade(users repository.UserRepository, resets repository.ResetRepository, broker *SessionBroker, ping Pinger, signupDisabled bool) *Facade {
	return &Facade{
		users:          users,
		resets:         resets,
		broker:         broker,
		ping:           ping,
		signupDisabled: signupDisabled,
	}
}

// Broker exposes the session broker for observers.
func (f *Facade) Broker() *SessionBroker {
	return f.broker
}

// preflight runs the connectivity probe and wraps its failure in the
// distinguished "Connection error" message. It doubles round-trips on the
// happy path; kept because callers depend on the early abort.
func (f *Facade) preflight() error {
	if f.ping == nil {
		return nil
	}
	if err := f.ping(); err != nil {
		logger.Error("[Auth] Connection test failed", logger.ErrorField(err))
		return fmt.Errorf("Connection error: %v", err)
	}
	return nil
}

// Signup registers a new account and returns the user plus a session token.
func (f *Facade) Signup(ctx context.Context, email, password, fullName string) (*model.User, string, error) {
	logger.Info("[Auth] Starting signup process", logger.String("email", email))

	if err := f.preflight(); err != nil {
		return nil, "", err
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" || strings.TrimSpace(fullName) == "" {
		return nil, "", errors.New("Email, password and full name are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, "", errors.New(MsgInvalidEmail)
	}
	if len(password) < 6 {
		return nil, "", errors.New(MsgPasswordTooShort)
	}
	if f.signupDisabled {
		return nil, "", errors.New(MsgSignupDisabled)
	}

	// The attempt is now in flight; observers see pending until it
	// resolves either way.
	f.broker.publish(Session{State: StatePending})

	hashed, err := HashPassword(password)
	if err != nil {
		f.broker.publish(Session{State: StateAnonymous})
		return nil, "", fmt.Errorf("Signup failed: %v", err)
	}

	user := &model.User{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hashed,
	}

	userID, err := f.users.CreateUser(user)
	if err != nil {
		f.broker.publish(Session{State: StateAnonymous})
		if errors.Is(err, repository.ErrDuplicateUser) {
			logger.Warn("[Auth] Email already registered", logger.String("email", email))
			return nil, "", errors.New(MsgEmailExists)
		}
		logger.Error("[Auth] Signup failed", logger.ErrorField(err))
		return nil, "", fmt.Errorf("Signup failed: %v", err)
	}
	user.ID = userID

	token, err := GenerateToken(userID, email)
	if err != nil {
		f.broker.publish(Session{State: StateAnonymous})
		return nil, "", fmt.Errorf("Signup failed: %v", err)
	}

	f.broker.publish(Session{State: StateAuthenticated, User: user, Token: token})
	logger.Info("[Auth] Signup successful", logger.String("email", email))
	return user, token, nil
}

// Login authenticates an account and returns the user plus a session token.
func (f *Facade) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	logger.Info("[Auth] Starting login process", logger.String("email", email))

	if err := f.preflight(); err != nil {
		return nil, "", err
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", errors.New("Email and password are required")
	}

	f.broker.publish(Session{State: StatePending})

	user, err := f.users.GetUserByEmail(email)
	if err != nil {
		f.broker.publish(Session{State: StateAnonymous})
		logger.Error("[Auth] Login lookup failed", logger.ErrorField(err))
		return nil, "", fmt.Errorf("Login failed: %v", err)
	}
	if user == nil || !VerifyPassword(password, user.PasswordHash) {
		f.broker.publish(Session{State: StateAnonymous})
		logger.Warn("[Auth] Invalid login credentials", logger.String("email", email))
		return nil, "", errors.New(MsgBadCredentials)
	}

	token, err := GenerateToken(user.ID, user.Email)
	if err != nil {
		f.broker.publish(Session{State: StateAnonymous})
		return nil, "", fmt.Errorf("Login failed: %v", err)
	}

	f.broker.publish(Session{State: StateAuthenticated, User: user, Token: token})
	logger.Info("[Auth] Login successful", logger.String("email", email))
	return user, token, nil
}

// ResetPassword issues a single-use reset token and "dispatches" the mail.
// Failures are reported to the caller, never retried. For unknown emails the
// call reports success without creating anything, so the endpoint can't be
// used to enumerate accounts.
func (f *Facade) ResetPassword(ctx context.Context, email string) error {
	logger.Info("[Auth] Starting password reset", logger.String("email", email))

	if err := f.preflight(); err != nil {
		return err
	}

	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return errors.New(MsgInvalidEmail)
	}

	user, err := f.users.GetUserByEmail(email)
	if err != nil {
		logger.Error("[Auth] Password reset lookup failed", logger.ErrorField(err))
		return fmt.Errorf("Password reset failed: %v", err)
	}
	if user == nil {
		logger.Warn("[Auth] Password reset requested for unknown email", logger.String("email", email))
		return nil
	}

	reset := &model.PasswordReset{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := f.resets.CreateReset(reset); err != nil {
		logger.Error("[Auth] Password reset failed", logger.ErrorField(err))
		return fmt.Errorf("Password reset failed: %v", err)
	}

	// Mail dispatch is owned by the provider side; here the token is logged
	// so an operator can relay it in development setups.
	logger.Info("[Auth] Password reset email sent",
		logger.String("email", email),
		logger.String("token", reset.Token))
	return nil
}

// ConfirmReset consumes a reset token and installs the new password. The
// token is spent even when nothing else fails afterwards; a second attempt
// with the same token gets the invalid-link message.
func (f *Facade) ConfirmReset(ctx context.Context, token, newPassword string) error {
	logger.Info("[Auth] Confirming password reset")

	if err := f.preflight(); err != nil {
		return err
	}

	if token == "" {
		return errors.New(MsgResetLinkInvalid)
	}
	if len(newPassword) < 6 {
		return errors.New(MsgPasswordTooShort)
	}

	reset, err := f.resets.ConsumeReset(token)
	if err != nil {
		if errors.Is(err, repository.ErrResetNotFound) {
			logger.Warn("[Auth] Reset token rejected")
			return errors.New(MsgResetLinkInvalid)
		}
		logger.Error("[Auth] Reset token lookup failed", logger.ErrorField(err))
		return fmt.Errorf("Password reset failed: %v", err)
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("Password reset failed: %v", err)
	}
	if err := f.users.UpdatePassword(reset.UserID, hashed); err != nil {
		logger.Error("[Auth] Password update failed", logger.ErrorField(err))
		return fmt.Errorf("Password reset failed: %v", err)
	}

	logger.Info("[Auth] Password reset confirmed", logger.Int64("userId", reset.UserID))
	return nil
}

// Logout clears the cached session.
func (f *Facade) Logout(ctx context.Context) error {
	logger.Info("[Auth] Starting logout process")

	if err := f.preflight(); err != nil {
		return err
	}

	f.broker.publish(Session{State: StateAnonymous})
	logger.Info("[Auth] Logout successful")
	return nil
}
