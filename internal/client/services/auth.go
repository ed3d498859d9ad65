// Package services contains the application services of the memberctl CLI.
// This file defines the authentication service: one-time-code and password
// login, session persistence, and local token inspection.
package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pastefconnect/memberctl/internal/client/api"
	"github.com/pastefconnect/memberctl/internal/client/models"
	"github.com/pastefconnect/memberctl/internal/client/session"
	"github.com/pastefconnect/memberctl/internal/common"
	"github.com/pastefconnect/memberctl/internal/phone"
)

var codeShape = regexp.MustCompile(`^\d{6}$`)

// AuthService drives the authentication state machine: anonymous, code
// requested, verified. The verified state is exactly "a token sits in the
// session store"; nothing else is tracked client-side.
//
// Contract:
//   - RequestCode: normalize and gate the phone locally, then ask the server
//     to send a one-time code. Returns the normalized phone for the follow-up
//     verify call. Re-invoking it is the resend operation.
//   - VerifyCode: gate the code shape locally (six digits), exchange it for a
//     token, persist {token, phone}. On any failure the store is untouched.
//   - PasswordLogin: the alternate path, gated on password length >= 4.
//   - Logout: drop the stored token unconditionally; the phone is kept so the
//     next login can pre-fill it.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	RequestCode(ctx context.Context, rawPhone string) (string, error)
	VerifyCode(ctx context.Context, phoneNumber, code string) error
	PasswordLogin(ctx context.Context, rawPhone, password string) (string, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.Account, error)
	IsLoggedIn(ctx context.Context) bool
	TokenRole(ctx context.Context) models.Role
	LastPhone(ctx context.Context) string
	Close(ctx context.Context) error
}

type authService struct {
	client api.Client
	store  session.Store
	parser *jwt.Parser
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(client api.Client, store session.Store) AuthService {
	return &authService{client: client, store: store, parser: jwt.NewParser()}
}

// normalizeAndGate applies the phone normalizer and the advisory validity
// check shared by both login paths. Failures never reach the network.
func normalizeAndGate(rawPhone string) (string, error) {
	normalized := phone.Normalize(rawPhone)
	if !phone.IsLikelyE164(normalized) {
		return "", common.NewValidationError("phone", "numéro de téléphone invalide")
	}
	return normalized, nil
}

func (a *authService) RequestCode(ctx context.Context, rawPhone string) (string, error) {
	normalized, err := normalizeAndGate(rawPhone)
	if err != nil {
		return "", err
	}
	if err := a.client.RequestOTP(ctx, normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

func (a *authService) VerifyCode(ctx context.Context, phoneNumber, code string) error {
	if !codeShape.MatchString(code) {
		return common.NewValidationError("code", "le code doit comporter 6 chiffres")
	}

	token, err := a.client.VerifyOTP(ctx, phoneNumber, code)
	if err != nil {
		return err
	}

	if err := a.store.Save(ctx, token, phoneNumber); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (a *authService) PasswordLogin(ctx context.Context, rawPhone, password string) (string, error) {
	normalized, err := normalizeAndGate(rawPhone)
	if err != nil {
		return "", err
	}
	if len(password) < 4 {
		return "", common.NewValidationError("password", "mot de passe trop court (minimum 4 caractères)")
	}

	token, err := a.client.PasswordLogin(ctx, normalized, password)
	if err != nil {
		return "", err
	}

	if err := a.store.Save(ctx, token, normalized); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	return normalized, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.ClearToken(ctx)
}

func (a *authService) CurrentUser(ctx context.Context) (*models.Account, error) {
	token, err := a.store.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, common.ErrNotLoggedIn
	}
	return a.client.CurrentUser(ctx)
}

// sessionClaims is the subset of token claims the client inspects locally.
// The signature is never checked here; only the server can do that.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (a *authService) claims(ctx context.Context) *sessionClaims {
	token, err := a.store.Token(ctx)
	if err != nil || token == "" {
		return nil
	}
	var c sessionClaims
	if _, _, err := a.parser.ParseUnverified(token, &c); err != nil {
		// Opaque tokens are fine; claim inspection is best-effort.
		return nil
	}
	return &c
}

// IsLoggedIn reports whether a usable token is stored. A token whose exp
// claim has passed counts as logged out, which spares the user a doomed
// round-trip before the server says 401.
func (a *authService) IsLoggedIn(ctx context.Context) bool {
	token, err := a.store.Token(ctx)
	if err != nil || token == "" {
		return false
	}
	if c := a.claims(ctx); c != nil && c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now()) {
		return false
	}
	return true
}

// TokenRole returns the role claim carried by the stored token, if any.
// It is a pre-gate hint for the UI; GET /me stays authoritative.
func (a *authService) TokenRole(ctx context.Context) models.Role {
	if c := a.claims(ctx); c != nil {
		return models.Role(c.Role)
	}
	return ""
}

func (a *authService) LastPhone(ctx context.Context) string {
	p, err := a.store.Phone(ctx)
	if err != nil {
		return ""
	}
	return p
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
