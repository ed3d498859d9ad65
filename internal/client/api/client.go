// Package api contains the client-side building blocks for talking to the
// membership platform.
//
// It provides a transport-agnostic contract (the Client interface) covering
// every REST endpoint the application consumes, and a concrete HTTP/JSON
// implementation (HTTPClient) that injects the bearer token from an external
// token source, decodes per-endpoint response schemas at the boundary, and
// maps failures onto a small error taxonomy: ProtocolError for success
// responses with missing fields, RequestError for transport failures and
// non-2xx responses, with the ErrUnavailable and ErrUnauthorized sentinels
// matchable via errors.Is.
package api

import (
	"context"

	"github.com/pastefconnect/memberctl/internal/client/models"
)

// Client is the API surface of the remote membership platform.
type Client interface {
	Close() error

	// Anonymous authentication endpoints.
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (token string, err error)
	PasswordLogin(ctx context.Context, phone, password string) (token string, err error)

	// Authenticated self-service endpoints.
	CurrentUser(ctx context.Context) (*models.Account, error)
	SaveProfile(ctx context.Context, p models.UserProfile) error

	// Public sign-up (anonymous).
	PublicSignup(ctx context.Context, p models.UserProfile) error

	// Admin endpoints.
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	ListUsers(ctx context.Context, page, size int) (*models.PagedUsers, error)
	SetRole(ctx context.Context, userID string, role models.Role) error
	SetPassword(ctx context.Context, userID, password string) error
	DeleteUser(ctx context.Context, userID string) error
	ExportUsers(ctx context.Context) ([]byte, error)
}

// TokenSource supplies the bearer token injected on outbound requests.
// An empty token means the request goes out anonymous.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
