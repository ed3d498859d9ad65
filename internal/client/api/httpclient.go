package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pastefconnect/memberctl/internal/client/models"
)

// HTTPClient implements Client over plain HTTP/JSON.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// NewHTTPClient builds a client for the API served at baseURL. The token
// source is consulted on every request, so session writes made elsewhere are
// picked up immediately.
func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// errBody is the shape servers use for failure payloads. Either field may be
// absent; message wins over error when both are present.
type errBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs one JSON round-trip. A non-nil in is marshalled as the request
// body; a non-nil out receives the decoded response. fallback becomes the
// user-facing message when the server provides none.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, fallback string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(ctx, req); err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Message: fallback, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.failure(resp, fallback)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &ProtocolError{Endpoint: path, Field: "body"}
		}
	}
	return nil
}

func (c *HTTPClient) authorize(ctx context.Context, req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// failure turns a non-2xx response into a RequestError, preferring the
// server's message field, then its error field, then the fallback.
func (c *HTTPClient) failure(resp *http.Response, fallback string) error {
	msg := fallback
	var eb errBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
		if eb.Message != "" {
			msg = eb.Message
		} else if eb.Error != "" {
			msg = eb.Error
		}
	}

	re := &RequestError{Status: resp.StatusCode, Message: msg}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		re.Err = ErrUnauthorized
	}
	return re
}

// tokenResponse is the shared shape of both login endpoints.
type tokenResponse struct {
	Token string `json:"token"`
}

func (c *HTTPClient) RequestOTP(ctx context.Context, phone string) error {
	in := map[string]string{"phone": phone}
	return c.do(ctx, http.MethodPost, "/auth/request-otp", in, nil,
		"Impossible d'envoyer le code. Réessayez.")
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, phone, code string) (string, error) {
	in := map[string]string{"phone": phone, "code": code}
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", in, &out,
		"Code invalide ou expiré."); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &ProtocolError{Endpoint: "/auth/verify-otp", Field: "token"}
	}
	return out.Token, nil
}

func (c *HTTPClient) PasswordLogin(ctx context.Context, phone, password string) (string, error) {
	in := map[string]string{"phone": phone, "password": password}
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login-password", in, &out,
		"Téléphone ou mot de passe incorrect."); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &ProtocolError{Endpoint: "/auth/login-password", Field: "token"}
	}
	return out.Token, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.Account, error) {
	var out models.Account
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out,
		"Impossible de charger le compte."); err != nil {
		return nil, err
	}
	if out.Phone == "" {
		return nil, &ProtocolError{Endpoint: "/me", Field: "phone"}
	}
	return &out, nil
}

func (c *HTTPClient) SaveProfile(ctx context.Context, p models.UserProfile) error {
	return c.do(ctx, http.MethodPut, "/me/profile", p, nil,
		"Échec de l'enregistrement du profil.")
}

func (c *HTTPClient) PublicSignup(ctx context.Context, p models.UserProfile) error {
	return c.do(ctx, http.MethodPost, "/public/profile", p, nil,
		"Échec de l'inscription.")
}

func (c *HTTPClient) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var out models.AdminStats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, &out,
		"Impossible de charger les statistiques."); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, page, size int) (*models.PagedUsers, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var out models.PagedUsers
	if err := c.do(ctx, http.MethodGet, "/admin/users?"+q.Encode(), nil, &out,
		"Impossible de charger la liste des utilisateurs."); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SetRole(ctx context.Context, userID string, role models.Role) error {
	in := map[string]models.Role{"role": role}
	return c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(userID)+"/role", in, nil,
		"Échec du changement de rôle.")
}

func (c *HTTPClient) SetPassword(ctx context.Context, userID, password string) error {
	in := map[string]string{"password": password}
	return c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(userID)+"/password", in, nil,
		"Échec du changement de mot de passe.")
}

func (c *HTTPClient) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(userID), nil, nil,
		"Échec de la suppression.")
}

// ExportUsers downloads the spreadsheet artifact as an opaque byte stream.
// The file format is produced server-side; no local parsing happens.
func (c *HTTPClient) ExportUsers(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/admin/export/users.xlsx", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Message: "Échec de l'export.", Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.failure(resp, "Échec de l'export.")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Message: "Échec de l'export.", Err: err}
	}
	return data, nil
}
