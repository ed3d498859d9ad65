// Package cli implements the interactive terminal client: a REPL over the
// authentication, profile and admin services.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/pastefconnect/memberctl/internal/client/api"
	"github.com/pastefconnect/memberctl/internal/client/config"
	"github.com/pastefconnect/memberctl/internal/client/models"
	"github.com/pastefconnect/memberctl/internal/client/services"
	"github.com/pastefconnect/memberctl/internal/client/session"
	"github.com/pastefconnect/memberctl/internal/logging"
)

// App holds the REPL's collaborators and the little view state it needs:
// the phone a code was requested for, and the account loaded after login.
type App struct {
	config         *config.Config
	log            logging.Logger
	db             *sql.DB
	authService    services.AuthService
	profileService services.ProfileService
	adminService   services.AdminService
	reader         *bufio.Reader

	// pendingPhone is the normalized number of the last code request; the
	// verify and resend commands operate on it.
	pendingPhone string

	// account is the /me snapshot of the logged-in user, nil when anonymous.
	account *models.Account
}

// NewApp wires the session store, the HTTP client and the services.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := session.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, err
	}

	store := session.NewSQLiteStore(db)
	apiClient := api.NewHTTPClient(c.APIBaseURL, store, c.RequestTimeout)

	return &App{
		config:         c,
		log:            logging.NewSlogLogger(slog.Default()),
		db:             db,
		authService:    services.NewAuthService(apiClient, store),
		profileService: services.NewProfileService(apiClient, c.PublicRegion, c.PublicDepartment),
		adminService:   services.NewAdminService(apiClient, c.PageSize),
		reader:         bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores any persisted session, then hands control to the REPL until
// the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.authService.Close(ctx)
		_ = a.db.Close()
	}()

	a.restoreSession(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

// restoreSession reloads the account behind a token left over from a
// previous run. A dead token is dropped silently; the user just logs in
// again.
func (a *App) restoreSession(ctx context.Context) {
	if !a.authService.IsLoggedIn(ctx) {
		return
	}
	acc, err := a.authService.CurrentUser(ctx)
	if err != nil {
		a.log.Warn(ctx, "stored session rejected, logging out", "error", err)
		_ = a.authService.Logout(ctx)
		return
	}
	a.useAccount(acc)
	a.log.Info(ctx, "session restored", "phone", acc.Phone, "role", acc.Role)
}

// useAccount records the /me snapshot and propagates the server-reported
// role to the admin controller.
func (a *App) useAccount(acc *models.Account) {
	a.account = acc
	a.adminService.UseRole(acc.Role)
}

func (a *App) isLoggedIn() bool {
	return a.account != nil
}

func (a *App) isAdmin() bool {
	return a.account != nil && a.account.Role.CanViewAdmin()
}

// status builds the prompt suffix: phone and role when logged in.
func (a *App) status() string {
	if a.account == nil {
		return ""
	}
	s := a.account.Phone
	if a.account.Role != "" {
		s += " " + string(a.account.Role)
	}
	return "(" + s + ")"
}
