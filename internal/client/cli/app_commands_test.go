package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pastefconnect/memberctl/internal/client/models"
	"github.com/pastefconnect/memberctl/internal/client/services"
	"github.com/pastefconnect/memberctl/internal/common"
	"github.com/pastefconnect/memberctl/internal/logging"
)

type fakeAuthSvc struct {
	requestedPhones []string
	requestErr      error

	verifyPhone string
	verifyCode  string
	verifyErr   error

	loginPhone string
	loginPass  string
	loginErr   error

	logoutCalls int

	account    *models.Account
	currentErr error

	loggedIn  bool
	lastPhone string
}

func (f *fakeAuthSvc) RequestCode(_ context.Context, rawPhone string) (string, error) {
	f.requestedPhones = append(f.requestedPhones, rawPhone)
	if f.requestErr != nil {
		return "", f.requestErr
	}
	return "+221" + strings.ReplaceAll(rawPhone, " ", ""), nil
}

func (f *fakeAuthSvc) VerifyCode(_ context.Context, phoneNumber, code string) error {
	f.verifyPhone, f.verifyCode = phoneNumber, code
	return f.verifyErr
}

func (f *fakeAuthSvc) PasswordLogin(_ context.Context, rawPhone, password string) (string, error) {
	f.loginPhone, f.loginPass = rawPhone, password
	return rawPhone, f.loginErr
}

func (f *fakeAuthSvc) Logout(context.Context) error {
	f.logoutCalls++
	return nil
}

func (f *fakeAuthSvc) CurrentUser(context.Context) (*models.Account, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return f.account, nil
}

func (f *fakeAuthSvc) IsLoggedIn(context.Context) bool       { return f.loggedIn }
func (f *fakeAuthSvc) TokenRole(context.Context) models.Role { return "" }
func (f *fakeAuthSvc) LastPhone(context.Context) string      { return f.lastPhone }
func (f *fakeAuthSvc) Close(context.Context) error           { return nil }

type fakeProfileSvc struct {
	account *models.Account
	loadErr error

	saved   []models.UserProfile
	saveErr error

	signedUp  []models.UserProfile
	signupErr error
}

func (f *fakeProfileSvc) Load(context.Context) (*models.Account, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.account, nil
}

func (f *fakeProfileSvc) Save(_ context.Context, p models.UserProfile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, p)
	return nil
}

func (f *fakeProfileSvc) Signup(_ context.Context, p models.UserProfile) error {
	if f.signupErr != nil {
		return f.signupErr
	}
	f.signedUp = append(f.signedUp, p)
	return nil
}

type fakeAdminSvc struct {
	role models.Role

	refreshPage, refreshSize int
	refreshCalls             int
	refreshErr               error

	setRoleID   string
	setRoleRole models.Role
	setRoleErr  error

	setPassID  string
	setPassPw  string
	setPassErr error

	deletedID string
	deleteErr error

	exportPath string
	exportErr  error

	dashboard *services.Dashboard
}

func (f *fakeAdminSvc) UseRole(role models.Role) { f.role = role }

func (f *fakeAdminSvc) Refresh(_ context.Context, page, size int) (*services.Dashboard, error) {
	f.refreshCalls++
	f.refreshPage, f.refreshSize = page, size
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.dashboard, nil
}

func (f *fakeAdminSvc) SetRole(_ context.Context, userID string, role models.Role) (*services.Dashboard, error) {
	f.setRoleID, f.setRoleRole = userID, role
	if f.setRoleErr != nil {
		return nil, f.setRoleErr
	}
	return f.dashboard, nil
}

func (f *fakeAdminSvc) SetPassword(_ context.Context, userID, password string) error {
	f.setPassID, f.setPassPw = userID, password
	return f.setPassErr
}

func (f *fakeAdminSvc) DeleteUser(_ context.Context, userID string) (*services.Dashboard, error) {
	f.deletedID = userID
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return f.dashboard, nil
}

func (f *fakeAdminSvc) Export(context.Context) (string, error) {
	if f.exportErr != nil {
		return "", f.exportErr
	}
	return f.exportPath, nil
}

func emptyDashboard() *services.Dashboard {
	return &services.Dashboard{
		Stats: &models.AdminStats{},
		Users: &models.PagedUsers{},
	}
}

func newTestApp(input string) (*App, *fakeAuthSvc, *fakeProfileSvc, *fakeAdminSvc) {
	auth := &fakeAuthSvc{}
	profile := &fakeProfileSvc{}
	admin := &fakeAdminSvc{dashboard: emptyDashboard()}
	app := &App{
		log:            logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		authService:    auth,
		profileService: profile,
		adminService:   admin,
		reader:         bufio.NewReader(strings.NewReader(input)),
	}
	return app, auth, profile, admin
}

// stubPrompts replaces the interactive seams with queued answers. getSimpleText
// pops from texts; getPassword always returns password.
func stubPrompts(t *testing.T, texts []string, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	queue := texts
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(queue) == 0 {
			return "", io.EOF
		}
		v := queue[0]
		queue = queue[1:]
		return v, nil
	}
	getPassword = func(_ string, _ io.Writer) (string, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func TestRequestCode_StoresPendingPhone(t *testing.T) {
	muteOutput(t)
	app, auth, _, _ := newTestApp("")
	stubPrompts(t, []string{"771234567"}, "")

	require.NoError(t, app.RequestCode(context.Background()))
	require.Equal(t, []string{"771234567"}, auth.requestedPhones)
	require.Equal(t, "+221771234567", app.pendingPhone)
}

func TestRequestCode_EmptyInputReusesLastPhone(t *testing.T) {
	muteOutput(t)
	app, auth, _, _ := newTestApp("")
	auth.lastPhone = "+221771234567"
	stubPrompts(t, []string{""}, "")

	require.NoError(t, app.RequestCode(context.Background()))
	require.Equal(t, []string{"+221771234567"}, auth.requestedPhones)
}

func TestVerify_ClearsPendingAndLoadsAccount(t *testing.T) {
	muteOutput(t)
	app, auth, _, admin := newTestApp("")
	auth.account = &models.Account{Phone: "+221771234567", Role: models.RoleAdmin}
	app.pendingPhone = "+221771234567"
	stubPrompts(t, []string{"123456"}, "")

	require.NoError(t, app.Verify(context.Background()))
	require.Equal(t, "+221771234567", auth.verifyPhone)
	require.Equal(t, "123456", auth.verifyCode)
	require.Empty(t, app.pendingPhone)
	require.True(t, app.isAdmin())
	require.Equal(t, models.RoleAdmin, admin.role)
}

func TestVerify_WithoutPendingAsksForPhoneFirst(t *testing.T) {
	muteOutput(t)
	app, auth, _, _ := newTestApp("")
	auth.account = &models.Account{Phone: "+221771234567"}
	stubPrompts(t, []string{"771234567", "654321"}, "")

	require.NoError(t, app.Verify(context.Background()))
	require.Equal(t, []string{"771234567"}, auth.requestedPhones)
	require.Equal(t, "654321", auth.verifyCode)
}

func TestVerify_FailureKeepsPendingPhone(t *testing.T) {
	muteOutput(t)
	app, auth, _, _ := newTestApp("")
	auth.verifyErr = errors.New("code expiré")
	app.pendingPhone = "+221771234567"
	stubPrompts(t, []string{"123456"}, "")

	require.Error(t, app.Verify(context.Background()))
	require.Equal(t, "+221771234567", app.pendingPhone)
	require.False(t, app.isLoggedIn())
}

func TestResend_WithoutPendingDoesNothing(t *testing.T) {
	muteOutput(t)
	app, auth, _, _ := newTestApp("")

	require.NoError(t, app.Resend(context.Background()))
	require.Empty(t, auth.requestedPhones)
}

func TestResend_ReusesPendingPhone(t *testing.T) {
	muteOutput(t)
	app, auth, _, _ := newTestApp("")
	app.pendingPhone = "+221771234567"

	require.NoError(t, app.Resend(context.Background()))
	require.Equal(t, []string{"+221771234567"}, auth.requestedPhones)
}

func TestPasswordLogin(t *testing.T) {
	muteOutput(t)
	app, auth, _, _ := newTestApp("")
	auth.account = &models.Account{Phone: "+221771234567", Role: models.RoleUser}
	stubPrompts(t, []string{"771234567"}, "s3cret")

	require.NoError(t, app.PasswordLogin(context.Background()))
	require.Equal(t, "771234567", auth.loginPhone)
	require.Equal(t, "s3cret", auth.loginPass)
	require.True(t, app.isLoggedIn())
	require.False(t, app.isAdmin())
}

func TestLogout_ResetsAccountAndRole(t *testing.T) {
	muteOutput(t)
	app, auth, _, admin := newTestApp("")
	app.useAccount(&models.Account{Phone: "+221771234567", Role: models.RoleAdmin})
	app.pendingPhone = "+221770000000"

	require.NoError(t, app.Logout(context.Background()))
	require.Equal(t, 1, auth.logoutCalls)
	require.False(t, app.isLoggedIn())
	require.Empty(t, app.pendingPhone)
	require.Equal(t, models.Role(""), admin.role)
}

func TestMe_RefreshesRole(t *testing.T) {
	muteOutput(t)
	app, _, profile, admin := newTestApp("")
	profile.account = &models.Account{
		Phone:   "+221771234567",
		Role:    models.RoleAdminView,
		Profile: &models.UserProfile{Prenom: "Awa", Nom: "Diop", IsMember: true},
	}

	require.NoError(t, app.Me(context.Background()))
	require.Equal(t, models.RoleAdminView, admin.role)
}

func TestEdit_SubmitsChangedProfile(t *testing.T) {
	muteOutput(t)

	// Six text fields, four toggles; empty lines keep the base value.
	input := strings.Join([]string{
		"",         // prenom
		"Ndiaye",   // nom
		"",         // commune
		"",         // date de naissance
		"",         // carte d'identite
		"",         // date d'expiration
		"oui",      // carte d'electeur
		"",         // non vote
		"",         // non inscrit
		"non",      // membre
		"",
	}, "\n")

	app, _, profile, _ := newTestApp(input)
	app.account = &models.Account{
		Phone: "+221771234567",
		Profile: &models.UserProfile{
			Commune:       "Dakar",
			Prenom:        "Awa",
			Nom:           "Diop",
			DateNaissance: "1990-01-15",
			CarteIdentite: "CNI123456",
			IsMember:      true,
		},
	}

	require.NoError(t, app.Edit(context.Background()))
	require.Len(t, profile.saved, 1)

	got := profile.saved[0]
	require.Equal(t, "Awa", got.Prenom)
	require.Equal(t, "Ndiaye", got.Nom)
	require.True(t, got.CarteElecteur)
	require.False(t, got.IsMember)
	require.Equal(t, got, *app.account.Profile)
}

func TestEdit_ValidationFailureNotStored(t *testing.T) {
	muteOutput(t)
	input := strings.Repeat("\n", 10)

	app, _, profile, _ := newTestApp(input)
	profile.saveErr = &services.ProfileValidationError{Fields: models.FieldErrors{"nom": "trop court"}}
	app.account = &models.Account{Phone: "+221771234567"}

	require.Error(t, app.Edit(context.Background()))
	require.Empty(t, profile.saved)
	require.Nil(t, app.account.Profile)
}

func TestSignup_NormalizesPhone(t *testing.T) {
	muteOutput(t)

	input := strings.Join([]string{
		"Moussa",     // prenom
		"Ndiaye",     // nom
		"Thies",      // commune
		"1985-06-01", // date de naissance
		"CNI98765",   // carte d'identite
		"2030-06-01", // date d'expiration
		"",           // carte d'electeur
		"",           // non vote
		"oui",        // non inscrit
		"",           // membre
		"",
	}, "\n")

	app, _, profile, _ := newTestApp(input)
	stubPrompts(t, []string{"77 123 45 67"}, "")

	require.NoError(t, app.Signup(context.Background()))
	require.Len(t, profile.signedUp, 1)
	require.Equal(t, "+221771234567", profile.signedUp[0].Phone)
	require.True(t, profile.signedUp[0].NonInscrit)
}

func TestUsers_ParsesPageAndSize(t *testing.T) {
	muteOutput(t)
	app, _, _, admin := newTestApp("")

	require.NoError(t, app.Users(context.Background(), []string{"2", "50"}))
	require.Equal(t, 1, admin.refreshCalls)
	require.Equal(t, 2, admin.refreshPage)
	require.Equal(t, 50, admin.refreshSize)
}

func TestUsers_BadArgsDoNotHitServer(t *testing.T) {
	muteOutput(t)
	app, _, _, admin := newTestApp("")

	require.NoError(t, app.Users(context.Background(), []string{"abc"}))
	require.Zero(t, admin.refreshCalls)
}

func TestUsers_ForbiddenPrintsHint(t *testing.T) {
	var captured strings.Builder
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		captured.WriteString(fmt.Sprintln(args...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })

	app, _, _, admin := newTestApp("")
	admin.refreshErr = common.ErrForbidden

	require.Error(t, app.Users(context.Background(), nil))
	require.Contains(t, captured.String(), "réservée aux administrateurs")
}

func TestSetRole_PromptsAndRefreshes(t *testing.T) {
	muteOutput(t)
	app, _, _, admin := newTestApp("")
	stubPrompts(t, []string{"8c2f0a52-9f3e-4d7b-9a44-111122223333", "ADMIN_VIEW"}, "")

	require.NoError(t, app.SetRole(context.Background()))
	require.Equal(t, "8c2f0a52-9f3e-4d7b-9a44-111122223333", admin.setRoleID)
	require.Equal(t, models.RoleAdminView, admin.setRoleRole)
}

func TestSetPassword(t *testing.T) {
	muteOutput(t)
	app, _, _, admin := newTestApp("")
	stubPrompts(t, []string{"8c2f0a52-9f3e-4d7b-9a44-111122223333"}, "nouveau6")

	require.NoError(t, app.SetPassword(context.Background()))
	require.Equal(t, "nouveau6", admin.setPassPw)
}

func TestDeleteUser_RequiresConfirmation(t *testing.T) {
	muteOutput(t)
	app, _, _, admin := newTestApp("non\n")
	stubPrompts(t, []string{"8c2f0a52-9f3e-4d7b-9a44-111122223333"}, "")

	require.NoError(t, app.DeleteUser(context.Background()))
	require.Empty(t, admin.deletedID)
}

func TestDeleteUser_Confirmed(t *testing.T) {
	muteOutput(t)
	app, _, _, admin := newTestApp("oui\n")
	stubPrompts(t, []string{"8c2f0a52-9f3e-4d7b-9a44-111122223333"}, "")

	require.NoError(t, app.DeleteUser(context.Background()))
	require.Equal(t, "8c2f0a52-9f3e-4d7b-9a44-111122223333", admin.deletedID)
}

func TestExport(t *testing.T) {
	muteOutput(t)
	app, _, _, admin := newTestApp("")
	admin.exportPath = "export/users-20260101-120000.xlsx"

	require.NoError(t, app.Export(context.Background()))
}

func TestRestoreSession(t *testing.T) {
	muteOutput(t)
	app, auth, _, admin := newTestApp("")
	auth.loggedIn = true
	auth.account = &models.Account{Phone: "+221771234567", Role: models.RoleAdmin}

	app.restoreSession(context.Background())
	require.True(t, app.isAdmin())
	require.Equal(t, models.RoleAdmin, admin.role)
}

func TestRestoreSession_DeadTokenDropped(t *testing.T) {
	muteOutput(t)
	app, auth, _, _ := newTestApp("")
	auth.loggedIn = true
	auth.currentErr = errors.New("token rejected")

	app.restoreSession(context.Background())
	require.False(t, app.isLoggedIn())
	require.Equal(t, 1, auth.logoutCalls)
}

func TestStatus(t *testing.T) {
	app, _, _, _ := newTestApp("")
	require.Equal(t, "", app.status())

	app.account = &models.Account{Phone: "+221771234567", Role: models.RoleAdmin}
	require.Equal(t, "(+221771234567 ADMIN)", app.status())
}
