package services

import (
	"context"

	"github.com/pastefconnect/memberctl/internal/client/models"
)

// fakeClient implements api.Client for the service tests: preset results,
// captured arguments, call counters.
type fakeClient struct {
	RequestOTPErr   error
	RequestOTPCalls int
	LastOTPPhone    string

	VerifyOTPToken string
	VerifyOTPErr   error
	VerifyOTPCalls int
	LastVerifyCode string

	PasswordToken string
	PasswordErr   error
	PasswordCalls int

	Account        *models.Account
	CurrentUserErr error

	SaveProfileErr   error
	SaveProfileCalls int
	LastSavedProfile models.UserProfile

	SignupErr   error
	SignupCalls int
	LastSignup  models.UserProfile

	Stats      *models.AdminStats
	StatsErr   error
	StatsCalls int

	Page      *models.PagedUsers
	PageErr   error
	ListCalls int
	LastPage  int
	LastSize  int

	SetRoleErr   error
	SetRoleCalls int
	LastRoleID   string
	LastRole     models.Role

	SetPasswordErr   error
	SetPasswordCalls int

	DeleteErr    error
	DeleteCalls  int
	LastDeleteID string

	ExportData []byte
	ExportErr  error
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) RequestOTP(_ context.Context, phone string) error {
	f.RequestOTPCalls++
	f.LastOTPPhone = phone
	return f.RequestOTPErr
}

func (f *fakeClient) VerifyOTP(_ context.Context, phone, code string) (string, error) {
	f.VerifyOTPCalls++
	f.LastOTPPhone = phone
	f.LastVerifyCode = code
	return f.VerifyOTPToken, f.VerifyOTPErr
}

func (f *fakeClient) PasswordLogin(_ context.Context, phone, _ string) (string, error) {
	f.PasswordCalls++
	f.LastOTPPhone = phone
	return f.PasswordToken, f.PasswordErr
}

func (f *fakeClient) CurrentUser(context.Context) (*models.Account, error) {
	return f.Account, f.CurrentUserErr
}

func (f *fakeClient) SaveProfile(_ context.Context, p models.UserProfile) error {
	f.SaveProfileCalls++
	f.LastSavedProfile = p
	return f.SaveProfileErr
}

func (f *fakeClient) PublicSignup(_ context.Context, p models.UserProfile) error {
	f.SignupCalls++
	f.LastSignup = p
	return f.SignupErr
}

func (f *fakeClient) AdminStats(context.Context) (*models.AdminStats, error) {
	f.StatsCalls++
	return f.Stats, f.StatsErr
}

func (f *fakeClient) ListUsers(_ context.Context, page, size int) (*models.PagedUsers, error) {
	f.ListCalls++
	f.LastPage, f.LastSize = page, size
	return f.Page, f.PageErr
}

func (f *fakeClient) SetRole(_ context.Context, userID string, role models.Role) error {
	f.SetRoleCalls++
	f.LastRoleID, f.LastRole = userID, role
	return f.SetRoleErr
}

func (f *fakeClient) SetPassword(_ context.Context, userID, _ string) error {
	f.SetPasswordCalls++
	f.LastRoleID = userID
	return f.SetPasswordErr
}

func (f *fakeClient) DeleteUser(_ context.Context, userID string) error {
	f.DeleteCalls++
	f.LastDeleteID = userID
	return f.DeleteErr
}

func (f *fakeClient) ExportUsers(context.Context) ([]byte, error) {
	return f.ExportData, f.ExportErr
}

// memStore is an in-memory session.Store.
type memStore struct {
	token string
	phone string

	saveCalls int
	saveErr   error
}

func (m *memStore) Token(context.Context) (string, error) { return m.token, nil }
func (m *memStore) Phone(context.Context) (string, error) { return m.phone, nil }

func (m *memStore) Save(_ context.Context, token, phone string) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token, m.phone = token, phone
	return nil
}

func (m *memStore) ClearToken(context.Context) error {
	m.token = ""
	return nil
}
