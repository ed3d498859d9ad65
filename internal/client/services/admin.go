package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pastefconnect/memberctl/internal/client/api"
	"github.com/pastefconnect/memberctl/internal/client/models"
	"github.com/pastefconnect/memberctl/internal/common"
	"github.com/pastefconnect/memberctl/internal/filex"
)

// Dashboard is one consistent snapshot of the admin view: the aggregate
// counters and the currently displayed page of users.
type Dashboard struct {
	Stats *models.AdminStats
	Users *models.PagedUsers
}

// AdminService drives the paginated admin view and its privileged write
// operations. Listing and statistics are open to ADMIN and ADMIN_VIEW;
// SetRole, SetPassword and DeleteUser are refused locally for anything but
// ADMIN. The server enforces the same rules authoritatively; the local gate
// only keeps doomed requests off the wire.
//
// Successful SetRole and DeleteUser re-fetch both the statistics and the
// current page, since counters and row state may have changed.
type AdminService interface {
	UseRole(role models.Role)
	Refresh(ctx context.Context, page, size int) (*Dashboard, error)
	SetRole(ctx context.Context, userID string, role models.Role) (*Dashboard, error)
	SetPassword(ctx context.Context, userID, password string) error
	DeleteUser(ctx context.Context, userID string) (*Dashboard, error)
	Export(ctx context.Context) (string, error)
}

type adminService struct {
	client api.Client

	role models.Role
	page int
	size int
}

// NewAdminService constructs an AdminService. The caller's role is unknown
// until UseRole is called with the value reported by GET /me.
func NewAdminService(client api.Client, defaultSize int) AdminService {
	return &adminService{client: client, page: 0, size: defaultSize}
}

func (s *adminService) UseRole(role models.Role) {
	s.role = role
}

// fetchBoth loads statistics and one page concurrently and joins the results.
// Either failure surfaces as a single aggregated error; a partial dashboard
// is never returned.
func (s *adminService) fetchBoth(ctx context.Context, page, size int) (*Dashboard, error) {
	var (
		wg    sync.WaitGroup
		stats *models.AdminStats
		users *models.PagedUsers

		statsErr error
		usersErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		stats, statsErr = s.client.AdminStats(ctx)
	}()
	go func() {
		defer wg.Done()
		users, usersErr = s.client.ListUsers(ctx, page, size)
	}()
	wg.Wait()

	if err := errors.Join(statsErr, usersErr); err != nil {
		return nil, err
	}
	return &Dashboard{Stats: stats, Users: users}, nil
}

func (s *adminService) Refresh(ctx context.Context, page, size int) (*Dashboard, error) {
	if !s.role.CanViewAdmin() {
		return nil, common.ErrForbidden
	}
	if size <= 0 {
		size = s.size
	}
	if page < 0 {
		page = 0
	}

	d, err := s.fetchBoth(ctx, page, size)
	if err != nil {
		return nil, err
	}
	s.page, s.size = page, size
	return d, nil
}

// gateMutation applies the checks shared by all privileged writes: the local
// role gate and a sanity check that userID is a well-formed UUID.
func (s *adminService) gateMutation(userID string) error {
	if !s.role.CanMutate() {
		return common.ErrForbidden
	}
	if _, err := uuid.Parse(userID); err != nil {
		return common.NewValidationError("userId", "identifiant utilisateur invalide")
	}
	return nil
}

func (s *adminService) SetRole(ctx context.Context, userID string, role models.Role) (*Dashboard, error) {
	if err := s.gateMutation(userID); err != nil {
		return nil, err
	}
	switch role {
	case models.RoleUser, models.RoleAdmin, models.RoleAdminView:
	default:
		return nil, common.NewValidationError("role", "rôle inconnu")
	}

	if err := s.client.SetRole(ctx, userID, role); err != nil {
		return nil, err
	}
	return s.fetchBoth(ctx, s.page, s.size)
}

func (s *adminService) SetPassword(ctx context.Context, userID, password string) error {
	if err := s.gateMutation(userID); err != nil {
		return err
	}
	if len(password) < 6 {
		return common.NewValidationError("password", "mot de passe trop court (minimum 6 caractères)")
	}
	return s.client.SetPassword(ctx, userID, password)
}

func (s *adminService) DeleteUser(ctx context.Context, userID string) (*Dashboard, error) {
	if err := s.gateMutation(userID); err != nil {
		return nil, err
	}
	if err := s.client.DeleteUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.fetchBoth(ctx, s.page, s.size)
}

// Export downloads the spreadsheet artifact into a local "export" directory
// and returns the written path. The file is saved as-is; its format is a
// server concern.
func (s *adminService) Export(ctx context.Context) (string, error) {
	if !s.role.CanViewAdmin() {
		return "", common.ErrForbidden
	}

	data, err := s.client.ExportUsers(ctx)
	if err != nil {
		return "", err
	}

	dir, err := filex.EnsureSubdDir("export")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("users-%s.xlsx", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
