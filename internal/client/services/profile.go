package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pastefconnect/memberctl/internal/client/api"
	"github.com/pastefconnect/memberctl/internal/client/models"
)

// ProfileValidationError aggregates the per-field failures of a rejected
// profile submission. It blocks the call entirely; nothing reaches the wire.
type ProfileValidationError struct {
	Fields models.FieldErrors
}

func (e *ProfileValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("profil invalide: %s", strings.Join(names, ", "))
}

// ProfileService covers the self-service profile and the public sign-up
// form. Both submissions run the same validation engine; sign-up additionally
// carries the fixed region/department configured for the deployment.
type ProfileService interface {
	Load(ctx context.Context) (*models.Account, error)
	Save(ctx context.Context, p models.UserProfile) error
	Signup(ctx context.Context, p models.UserProfile) error
}

type profileService struct {
	client     api.Client
	region     string
	department string
}

// NewProfileService constructs a ProfileService. region and department are
// attached to public sign-ups only.
func NewProfileService(client api.Client, region, department string) ProfileService {
	return &profileService{client: client, region: region, department: department}
}

func (s *profileService) Load(ctx context.Context) (*models.Account, error) {
	return s.client.CurrentUser(ctx)
}

// validate reduces the candidate once more before checking, so a forbidden
// flag combination can never slip through even if a caller skipped the
// per-toggle corrections.
func validate(p models.UserProfile) (models.UserProfile, error) {
	p = models.ApplyInvariants(p)
	if fe := p.Validate(); !fe.Valid() {
		return p, &ProfileValidationError{Fields: fe}
	}
	return p, nil
}

func (s *profileService) Save(ctx context.Context, p models.UserProfile) error {
	p, err := validate(p)
	if err != nil {
		return err
	}
	return s.client.SaveProfile(ctx, p)
}

func (s *profileService) Signup(ctx context.Context, p models.UserProfile) error {
	p.Region = s.region
	p.Department = s.department

	p, err := validate(p)
	if err != nil {
		return err
	}
	return s.client.PublicSignup(ctx, p)
}
