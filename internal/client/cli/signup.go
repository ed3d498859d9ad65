package cli

import (
	"context"
	"os"

	"github.com/pastefconnect/memberctl/internal/client/models"
	"github.com/pastefconnect/memberctl/internal/phone"
)

// Signup runs the public sign-up form. It is an anonymous flow: no session
// is created; the region and department configured for this deployment are
// attached by the profile service.
func (a *App) Signup(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Numéro de téléphone", os.Stdout)
	if err != nil {
		return err
	}

	p, err := a.promptProfile(ctx, models.UserProfile{Phone: phone.Normalize(raw)})
	if err != nil {
		return err
	}

	if err := a.profileService.Signup(ctx, p); err != nil {
		a.reportProfileError(ctx, err)
		return err
	}

	printlnFn("Inscription envoyée.")
	return nil
}
