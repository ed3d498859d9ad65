package cli

import (
	"context"
	"os"

	"github.com/pastefconnect/memberctl/internal/client/api"
)

// Input indirections used to facilitate testing; they point to the
// interactive helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// RequestCode asks for a phone number (pre-filled with the last-used one)
// and requests a one-time code for it. The normalized number is remembered
// for the follow-up verify/resend commands.
func (a *App) RequestCode(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, a.phonePrompt(ctx), os.Stdout)
	if err != nil {
		return err
	}
	if raw == "" {
		raw = a.authService.LastPhone(ctx)
	}

	normalized, err := a.authService.RequestCode(ctx, raw)
	if err != nil {
		a.log.Error(ctx, "code request failed", "error", api.UserMessage(err))
		return err
	}

	a.pendingPhone = normalized
	a.log.Info(ctx, "code sent", "phone", normalized)
	return nil
}

func (a *App) phonePrompt(ctx context.Context) string {
	if last := a.authService.LastPhone(ctx); last != "" {
		return "Numéro de téléphone [" + last + "]"
	}
	return "Numéro de téléphone"
}

// Verify asks for the received code and completes the login. Without a prior
// code request it first asks for the phone number.
func (a *App) Verify(ctx context.Context) error {
	if a.pendingPhone == "" {
		if err := a.RequestCode(ctx); err != nil {
			return err
		}
	}

	code, err := getSimpleText(a.reader, "Code reçu par SMS", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.authService.VerifyCode(ctx, a.pendingPhone, code); err != nil {
		a.log.Error(ctx, "verification failed", "error", api.UserMessage(err))
		return err
	}

	a.pendingPhone = ""
	return a.afterLogin(ctx)
}

// Resend re-issues the code request for the pending phone number.
func (a *App) Resend(ctx context.Context) error {
	if a.pendingPhone == "" {
		printlnFn("No pending code request; use 'code' first.")
		return nil
	}
	if _, err := a.authService.RequestCode(ctx, a.pendingPhone); err != nil {
		a.log.Error(ctx, "resend failed", "error", api.UserMessage(err))
		return err
	}
	a.log.Info(ctx, "code re-sent", "phone", a.pendingPhone)
	return nil
}

// PasswordLogin is the alternate login path for accounts with a password.
func (a *App) PasswordLogin(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, a.phonePrompt(ctx), os.Stdout)
	if err != nil {
		return err
	}
	if raw == "" {
		raw = a.authService.LastPhone(ctx)
	}

	password, err := getPassword("Mot de passe", os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.authService.PasswordLogin(ctx, raw, password); err != nil {
		a.log.Error(ctx, "login failed", "error", api.UserMessage(err))
		return err
	}
	return a.afterLogin(ctx)
}

// afterLogin loads /me and propagates the server-reported role. The token is
// already persisted at this point; a /me failure leaves the user logged in
// but without a role, so admin commands stay hidden.
func (a *App) afterLogin(ctx context.Context) error {
	acc, err := a.authService.CurrentUser(ctx)
	if err != nil {
		a.log.Warn(ctx, "could not load account", "error", api.UserMessage(err))
		return err
	}
	a.useAccount(acc)
	a.log.Info(ctx, "logged in", "phone", acc.Phone, "role", acc.Role)
	return nil
}

// Logout drops the stored token and the in-memory account. It never refuses.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout cleanup failed", "error", err)
	}
	a.account = nil
	a.pendingPhone = ""
	a.adminService.UseRole("")
	printlnFn("Logged out.")
	return nil
}
