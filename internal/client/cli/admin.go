package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pastefconnect/memberctl/internal/client/api"
	"github.com/pastefconnect/memberctl/internal/client/models"
	"github.com/pastefconnect/memberctl/internal/client/services"
	"github.com/pastefconnect/memberctl/internal/common"
)

// Users shows one page of the admin user list together with the aggregate
// counters. Optional args are "page" and "page size"; omitted values fall
// back to the first page and the configured size.
func (a *App) Users(ctx context.Context, args []string) error {
	page, size := 0, 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			printlnFn("Usage: users [page [size]]")
			return nil
		}
		page = n
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			printlnFn("Usage: users [page [size]]")
			return nil
		}
		size = n
	}

	d, err := a.adminService.Refresh(ctx, page, size)
	if err != nil {
		a.reportAdminError(ctx, err)
		return err
	}
	a.printDashboard(d)
	return nil
}

// Stats shows the aggregate counters without changing the current page.
func (a *App) Stats(ctx context.Context) error {
	d, err := a.adminService.Refresh(ctx, 0, 0)
	if err != nil {
		a.reportAdminError(ctx, err)
		return err
	}
	printStats(d.Stats)
	return nil
}

// SetRole asks for a user id and a role, applies the change and shows the
// refreshed dashboard.
func (a *App) SetRole(ctx context.Context) error {
	userID, err := getSimpleText(a.reader, "Identifiant utilisateur", os.Stdout)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Rôle (USER, ADMIN, ADMIN_VIEW)", os.Stdout)
	if err != nil {
		return err
	}

	d, err := a.adminService.SetRole(ctx, userID, models.Role(role))
	if err != nil {
		a.reportAdminError(ctx, err)
		return err
	}
	printlnFn("Rôle mis à jour.")
	a.printDashboard(d)
	return nil
}

// SetPassword sets a password on an account so it can use the password login
// path. The dashboard is not refreshed; nothing visible changes.
func (a *App) SetPassword(ctx context.Context) error {
	userID, err := getSimpleText(a.reader, "Identifiant utilisateur", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Nouveau mot de passe", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.adminService.SetPassword(ctx, userID, password); err != nil {
		a.reportAdminError(ctx, err)
		return err
	}
	printlnFn("Mot de passe défini.")
	return nil
}

// DeleteUser removes an account after an explicit confirmation and shows the
// refreshed dashboard.
func (a *App) DeleteUser(ctx context.Context) error {
	userID, err := getSimpleText(a.reader, "Identifiant utilisateur", os.Stdout)
	if err != nil {
		return err
	}
	ok, err := GetBool(a.reader, "Supprimer définitivement cet utilisateur ?", false, os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Suppression annulée.")
		return nil
	}

	d, err := a.adminService.DeleteUser(ctx, userID)
	if err != nil {
		a.reportAdminError(ctx, err)
		return err
	}
	printlnFn("Utilisateur supprimé.")
	a.printDashboard(d)
	return nil
}

// Export downloads the user spreadsheet and prints where it was saved.
func (a *App) Export(ctx context.Context) error {
	path, err := a.adminService.Export(ctx)
	if err != nil {
		a.reportAdminError(ctx, err)
		return err
	}
	printlnFn("Export enregistré:", path)
	return nil
}

func (a *App) printDashboard(d *services.Dashboard) {
	printStats(d.Stats)

	u := d.Users
	printlnFn(fmt.Sprintf("Page %d (taille %d), %d utilisateurs au total:", u.Page, u.Size, u.Total))
	for _, row := range u.Items {
		printlnFn(fmt.Sprintf("  %-36s  %-15s  %-10s  %s %s",
			row.UserID, row.Phone, row.Role, row.Prenom, row.Nom))
	}
}

func printStats(s *models.AdminStats) {
	printlnFn(fmt.Sprintf("Utilisateurs: %d  Membres: %d  Cartes d'électeur: %d  Non-votants: %d  Non inscrits: %d",
		s.TotalUsers, s.Members, s.VoterCards, s.NonVote, s.NonInscrit))
}

// reportAdminError translates the local gate failures into user-facing
// messages; everything else goes through the usual error logging.
func (a *App) reportAdminError(ctx context.Context, err error) {
	var ve *common.ValidationError
	switch {
	case errors.Is(err, common.ErrForbidden):
		printlnFn("Commande réservée aux administrateurs.")
	case errors.As(err, &ve):
		printlnFn("Entrée invalide:", ve.Message)
	default:
		a.log.Error(ctx, "admin operation failed", "error", api.UserMessage(err))
	}
}
