package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pastefconnect/memberctl/internal/client/api"
	"github.com/pastefconnect/memberctl/internal/client/models"
	"github.com/pastefconnect/memberctl/internal/client/services"
)

// Me prints the current account and profile.
func (a *App) Me(ctx context.Context) error {
	acc, err := a.profileService.Load(ctx)
	if err != nil {
		a.log.Error(ctx, "could not load account", "error", api.UserMessage(err))
		return err
	}
	a.useAccount(acc)

	printlnFn("Téléphone:", acc.Phone)
	if acc.Role != "" {
		printlnFn("Rôle:", string(acc.Role))
	}
	if acc.Profile == nil {
		printlnFn("Aucun profil enregistré; utilisez 'edit'.")
		return nil
	}
	printProfile(*acc.Profile)
	return nil
}

func printProfile(p models.UserProfile) {
	printlnFn("Prénom:", p.Prenom)
	printlnFn("Nom:", p.Nom)
	printlnFn("Commune:", p.Commune)
	printlnFn("Date de naissance:", p.DateNaissance)
	printlnFn("Carte d'identité:", p.CarteIdentite, "(expire:", p.DateExpiration+")")
	printlnFn("Carte d'électeur:", ouiNon(p.CarteElecteur))
	printlnFn("N'a pas voté:", ouiNon(p.NonVote))
	printlnFn("Non inscrit:", ouiNon(p.NonInscrit))
	printlnFn("Membre PASTEF:", ouiNon(p.IsMember))
	if p.IsMember {
		printlnFn("  Carte membre:", p.PastefCardNumber)
		printlnFn("  Section:", p.PastefSection)
		printlnFn("  Coordinateur:", p.CoordinatorPhone)
	}
}

func ouiNon(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}

// Edit walks the profile form and saves the result.
func (a *App) Edit(ctx context.Context) error {
	var base models.UserProfile
	if a.account != nil && a.account.Profile != nil {
		base = *a.account.Profile
	}

	p, err := a.promptProfile(ctx, base)
	if err != nil {
		return err
	}

	if err := a.profileService.Save(ctx, p); err != nil {
		a.reportProfileError(ctx, err)
		return err
	}

	if a.account != nil {
		a.account.Profile = &p
	}
	printlnFn("Profil enregistré.")
	return nil
}

// promptProfile collects every profile field, pre-filled from base. The
// invariant reducer runs after each toggle, so the form can never leave a
// forbidden flag combination behind.
func (a *App) promptProfile(ctx context.Context, base models.UserProfile) (models.UserProfile, error) {
	p := base
	r := a.reader
	var err error

	if p.Prenom, err = GetTextDefault(r, "Prénom", p.Prenom, os.Stdout); err != nil {
		return p, err
	}
	if p.Nom, err = GetTextDefault(r, "Nom", p.Nom, os.Stdout); err != nil {
		return p, err
	}
	if p.Commune, err = GetTextDefault(r, "Commune", p.Commune, os.Stdout); err != nil {
		return p, err
	}
	if p.DateNaissance, err = GetTextDefault(r, "Date de naissance (AAAA-MM-JJ)", p.DateNaissance, os.Stdout); err != nil {
		return p, err
	}
	if p.CarteIdentite, err = GetTextDefault(r, "Numéro de carte d'identité", p.CarteIdentite, os.Stdout); err != nil {
		return p, err
	}
	if p.DateExpiration, err = GetTextDefault(r, "Date d'expiration (AAAA-MM-JJ)", p.DateExpiration, os.Stdout); err != nil {
		return p, err
	}

	carte, err := GetBool(r, "Avez-vous une carte d'électeur ?", p.CarteElecteur, os.Stdout)
	if err != nil {
		return p, err
	}
	p = p.WithCarteElecteur(carte)

	nonVote, err := GetBool(r, "Inscrit mais n'a pas voté ?", p.NonVote, os.Stdout)
	if err != nil {
		return p, err
	}
	p = p.WithNonVote(nonVote)

	nonInscrit, err := GetBool(r, "Non inscrit sur les listes ?", p.NonInscrit, os.Stdout)
	if err != nil {
		return p, err
	}
	p = p.WithNonInscrit(nonInscrit)

	member, err := GetBool(r, "Membre PASTEF ?", p.IsMember, os.Stdout)
	if err != nil {
		return p, err
	}
	p = p.WithIsMember(member)

	if p.IsMember {
		if p.PastefCardNumber, err = GetTextDefault(r, "Numéro de carte membre", p.PastefCardNumber, os.Stdout); err != nil {
			return p, err
		}
		if p.PastefSection, err = GetTextDefault(r, "Section", p.PastefSection, os.Stdout); err != nil {
			return p, err
		}
		if p.CoordinatorPhone, err = GetTextDefault(r, "Téléphone du coordinateur", p.CoordinatorPhone, os.Stdout); err != nil {
			return p, err
		}
	}

	return p, nil
}

// reportProfileError prints validation failures field by field; anything
// else goes through the usual error logging.
func (a *App) reportProfileError(ctx context.Context, err error) {
	var pve *services.ProfileValidationError
	if !errors.As(err, &pve) {
		a.log.Error(ctx, "profile submission failed", "error", api.UserMessage(err))
		return
	}

	fields := make([]string, 0, len(pve.Fields))
	for f := range pve.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	printlnFn("Le profil contient des erreurs:")
	for _, f := range fields {
		printlnFn(fmt.Sprintf("  - %s: %s", f, pve.Fields[f]))
	}
}
