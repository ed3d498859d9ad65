// Package models defines the data shapes exchanged with the membership API
// and the client-side validation rules applied before submission.
package models

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// UserProfile is the member profile as sent to PUT /me/profile and
// POST /public/profile. Phone is read-only after creation; the server
// ignores changes to it on profile updates.
type UserProfile struct {
	Commune        string `json:"commune"`
	Prenom         string `json:"prenom"`
	Nom            string `json:"nom"`
	DateNaissance  string `json:"dateNaissance"`
	Phone          string `json:"phone"`
	CarteIdentite  string `json:"carteIdentite"`
	DateExpiration string `json:"dateExpiration"`

	CarteElecteur bool `json:"carteElecteur"`
	NonVote       bool `json:"nonVote"`
	NonInscrit    bool `json:"nonInscrit"`

	IsMember         bool   `json:"isMember"`
	PastefCardNumber string `json:"pastefCardNumber,omitempty"`
	PastefSection    string `json:"pastefSection,omitempty"`
	CoordinatorPhone string `json:"coordinatorPhone,omitempty"`

	// Filled in by the public sign-up flow only; fixed by configuration.
	Region     string `json:"region,omitempty"`
	Department string `json:"department,omitempty"`
}

// FieldErrors maps a field name to a human-readable problem description.
// An empty map means the candidate profile is valid.
type FieldErrors map[string]string

// Valid reports whether no field failed validation.
func (fe FieldErrors) Valid() bool { return len(fe) == 0 }

// Validate runs all pre-submission checks and returns the per-field failures.
// It is a pure function: it never mutates the profile. The server re-validates
// everything; these checks only keep obviously broken payloads off the wire.
func (p UserProfile) Validate() FieldErrors {
	fe := FieldErrors{}

	requireMin(fe, "commune", p.Commune, 2)
	requireMin(fe, "prenom", p.Prenom, 2)
	requireMin(fe, "nom", p.Nom, 2)
	requireDate(fe, "dateNaissance", p.DateNaissance)
	requireMin(fe, "carteIdentite", p.CarteIdentite, 3)
	requireDate(fe, "dateExpiration", p.DateExpiration)

	// A person who is not registered on the electoral roll can neither hold a
	// voter card nor be flagged as an abstainer.
	if p.NonInscrit && p.NonVote {
		fe["nonVote"] = "incompatible avec non inscrit"
	}
	if p.NonInscrit && p.CarteElecteur {
		fe["carteElecteur"] = "incompatible avec non inscrit"
	}

	return fe
}

func requireMin(fe FieldErrors, field, value string, min int) {
	if len(strings.TrimSpace(value)) < min {
		fe[field] = "champ obligatoire"
	}
}

func requireDate(fe FieldErrors, field, value string) {
	if len(value) < 10 {
		fe[field] = "date invalide"
		return
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		fe[field] = "date invalide"
	}
}

// ApplyInvariants is the reducer that resolves the electoral flag rules after
// a field change. nonInscrit dominates: while set, the profile can carry
// neither a voter card nor the did-not-vote flag. Membership detail fields are
// meaningful only for members and are cleared otherwise.
//
// Running it after every mutation guarantees a later Validate pass never sees
// a forbidden flag combination reappear from stale state.
func ApplyInvariants(p UserProfile) UserProfile {
	if p.NonInscrit {
		p.CarteElecteur = false
		p.NonVote = false
	}
	if !p.IsMember {
		p.PastefCardNumber = ""
		p.PastefSection = ""
		p.CoordinatorPhone = ""
	}
	return p
}

// WithNonInscrit toggles the not-registered flag and reduces.
func (p UserProfile) WithNonInscrit(v bool) UserProfile {
	p.NonInscrit = v
	return ApplyInvariants(p)
}

// WithNonVote toggles the did-not-vote flag. Turning it on releases the
// not-registered flag first, so the reducer keeps the new value.
func (p UserProfile) WithNonVote(v bool) UserProfile {
	p.NonVote = v
	if v {
		p.NonInscrit = false
	}
	return ApplyInvariants(p)
}

// WithCarteElecteur toggles the voter-card flag. Turning it on releases the
// not-registered flag first.
func (p UserProfile) WithCarteElecteur(v bool) UserProfile {
	p.CarteElecteur = v
	if v {
		p.NonInscrit = false
	}
	return ApplyInvariants(p)
}

// WithIsMember toggles party membership and reduces, clearing the detail
// fields when membership is removed.
func (p UserProfile) WithIsMember(v bool) UserProfile {
	p.IsMember = v
	return ApplyInvariants(p)
}
