// Package session persists the client's durable state: the bearer token and
// the last-used phone number. That pair is the whole of what the client owns;
// everything else lives server-side.
package session

import "context"

// Store reads and writes the session pair. Reads returning an empty string
// mean "absent"; the caller decides whether that is an error.
//
// Writes are atomic value replacements. Save is the only way a token enters
// the store (successful verify or password login); ClearToken is the only way
// it leaves. The phone number survives logout so the next login can pre-fill
// it.
type Store interface {
	Token(ctx context.Context) (string, error)
	Phone(ctx context.Context) (string, error)
	Save(ctx context.Context, token, phone string) error
	ClearToken(ctx context.Context) error
}
