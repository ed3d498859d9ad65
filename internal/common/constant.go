// Package common contains shared constants and sentinel errors used across
// the memberctl client layers.
package common

// Session store key names.
const (
	SessionKeyToken = "token"
	SessionKeyPhone = "phone"
)
