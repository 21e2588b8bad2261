package account

import (
	"strings"
	"unicode"
)

// Fixed user-facing messages.
const (
	MsgMissingCredentials  = "Please enter a username and password"
	MsgSpacesInCredentials = "Username and password cannot contain spaces"
	MsgLoginFailed         = "Login failed -- check your username and password"
	MsgCreateFailed        = "Account creation failed. An account with that username may already exist."
)

// ValidateCredentials checks credentials locally and returns the user-facing
// message for the first violation, or "".
func ValidateCredentials(username, password string) string {
	if username == "" || password == "" {
		return MsgMissingCredentials
	}
	if hasSpace(username) || hasSpace(password) {
		return MsgSpacesInCredentials
	}
	return ""
}

func hasSpace(s string) bool {
	return strings.ContainsFunc(s, unicode.IsSpace)
}
