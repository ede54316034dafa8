package account

import (
	"errors"
	"fmt"
	"strings"
)

// Operator-facing messages
const (
	MessageInvalidCredentials = "Invalid username or password"
	MessageConnectionError    = "Error connecting to server. Please try again."
	MessageAccountRemoved     = "Your account no longer exists. You have been logged out."
)

// Common errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyCredentials   = errors.New("username and password are required")
)

// Account is one row of the accounts table. Credentials are compared in plaintext
// against the table; the password is kept only to re-verify the session.
type Account struct {
	Username string `json:"username"`
	Password string `json:"-"`
	LogoURL  string `json:"logo_url"`
	FullName string `json:"full_name"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// IsActive reports whether the row's status is "active" in any case
func (a *Account) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(a.Status), "active")
}

// Matches reports whether the credentials equal the row exactly
func (a *Account) Matches(username, password string) bool {
	return a.Username == username && a.Password == password
}

// LoginRefusal is the message shown when an inactive account tries to log in
func (a *Account) LoginRefusal() string {
	if a.Message != "" {
		return a.Message
	}
	return fmt.Sprintf("Account %s. Please contact administrator.", a.Status)
}

// LogoutNotice is the message shown when an open session is ended because the
// account is no longer active
func (a *Account) LogoutNotice() string {
	if a.Message != "" {
		return a.Message
	}
	return fmt.Sprintf("Your account is now %s. You have been logged out.", a.Status)
}

// Find returns the first account whose credentials match
func Find(accounts []*Account, username, password string) (*Account, bool) {
	for _, acc := range accounts {
		if acc.Matches(username, password) {
			return acc, true
		}
	}
	return nil, false
}

// ErrAccountInactive indicates a login or re-verification against an account
// whose status is not active
type ErrAccountInactive struct {
	Username string
	Status   string
	Notice   string // Operator-facing message
}

func (e ErrAccountInactive) Error() string {
	return "account is not active: " + e.Username + " (" + e.Status + ")"
}
