package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	domerr "github.com/opst/todofab/pkg/domain/errors"
)

const MinPasswordLength = 6

type User struct {
	Id           string
	Name         string
	Email        string
	PasswordHash string
	AvatarUrl    string
	CreatedAt    time.Time
}

// NormalizeEmail trims and lower-cases email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a bare address (like "someone@example.com").
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email: %q", domerr.ErrInvalidValue, email)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf(
			"%w: password must be at least %d characters",
			domerr.ErrInvalidValue, MinPasswordLength,
		)
	}
	return nil
}

type UserSpec struct {
	Name         string
	Email        string
	PasswordHash string
}

type UserPatch struct {
	Name      *string
	AvatarUrl *string
}
