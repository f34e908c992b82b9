package auth

import (
	"errors"
	"fmt"

	domerr "github.com/opst/todofab/pkg/domain/errors"
	"golang.org/x/crypto/bcrypt"
)

// Passwords hashes and checks passwords with bcrypt.
type Passwords struct {
	// bcrypt cost. When it is out of the range bcrypt accepts, bcrypt.DefaultCost is used.
	Cost int
}

func (p Passwords) cost() int {
	if p.Cost < bcrypt.MinCost || bcrypt.MaxCost < p.Cost {
		return bcrypt.DefaultCost
	}
	return p.Cost
}

func (p Passwords) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), p.cost())
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password is too long", domerr.ErrInvalidValue)
	} else if err != nil {
		return "", err
	}
	return string(h), nil
}

// Match reports whether the password matches the hash.
//
// Errors other than mismatch (e.g. broken hash) are returned.
func (p Passwords) Match(hash string, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
