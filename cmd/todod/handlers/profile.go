package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	bindusers "github.com/opst/todofab/pkg/api-types-binding/users"
	apierr "github.com/opst/todofab/pkg/api/types/errors"
	apiusers "github.com/opst/todofab/pkg/api/types/users"
	"github.com/opst/todofab/pkg/auth"
	"github.com/opst/todofab/pkg/domain"
	domerr "github.com/opst/todofab/pkg/domain/errors"
	userdb "github.com/opst/todofab/pkg/domain/user/db"
)

func GetProfileHandler(dbuser userdb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := dbuser.Get(c.Request().Context(), UserId(c))
		if err != nil {
			return asHTTPError(err, "user")
		}
		return c.JSON(http.StatusOK, apiusers.Profile{User: bindusers.Compose(user)})
	}
}

func UpdateProfileHandler(dbuser userdb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := decodeJSON[apiusers.ProfileUpdate](c)
		if err != nil {
			return err
		}
		patch := domain.UserPatch{AvatarUrl: req.AvatarUrl}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apierr.BadRequest("name should not be empty", nil)
			}
			patch.Name = &name
		}

		user, err := dbuser.Update(c.Request().Context(), UserId(c), patch)
		if err != nil {
			return asHTTPError(err, "user")
		}
		return c.JSON(http.StatusOK, apiusers.Message{
			Message: "profile updated", User: bindusers.ComposeRef(user),
		})
	}
}

// checkPassword verifies the password of the user.
//
// A wrong password is 401.
func checkPassword(c echo.Context, dbuser userdb.UserInterface, passwords auth.Passwords, password string) (domain.User, error) {
	user, err := dbuser.Get(c.Request().Context(), UserId(c))
	if err != nil {
		return domain.User{}, asHTTPError(err, "user")
	}
	ok, err := passwords.Match(user.PasswordHash, password)
	if err != nil {
		return domain.User{}, apierr.InternalServerError(err)
	}
	if !ok {
		return domain.User{}, apierr.Unauthorized("password is incorrect")
	}
	return user, nil
}

// ChangePasswordHandler replaces the password. All refresh tokens of the user are revoked.
func ChangePasswordHandler(dbuser userdb.UserInterface, passwords auth.Passwords, sessions *Sessions) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := decodeJSON[apiusers.PasswordChange](c)
		if err != nil {
			return err
		}
		if err := domain.ValidatePassword(req.NewPassword); err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		user, err := checkPassword(c, dbuser, passwords, req.CurrentPassword)
		if err != nil {
			return err
		}

		hash, err := passwords.Hash(req.NewPassword)
		if err != nil {
			return asHTTPError(err, "")
		}
		if err := dbuser.ChangePassword(
			c.Request().Context(), user.Id, hash, sessions.issuer.Now(),
		); err != nil {
			return asHTTPError(err, "user")
		}
		sessions.clearCookie(c)
		return c.JSON(http.StatusOK, apiusers.Message{Message: "password changed. login again"})
	}
}

// DeleteAccountHandler removes the user with everything the user owns.
func DeleteAccountHandler(dbuser userdb.UserInterface, passwords auth.Passwords, sessions *Sessions) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := decodeJSON[apiusers.Deletion](c)
		if err != nil {
			return err
		}
		user, err := checkPassword(c, dbuser, passwords, req.Password)
		if err != nil {
			return err
		}
		if err := dbuser.Delete(c.Request().Context(), user.Id); err != nil && !errors.Is(err, domerr.ErrMissing) {
			return apierr.InternalServerError(err)
		}
		sessions.clearCookie(c)
		return c.JSON(http.StatusOK, apiusers.Message{Message: "account deleted"})
	}
}
