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
	tokendb "github.com/opst/todofab/pkg/domain/token/db"
	userdb "github.com/opst/todofab/pkg/domain/user/db"
)

// name of the cookie carrying refresh token.
const RefreshTokenCookie = "refreshToken"

const refreshTokenCookiePath = "/api/auth"

const userIdKey = "todofab.userId"

// SetUserId puts the authenticated user id into the request context.
func SetUserId(c echo.Context, userId string) {
	c.Set(userIdKey, userId)
}

// UserId returns the user id put by Authenticate. Empty when the request is not authenticated.
func UserId(c echo.Context) string {
	v, _ := c.Get(userIdKey).(string)
	return v
}

// Authenticate requires "Authorization: Bearer <access token>".
func Authenticate(issuer *auth.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scheme, token, _ := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
			if !strings.EqualFold(scheme, "bearer") || token == "" {
				return apierr.Unauthorized(
					"access token is required",
					apierr.WithAdvice(`set header "Authorization: Bearer <access token>"`),
				)
			}
			userId, err := issuer.VerifyAccess(token)
			if err != nil {
				return apierr.Unauthorized(
					"invalid access token",
					apierr.WithAdvice("refresh the access token, or login again"),
					apierr.WithError(err),
				)
			}
			SetUserId(c, userId)
			return next(c)
		}
	}
}

// Sessions issues token pairs and stores refresh tokens.
type Sessions struct {
	issuer       *auth.Issuer
	tokens       tokendb.TokenInterface
	secureCookie bool
}

func NewSessions(issuer *auth.Issuer, tokens tokendb.TokenInterface, secureCookie bool) *Sessions {
	return &Sessions{issuer: issuer, tokens: tokens, secureCookie: secureCookie}
}

func (s *Sessions) start(c echo.Context, userId string) (apiusers.Tokens, error) {
	access, err := s.issuer.Access(userId)
	if err != nil {
		return apiusers.Tokens{}, err
	}
	refresh, err := s.issuer.Refresh(userId)
	if err != nil {
		return apiusers.Tokens{}, err
	}
	if err := s.tokens.Save(c.Request().Context(), refresh); err != nil {
		return apiusers.Tokens{}, err
	}
	s.setCookie(c, refresh)
	return apiusers.Tokens{AccessToken: access, RefreshToken: refresh.Token}, nil
}

func (s *Sessions) setCookie(c echo.Context, rt domain.RefreshToken) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    rt.Token,
		Path:     refreshTokenCookiePath,
		Expires:  rt.ExpiresAt,
		MaxAge:   int(s.issuer.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Sessions) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		Path:     refreshTokenCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// refreshTokenOf takes a refresh token from the cookie, or from the body when no cookie is sent.
func refreshTokenOf(c echo.Context) string {
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if c.Request().ContentLength == 0 {
		return ""
	}
	body, err := decodeJSON[apiusers.Refresh](c)
	if err != nil {
		return ""
	}
	return body.RefreshToken
}

func RegisterHandler(dbuser userdb.UserInterface, passwords auth.Passwords, sessions *Sessions) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		req, err := decodeJSON[apiusers.Register](c)
		if err != nil {
			return err
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			return apierr.BadRequest("name is required", nil)
		}
		email := domain.NormalizeEmail(req.Email)
		if err := errors.Join(
			domain.ValidateEmail(email),
			domain.ValidatePassword(req.Password),
		); err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		hash, err := passwords.Hash(req.Password)
		if err != nil {
			return asHTTPError(err, "")
		}

		user, err := dbuser.Register(ctx, domain.UserSpec{Name: name, Email: email, PasswordHash: hash})
		if errors.Is(err, domerr.ErrConflict) {
			return apierr.Conflict(
				"email is already registered",
				apierr.WithAdvice("login, or use another email"),
				apierr.WithError(err),
			)
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		tokens, err := sessions.start(c, user.Id)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		tokens.User = bindusers.ComposeRef(user)
		return c.JSON(http.StatusCreated, tokens)
	}
}

func LoginHandler(dbuser userdb.UserInterface, passwords auth.Passwords, sessions *Sessions) echo.HandlerFunc {
	invalid := func(err error) error {
		return apierr.Unauthorized("invalid email or password", apierr.WithError(err))
	}

	return func(c echo.Context) error {
		ctx := c.Request().Context()
		req, err := decodeJSON[apiusers.Login](c)
		if err != nil {
			return err
		}

		user, err := dbuser.GetByEmail(ctx, domain.NormalizeEmail(req.Email))
		if errors.Is(err, domerr.ErrMissing) {
			return invalid(err)
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		ok, err := passwords.Match(user.PasswordHash, req.Password)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if !ok {
			return invalid(nil)
		}

		tokens, err := sessions.start(c, user.Id)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		tokens.User = bindusers.ComposeRef(user)
		return c.JSON(http.StatusOK, tokens)
	}
}

// RefreshHandler exchanges a refresh token for a new token pair.
//
// The presented token is revoked and replaced by the new one.
func RefreshHandler(sessions *Sessions) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		old := refreshTokenOf(c)
		if old == "" {
			return apierr.Unauthorized("refresh token is required")
		}

		issuer := sessions.issuer
		userId, err := issuer.VerifyRefresh(old)
		if err != nil {
			sessions.clearCookie(c)
			return apierr.Unauthorized("invalid refresh token", apierr.WithError(err))
		}

		renewed, err := issuer.Refresh(userId)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if err := sessions.tokens.Rotate(ctx, old, renewed, issuer.Now()); err != nil {
			if errors.Is(err, domerr.ErrMissing) || errors.Is(err, domerr.ErrInvalidState) {
				sessions.clearCookie(c)
				return apierr.Unauthorized(
					"refresh token is revoked or expired",
					apierr.WithAdvice("login again"),
					apierr.WithError(err),
				)
			}
			return apierr.InternalServerError(err)
		}

		access, err := issuer.Access(userId)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		sessions.setCookie(c, renewed)
		return c.JSON(http.StatusOK, apiusers.Tokens{AccessToken: access, RefreshToken: renewed.Token})
	}
}

// LogoutHandler revokes the presented refresh token, if any. It always succeeds.
func LogoutHandler(sessions *Sessions) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := refreshTokenOf(c); token != "" {
			if err := sessions.tokens.Revoke(c.Request().Context(), token, sessions.issuer.Now()); err != nil {
				c.Logger().Warnf("failed to revoke refresh token on logout: %s", err)
			}
		}
		sessions.clearCookie(c)
		return c.JSON(http.StatusOK, apiusers.Message{Message: "logged out"})
	}
}
