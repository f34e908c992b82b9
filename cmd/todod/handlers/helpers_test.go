package handlers_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opst/todofab/cmd/todod/handlers"
	apierr "github.com/opst/todofab/pkg/api/types/errors"
	"github.com/opst/todofab/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

// 2026-10-15 is Thursday.
var now = time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)

func clock() time.Time {
	return now
}

var passwords = auth.Passwords{Cost: bcrypt.MinCost}

func newIssuer() *auth.Issuer {
	return auth.NewIssuer(
		[]byte("access-secret"), 15*time.Minute,
		[]byte("refresh-secret"), 30*24*time.Hour,
		auth.WithClock(clock),
	)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Logger.SetOutput(io.Discard)
	return e
}

func as(userId string, c echo.Context) echo.Context {
	handlers.SetUserId(c, userId)
	return c
}

func statusOf(err error) int {
	if herr := new(echo.HTTPError); errors.As(err, &herr) {
		return herr.Code
	}
	return 0
}

// reasonOf returns the reason in the error message, if err is an HTTPError built by apierr.
func reasonOf(err error) string {
	herr := new(echo.HTTPError)
	if !errors.As(err, &herr) {
		return ""
	}
	if msg, ok := herr.Message.(apierr.ErrorMessage); ok {
		return msg.Reason
	}
	return ""
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	if actual := statusOf(err); actual != code {
		t.Errorf("unexpected status: (actual, expected) = (%d, %d): %v", actual, code, err)
	}
}

func expectOK(t *testing.T, err error, resp *httptest.ResponseRecorder, code int) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Code != code {
		t.Errorf("unexpected status: (actual, expected) = (%d, %d)\n%s", resp.Code, code, resp.Body.String())
	}
}

func cookieOf(resp *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
