package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/opst/todofab/cmd/todod/handlers"
	httptestutil "github.com/opst/todofab/internal/testutils/http"
	apiusers "github.com/opst/todofab/pkg/api/types/users"
	"github.com/opst/todofab/pkg/domain"
	domerr "github.com/opst/todofab/pkg/domain/errors"
	tokenmock "github.com/opst/todofab/pkg/domain/token/db/mock"
	usermock "github.com/opst/todofab/pkg/domain/user/db/mock"
	"github.com/opst/todofab/pkg/utils/try"
)

func userFixture(t *testing.T, password string) domain.User {
	return domain.User{
		Id:           "user-1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: try.To(passwords.Hash(password)).OrFatal(t),
		CreatedAt:    now.AddDate(0, -1, 0),
	}
}

func TestGetProfileHandler(t *testing.T) {
	t.Run("it responds the user without password", func(t *testing.T) {
		e := newEcho()
		dbuser := usermock.NewUserInterface()
		dbuser.Impl.Get = func(ctx context.Context, userId string) (domain.User, error) {
			return userFixture(t, "secret-pass"), nil
		}

		c, resp := httptestutil.Get(e, "/api/profile/")
		expectOK(t, handlers.GetProfileHandler(dbuser)(as("user-1", c)), resp, http.StatusOK)

		if dbuser.Calls.Get[0] != "user-1" {
			t.Errorf("user: %s", dbuser.Calls.Get[0])
		}
		body := httptestutil.Decode[apiusers.Profile](t, resp)
		if body.User.Id != "user-1" || body.User.Email != "alice@example.com" {
			t.Errorf("response: %+v", body)
		}
		if strings.Contains(resp.Body.String(), "$2a$") {
			t.Errorf("password hash is leaked: %s", resp.Body.String())
		}
	})

	t.Run("it responds 404 for a deleted user", func(t *testing.T) {
		e := newEcho()
		dbuser := usermock.NewUserInterface()
		dbuser.Impl.Get = func(ctx context.Context, userId string) (domain.User, error) {
			return domain.User{}, fmt.Errorf("%w: user", domerr.ErrMissing)
		}
		c, _ := httptestutil.Get(e, "/api/profile/")
		expectStatus(t, handlers.GetProfileHandler(dbuser)(as("user-1", c)), http.StatusNotFound)
	})
}

func TestUpdateProfileHandler(t *testing.T) {
	t.Run("it updates the name and the avatar", func(t *testing.T) {
		e := newEcho()
		dbuser := usermock.NewUserInterface()
		dbuser.Impl.Update = func(ctx context.Context, userId string, patch domain.UserPatch) (domain.User, error) {
			u := userFixture(t, "secret-pass")
			u.Name = *patch.Name
			return u, nil
		}

		c, resp := httptestutil.Put(e, "/api/profile/", strings.NewReader(
			`{"name": " Bob ", "avatarUrl": "https://example.com/bob.png"}`,
		))
		expectOK(t, handlers.UpdateProfileHandler(dbuser)(as("user-1", c)), resp, http.StatusOK)

		patch := dbuser.Calls.Update[0].Patch
		if *patch.Name != "Bob" || *patch.AvatarUrl != "https://example.com/bob.png" {
			t.Errorf("patch: %+v", patch)
		}
		if body := httptestutil.Decode[apiusers.Message](t, resp); body.User == nil || body.User.Name != "Bob" {
			t.Errorf("response: %+v", body)
		}
	})

	t.Run("it rejects an empty name", func(t *testing.T) {
		e := newEcho()
		dbuser := usermock.NewUserInterface()
		c, _ := httptestutil.Put(e, "/api/profile/", strings.NewReader(`{"name": "  "}`))
		expectStatus(t, handlers.UpdateProfileHandler(dbuser)(as("user-1", c)), http.StatusBadRequest)
	})
}

func TestChangePasswordHandler(t *testing.T) {
	for name, testcase := range map[string]struct {
		when apiusers.PasswordChange
		then int
	}{
		"correct current password": {
			when: apiusers.PasswordChange{CurrentPassword: "secret-pass", NewPassword: "new-secret"},
			then: http.StatusOK,
		},
		"wrong current password": {
			when: apiusers.PasswordChange{CurrentPassword: "wrong-pass", NewPassword: "new-secret"},
			then: http.StatusUnauthorized,
		},
		"short new password": {
			when: apiusers.PasswordChange{CurrentPassword: "secret-pass", NewPassword: "short"},
			then: http.StatusBadRequest,
		},
	} {
		t.Run(name, func(t *testing.T) {
			e := newEcho()
			dbuser := usermock.NewUserInterface()
			dbuser.Impl.Get = func(ctx context.Context, userId string) (domain.User, error) {
				return userFixture(t, "secret-pass"), nil
			}
			dbuser.Impl.ChangePassword = func(ctx context.Context, userId, hash string, at time.Time) error {
				return nil
			}

			sessions := handlers.NewSessions(newIssuer(), tokenmock.NewTokenInterface(), false)
			c, resp := httptestutil.Put(e, "/api/profile/password/", httptestutil.JSON(t, testcase.when))
			err := handlers.ChangePasswordHandler(dbuser, passwords, sessions)(as("user-1", c))

			if testcase.then != http.StatusOK {
				expectStatus(t, err, testcase.then)
				if dbuser.Calls.ChangePassword.Times() != 0 {
					t.Errorf("ChangePassword is called")
				}
				return
			}

			expectOK(t, err, resp, http.StatusOK)
			call := dbuser.Calls.ChangePassword[0]
			if call.UserId != "user-1" || !call.Now.Equal(now) {
				t.Errorf("change: %+v", call)
			}
			if ok := try.To(passwords.Match(call.PasswordHash, "new-secret")).OrFatal(t); !ok {
				t.Errorf("new password is not hashed")
			}
		})
	}
}

func TestDeleteAccountHandler(t *testing.T) {
	for name, testcase := range map[string]struct {
		password  string
		deleteErr error
		then      int
	}{
		"correct password":    {password: "secret-pass", then: http.StatusOK},
		"wrong password":      {password: "wrong-pass", then: http.StatusUnauthorized},
		"failure of database": {password: "secret-pass", deleteErr: errors.New("fake error"), then: http.StatusInternalServerError},
	} {
		t.Run(name, func(t *testing.T) {
			e := newEcho()
			dbuser := usermock.NewUserInterface()
			dbuser.Impl.Get = func(ctx context.Context, userId string) (domain.User, error) {
				return userFixture(t, "secret-pass"), nil
			}
			dbuser.Impl.Delete = func(ctx context.Context, userId string) error {
				return testcase.deleteErr
			}

			sessions := handlers.NewSessions(newIssuer(), tokenmock.NewTokenInterface(), false)
			c, resp := httptestutil.DeleteWithBody(
				e, "/api/profile/", httptestutil.JSON(t, apiusers.Deletion{Password: testcase.password}),
			)
			err := handlers.DeleteAccountHandler(dbuser, passwords, sessions)(as("user-1", c))

			if testcase.then != http.StatusOK {
				expectStatus(t, err, testcase.then)
				return
			}
			expectOK(t, err, resp, http.StatusOK)
			if dbuser.Calls.Delete.Times() != 1 || dbuser.Calls.Delete[0] != "user-1" {
				t.Errorf("deleted: %+v", dbuser.Calls.Delete)
			}
			if cookie := cookieOf(resp, handlers.RefreshTokenCookie); cookie == nil || 0 <= cookie.MaxAge {
				t.Errorf("cookie is not cleared: %+v", cookie)
			}
		})
	}
}
