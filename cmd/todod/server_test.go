package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	httptestutil "github.com/opst/todofab/internal/testutils/http"
	"github.com/opst/todofab/pkg/auth"
	"github.com/opst/todofab/pkg/domain"
	"github.com/opst/todofab/pkg/domain/todofab"
	dbmock "github.com/opst/todofab/pkg/domain/todofab/db/mock"
	"github.com/opst/todofab/pkg/metrics"
	"github.com/opst/todofab/pkg/utils/try"
	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T, database *dbmock.TodoDatabase) (*echo.Echo, *auth.Issuer) {
	t.Helper()
	e := echo.New()
	e.Logger.SetOutput(io.Discard)
	e.Pre(middleware.AddTrailingSlash())

	issuer := auth.NewIssuer(
		[]byte("access-secret"), 15*time.Minute,
		[]byte("refresh-secret"), 24*time.Hour,
	)
	if err := route(
		e, todofab.Attach(database), issuer, auth.Passwords{Cost: bcrypt.MinCost}, metrics.New(),
		serverOptions{allowOrigins: []string{"http://localhost:5173"}},
	); err != nil {
		t.Fatal(err)
	}
	return e, issuer
}

func TestRoute(t *testing.T) {
	t.Run("health reports the database", func(t *testing.T) {
		for name, testcase := range map[string]struct {
			when error
			then int
		}{
			"reachable":   {when: nil, then: http.StatusOK},
			"unreachable": {when: errors.New("fake error"), then: http.StatusServiceUnavailable},
		} {
			t.Run(name, func(t *testing.T) {
				database := dbmock.New()
				database.PingErr = testcase.when
				e, _ := newServer(t, database)

				resp := httptestutil.Serve(e, http.MethodGet, "/health", nil)
				if resp.Code != testcase.then {
					t.Errorf("status: %d, want %d", resp.Code, testcase.then)
				}
			})
		}
	})

	t.Run("banner is served on the root", func(t *testing.T) {
		e, _ := newServer(t, dbmock.New())
		resp := httptestutil.Serve(e, http.MethodGet, "/", nil)
		if resp.Code != http.StatusOK || !strings.HasPrefix(resp.Body.String(), "todofab ") {
			t.Errorf("response: %d %s", resp.Code, resp.Body.String())
		}
	})

	t.Run("protected routes require an access token", func(t *testing.T) {
		e, _ := newServer(t, dbmock.New())
		for _, target := range []string{
			"/api/profile", "/api/tasks", "/api/monthly-goals", "/api/monthly-goals/progress/report",
		} {
			resp := httptestutil.Serve(e, http.MethodGet, target, nil)
			if resp.Code != http.StatusUnauthorized {
				t.Errorf("%s: status %d", target, resp.Code)
			}
		}
	})

	t.Run("an authenticated user gets the profile", func(t *testing.T) {
		database := dbmock.New()
		database.Users.Impl.Get = func(ctx context.Context, userId string) (domain.User, error) {
			return domain.User{Id: userId, Name: "Alice", Email: "alice@example.com"}, nil
		}
		e, issuer := newServer(t, database)
		token := try.To(issuer.Access("user-1")).OrFatal(t)

		resp := httptestutil.Serve(e, http.MethodGet, "/api/profile", nil, httptestutil.Bearer(token))
		if resp.Code != http.StatusOK {
			t.Fatalf("status: %d, %s", resp.Code, resp.Body.String())
		}
		if database.Users.Calls.Get.Times() != 1 || database.Users.Calls.Get[0] != "user-1" {
			t.Errorf("user: %+v", database.Users.Calls.Get)
		}
	})

	t.Run("progress report is not taken as a goal id", func(t *testing.T) {
		database := dbmock.New()
		database.Goals.Impl.Find = func(ctx context.Context, query domain.GoalFindQuery) ([]domain.MonthlyGoal, error) {
			return []domain.MonthlyGoal{}, nil
		}
		database.Goals.Impl.CountDoneTasks = func(ctx context.Context, userId string, since, until time.Time) (int, error) {
			return 0, nil
		}
		e, issuer := newServer(t, database)
		token := try.To(issuer.Access("user-1")).OrFatal(t)

		resp := httptestutil.Serve(
			e, http.MethodGet, "/api/monthly-goals/progress/report?month=10&year=2026", nil,
			httptestutil.Bearer(token),
		)
		if resp.Code != http.StatusOK {
			t.Fatalf("status: %d, %s", resp.Code, resp.Body.String())
		}
		if database.Goals.Calls.Find.Times() != 1 || database.Goals.Calls.Get.Times() != 0 {
			t.Errorf("goals: find %d, get %d", database.Goals.Calls.Find.Times(), database.Goals.Calls.Get.Times())
		}
	})

	t.Run("metrics count requests by route", func(t *testing.T) {
		e, _ := newServer(t, dbmock.New())
		httptestutil.Serve(e, http.MethodGet, "/api/tasks", nil)

		resp := httptestutil.Serve(e, http.MethodGet, "/metrics", nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("status: %d", resp.Code)
		}
		if !strings.Contains(resp.Body.String(), `todofab_http_requests_total{code="401",method="GET",route="/api/tasks/"} 1`) {
			t.Errorf("request is not counted:\n%s", resp.Body.String())
		}
	})
}

func TestRoot(t *testing.T) {
	api := try.To(root("/api")).OrFatal(t)
	for when, then := range map[string]string{
		"":                "/api/",
		"tasks":           "/api/tasks/",
		"tasks/:id/hard":  "/api/tasks/:id/hard/",
		"/monthly-goals/": "/api/monthly-goals/",
	} {
		if actual := api(when); actual != then {
			t.Errorf("api(%q) = %q, want %q", when, actual, then)
		}
	}
}
