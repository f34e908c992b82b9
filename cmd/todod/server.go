package main

import (
	"net/url"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/opst/todofab/cmd/todod/handlers"
	"github.com/opst/todofab/pkg/auth"
	"github.com/opst/todofab/pkg/buildtime"
	"github.com/opst/todofab/pkg/domain/todofab"
	"github.com/opst/todofab/pkg/metrics"
	kstrings "github.com/opst/todofab/pkg/utils/strings"
)

type serverOptions struct {
	allowOrigins []string
	secureCookie bool
}

// route registers handlers of the API onto e.
func route(
	e *echo.Echo,
	todo todofab.Todofab,
	issuer *auth.Issuer,
	passwords auth.Passwords,
	m *metrics.Metrics,
	opts serverOptions,
) error {
	e.Use(m.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     opts.allowOrigins,
		AllowCredentials: true,
	}))

	api, err := root("/api")
	if err != nil {
		return err
	}

	users := todo.User().Database()
	tasks := todo.Task().Database()
	goals := todo.Goal().Database()
	sched := todo.Goal().Scheduler()
	sessions := handlers.NewSessions(issuer, todo.Token().Database(), opts.secureCookie)
	authn := handlers.Authenticate(issuer)

	e.GET("/", handlers.BannerHandler("todofab "+buildtime.VersionString()+"\n"))
	e.GET("/health/", handlers.HealthHandler(todo))
	e.GET("/metrics/", m.Handler())

	{
		e.POST(api("auth/register"), handlers.RegisterHandler(users, passwords, sessions))
		e.POST(api("auth/login"), handlers.LoginHandler(users, passwords, sessions))
		e.POST(api("auth/refresh"), handlers.RefreshHandler(sessions))
		e.POST(api("auth/logout"), handlers.LogoutHandler(sessions))
	}

	{
		e.GET(api("profile"), handlers.GetProfileHandler(users), authn)
		e.PUT(api("profile"), handlers.UpdateProfileHandler(users), authn)
		e.PUT(api("profile/password"), handlers.ChangePasswordHandler(users, passwords, sessions), authn)
		e.DELETE(api("profile"), handlers.DeleteAccountHandler(users, passwords, sessions), authn)
	}

	{
		id := "id"
		e.GET(api("tasks"), handlers.ListTasksHandler(tasks), authn)
		e.POST(api("tasks"), handlers.CreateTaskHandler(tasks), authn)
		e.POST(api("tasks/sync"), handlers.SyncTasksHandler(tasks, sched), authn)
		e.PUT(api("tasks/:id"), handlers.UpdateTaskHandler(tasks, sched, id), authn)
		e.DELETE(api("tasks/:id"), handlers.DeleteTaskHandler(tasks, sched, id), authn)
		e.DELETE(api("tasks/:id/hard"), handlers.HardDeleteTaskHandler(tasks, sched, id), authn)
		e.POST(api("tasks/:id/restore"), handlers.RestoreTaskHandler(tasks, id), authn)
	}

	{
		id := "id"
		e.GET(api("monthly-goals"), handlers.ListGoalsHandler(goals, sched.Now), authn)
		e.POST(api("monthly-goals"), handlers.CreateGoalHandler(goals, sched, m), authn)
		e.GET(api("monthly-goals/progress/report"), handlers.ProgressReportHandler(goals, sched.Now), authn)
		e.GET(api("monthly-goals/:id"), handlers.GetGoalHandler(goals, tasks, sched, id), authn)
		e.PUT(api("monthly-goals/:id"), handlers.UpdateGoalHandler(goals, sched, m, id), authn)
		e.DELETE(api("monthly-goals/:id"), handlers.DeleteGoalHandler(goals, id), authn)
	}

	return nil
}

// create api URL factory
//
// args:
//   - root: api root
//
// return:
// - func: it receive relative path from root, and returns full-path of URL.
func root(r string) (func(...string) string, error) {
	b, err := url.Parse(r)
	if err != nil {
		return nil, err
	}
	base := b.Path

	return func(s ...string) string {
		parts := make([]string, len(s)+1)
		parts[0] = base
		copy(parts[1:], s)
		p := path.Join(parts...)
		p = "/" + kstrings.TrimPrefixAll(p, "/")

		return kstrings.SuppySuffix(p, "/")
	}, nil
}

const shutdownTimeout = 15 * time.Second
