package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/opst/todofab/pkg/auth"
	"github.com/opst/todofab/pkg/configs/server"
	"github.com/opst/todofab/pkg/domain"
	"github.com/opst/todofab/pkg/domain/todofab"
	"github.com/opst/todofab/pkg/domain/todofab/db/postgres"
	"github.com/opst/todofab/pkg/jobs"
	"github.com/opst/todofab/pkg/metrics"
	"github.com/opst/todofab/pkg/utils/echoutil"
	"github.com/opst/todofab/pkg/utils/filewatch"
	"github.com/opst/todofab/pkg/utils/try"
	"golang.org/x/sync/errgroup"
)

func main() {
	pconfig := flag.String("config", os.Getenv("TODOFAB_CONFIG"), "path to config file")
	pSchemaRepo := flag.String("schema-repo", os.Getenv("TODOFAB_SCHEMA"), "schema repository path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	withLoops := flag.Bool("loops", false, "run recurring jobs of monthly goals in this process")
	flag.Parse()

	sigctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	conf, err := server.LoadServerConfig(*pconfig)
	if err != nil {
		e.Logger.Fatalf("can not read configration: %s", err)
	}

	// the server stops when the config file is modified, and the supervisor restarts it.
	ctx, cancelWatch, err := filewatch.UntilModifyContext(sigctx, *pconfig)
	if err != nil {
		e.Logger.Fatalf("can not watch configration: %s", err)
	}
	defer cancelWatch()

	todo := try.To(todofab.New(
		ctx, conf.Database().URI(),
		postgres.WithSchemaRepository(*pSchemaRepo),
		postgres.WithConnectTimeout(conf.Database().ConnectTimeout()),
		postgres.WithLogger(echoutil.NewLogger(e.Logger, "[database]")),
	)).OrFatal(e.Logger)
	defer todo.Close()

	{
		// stops when the schema repository gets newer than the database.
		ctx_, ccan := todo.Schema().Database().Context(ctx)
		defer ccan()
		ctx = ctx_
	}

	m := metrics.New()
	issuer := auth.NewIssuer(
		conf.Auth().AccessToken().Secret(), conf.Auth().AccessToken().TTL(),
		conf.Auth().RefreshToken().Secret(), conf.Auth().RefreshToken().TTL(),
	)
	if err := route(
		e, todo, issuer, auth.Passwords{Cost: conf.Auth().BcryptCost()}, m,
		serverOptions{
			allowOrigins: conf.CORS().AllowOrigins(),
			secureCookie: conf.Auth().SecureCookie(),
		},
	); err != nil {
		e.Logger.Fatalf("can not set routes: %s", err)
	}

	e.Logger.Info("registred routes:")
	for _, r := range e.Routes() {
		e.Logger.Info(r.Method, " ", r.Path)
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		err := e.Start(fmt.Sprintf(":%d", conf.Port()))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		<-gctx.Done()
		graceful, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(graceful)
	})

	if *withLoops {
		logger := echoutil.NewLogger(e.Logger, "")
		for _, typ := range domain.LoopTypes() {
			manifest := try.To(jobs.ManifestOf(conf.Loops(), typ)).OrFatal(e.Logger)
			logger.Infof(`start loop "%s" /w policy "%s"`, typ, manifest.Policy)
			eg.Go(func() error {
				err := jobs.Start(gctx, logger, todo, m, typ, manifest)
				if err == nil || errors.Is(err, context.Canceled) {
					return nil
				}
				return fmt.Errorf("loop %s: %w", typ, err)
			})
		}
	}

	if err := eg.Wait(); err != nil {
		e.Logger.Fatal(err)
	}
	if sigctx.Err() == nil {
		e.Logger.Fatalf("server is stopped: %s", context.Cause(ctx))
	}
}
