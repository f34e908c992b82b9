package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"
	"github.com/opst/todofab/pkg/configs/server"
	"github.com/opst/todofab/pkg/domain"
	"github.com/opst/todofab/pkg/domain/todofab"
	"github.com/opst/todofab/pkg/domain/todofab/db/postgres"
	"github.com/opst/todofab/pkg/jobs"
	"github.com/opst/todofab/pkg/loop/recurring"
	"github.com/opst/todofab/pkg/utils/args"
	"github.com/opst/todofab/pkg/utils/echoutil"
	"github.com/opst/todofab/pkg/utils/filewatch"
	"github.com/opst/todofab/pkg/utils/try"
)

func main() {
	logger := log.New("loops")
	logger.SetHeader(`${time_rfc3339} ${level} ${prefix}`)

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	pconfig := flag.String(
		"config", os.Getenv("TODOFAB_CONFIG"), "path to config file",
	)
	pSchemaRepo := flag.String(
		"schema-repo", os.Getenv("TODOFAB_SCHEMA"), "schema repository path",
	)
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	//-- which loop type to run
	loopType := args.Parser(domain.AsLoopType)
	flag.Var(loopType, "type", "one of loop type: goal-generation|goal-stats|goal-cleanup")
	//-- loop policy
	policy := args.Parser(recurring.ParsePolicy)
	flag.Var(
		policy, "policy",
		`loop policy, overriding the config file`+
			` (syntax: forever[:COOLDOWN]|backlog|daily:HH:MM|hourly:MM|weekly:DOW:HH:MM).`+
			` "forever[:COOLDOWN]" = run forever until error. When backlog is over, wait COOLDOWN.`+
			` "backlog" = run until error or backlog is over.`+
			` Schedules = run until error, waiting the next slot (in UTC) between cycles.`,
	)
	flag.Parse()

	lvl, ok := echoutil.ParseLevel(*loglevel)
	logger.SetLevel(lvl)
	if !ok {
		logger.Warnf("unknown loglevel: %s . fall-backed to warn", *loglevel)
	}

	if !loopType.IsSet() {
		logger.Fatal("-type is required")
	}

	{
		// watch config
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *pconfig)
		if err != nil {
			logger.Fatal(err)
		}
		defer cancel()
		ctx = wctx
	}

	conf := try.To(server.LoadServerConfig(*pconfig)).OrFatal(logger)
	manifest := try.To(jobs.ManifestOf(conf.Loops(), loopType.Value())).OrFatal(logger)
	if policy.IsSet() {
		manifest.Policy = policy.Value()
	}
	manifest.Policy = recurring.UntilError(manifest.Policy)

	todo := try.To(todofab.New(
		ctx, conf.Database().URI(),
		postgres.WithSchemaRepository(*pSchemaRepo),
		postgres.WithConnectTimeout(conf.Database().ConnectTimeout()),
		postgres.WithLogger(logger),
	)).OrFatal(logger)
	defer todo.Close()

	{
		ctx_, ccan := todo.Schema().Database().Context(ctx)
		defer ccan()
		ctx = ctx_
	}

	logger.Infof(
		`start loop "%s" /w policy "%s"`,
		loopType.Value(), manifest.Policy,
	)

	err := jobs.Start(ctx, logger, todo, nil, loopType.Value(), manifest)

	if err == nil {
		return
	} else if errors.Is(err, context.Canceled) {
		logger.Fatal(err, " (loop context is cancelled by: ", context.Cause(ctx), ")")
	}
	logger.Fatal(err)
}
