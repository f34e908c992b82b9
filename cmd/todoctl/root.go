package main

import (
	"context"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/opst/todofab/pkg/configs/server"
	"github.com/opst/todofab/pkg/domain/todofab"
	"github.com/opst/todofab/pkg/domain/todofab/db/postgres"
	"github.com/opst/todofab/pkg/utils/echoutil"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	schemaRepo string
	loglevel   string

	logger *log.Logger

	loadConfig func(path string) (*server.ServerConfig, error)
	connect    func(ctx context.Context, conf *server.ServerConfig, schemaRepo string, logger *log.Logger) (todofab.Todofab, error)
}

func defaultApp() *app {
	logger := log.New("todoctl")
	logger.SetHeader(`${time_rfc3339} ${level} ${prefix}`)
	return &app{
		logger:     logger,
		loadConfig: server.LoadServerConfig,
		connect: func(ctx context.Context, conf *server.ServerConfig, schemaRepo string, logger *log.Logger) (todofab.Todofab, error) {
			return todofab.New(
				ctx, conf.Database().URI(),
				postgres.WithSchemaRepository(schemaRepo),
				postgres.WithConnectTimeout(conf.Database().ConnectTimeout()),
				postgres.WithLogger(logger),
			)
		},
	}
}

// open loads the config and connects to the database.
//
// The caller should Close the returned Todofab.
func (a *app) open(ctx context.Context) (*server.ServerConfig, todofab.Todofab, error) {
	conf, err := a.loadConfig(a.configPath)
	if err != nil {
		return nil, nil, err
	}
	todo, err := a.connect(ctx, conf, a.schemaRepo, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return conf, todo, nil
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "todoctl",
		Short: "Administrate todofab",
		Long: `todoctl administrates the database of todofab.

Examples:
  todoctl schema upgrade             # apply pending migrations
  todoctl schema version             # compare the database with the repository
  todoctl jobs run generate          # generate today's tasks of monthly goals
  todoctl jobs run cleanup           # purge old goal tasks and expired refresh tokens`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger.SetOutput(cmd.ErrOrStderr())
			lvl, ok := echoutil.ParseLevel(a.loglevel)
			a.logger.SetLevel(lvl)
			if !ok {
				a.logger.Warnf("unknown loglevel: %s . fall-backed to warn", a.loglevel)
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("TODOFAB_CONFIG"), "path to config file")
	root.PersistentFlags().StringVar(&a.schemaRepo, "schema-repo", os.Getenv("TODOFAB_SCHEMA"), "schema repository path")
	root.PersistentFlags().StringVar(&a.loglevel, "loglevel", "info", "log level. debug|info|warn|error|off")

	root.AddCommand(newSchemaCommand(a))
	root.AddCommand(newJobsCommand(a))
	root.AddCommand(newVersionCommand())
	return root
}
