package main

import (
	"fmt"
	"strings"

	"github.com/opst/todofab/pkg/domain"
	"github.com/opst/todofab/pkg/jobs"
	"github.com/spf13/cobra"
)

var jobNames = map[string]domain.LoopType{
	"generate": domain.GoalGenerationLoop,
	"stats":    domain.GoalStatsLoop,
	"cleanup":  domain.GoalCleanupLoop,
}

// jobOf accepts short names of jobs and loop types.
func jobOf(name string) (domain.LoopType, error) {
	if typ, ok := jobNames[name]; ok {
		return typ, nil
	}
	return domain.AsLoopType(name)
}

func newJobsCommand(a *app) *cobra.Command {
	var retentionMonths int

	run := &cobra.Command{
		Use:       "run generate|stats|cleanup",
		Short:     "Run a cycle of a recurring job of monthly goals",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"generate", "stats", "cleanup"},
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := jobOf(args[0])
			if err != nil {
				names := []string{}
				for _, t := range domain.LoopTypes() {
					names = append(names, t.String())
				}
				return fmt.Errorf("%w (should be one of generate, stats, cleanup, %s)", err, strings.Join(names, ", "))
			}

			conf, todo, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer todo.Close()

			retention := conf.Loops().RetentionMonths()
			if cmd.Flags().Changed("retention-months") {
				retention = retentionMonths
			}

			if err := jobs.RunOnce(cmd.Context(), a.logger, todo, nil, typ, retention); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is done\n", typ)
			return nil
		},
	}
	run.Flags().IntVar(&retentionMonths, "retention-months", 0, "override retention of the cleanup (months)")

	j := &cobra.Command{
		Use:   "jobs",
		Short: "Run recurring jobs on demand",
	}
	j.AddCommand(run)
	return j
}
