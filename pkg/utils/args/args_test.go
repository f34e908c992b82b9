package args_test

import (
	"errors"
	"flag"
	"testing"

	"github.com/opst/todofab/pkg/domain"
	"github.com/opst/todofab/pkg/loop/recurring"
	"github.com/opst/todofab/pkg/utils/args"
)

func TestParser(t *testing.T) {
	t.Run("an acceptable loop type is set", func(t *testing.T) {
		testee := args.Parser(domain.AsLoopType)
		if testee.IsSet() || testee.String() != "" {
			t.Errorf("it is set before parsing: %s", testee)
		}

		f := flag.NewFlagSet("test", flag.ContinueOnError)
		f.Var(testee, "type", "")
		if err := f.Parse([]string{"-type", "goal-stats"}); err != nil {
			t.Fatal(err)
		}

		if !testee.IsSet() || testee.Value() != domain.GoalStatsLoop {
			t.Errorf("(set, value) = (%v, %s)", testee.IsSet(), testee.Value())
		}
	})

	t.Run("an unacceptable loop type is rejected", func(t *testing.T) {
		testee := args.Parser(domain.AsLoopType)
		if err := testee.Set("goal-everything"); !errors.Is(err, domain.ErrUnknownLoopType) {
			t.Errorf("unexpected error: %v", err)
		}
		if testee.IsSet() {
			t.Error("it is set, unexpectedly")
		}
	})

	t.Run("a policy is parsed", func(t *testing.T) {
		testee := args.Parser(recurring.ParsePolicy)

		f := flag.NewFlagSet("test", flag.ContinueOnError)
		f.Var(testee, "policy", "")
		if err := f.Parse([]string{"-policy", "daily:00:01"}); err != nil {
			t.Fatal(err)
		}
		if testee.String() != "daily:00:01" {
			t.Errorf("policy: %s", testee)
		}
	})
}
