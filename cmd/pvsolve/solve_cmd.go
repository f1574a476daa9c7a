package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/depsolve/pvsolve/solve"
)

type solveOptions struct {
	Input      string
	AllAnswers bool
	Trace      bool
}

func newSolveCommand() *cobra.Command {
	opts := solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Compute an optimal version assignment from a catalog file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSolve(opts)
		},
	}
	cmd.Flags().StringVar(&opts.Input, "input", "", "Path to the request YAML file")
	cmd.Flags().BoolVar(&opts.AllAnswers, "all-answers", false, "Enumerate every optimum-equivalent solution")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Log each minimization step as it is locked (debug level; shown with --log-level debug)")
	_ = cmd.MarkFlagRequired("input")
	_ = viper.BindPFlag("input", cmd.Flags().Lookup("input"))

	return cmd
}

func runSolve(opts solveOptions) error {
	doc, err := loadDocument(opts.Input)
	if err != nil {
		return err
	}

	in, err := doc.toInput()
	if err != nil {
		return err
	}
	if doc.AllAnswers {
		opts.AllAnswers = true
	}

	solveOpts := solve.Options{AllAnswers: opts.AllAnswers}

	var result solve.Result
	if opts.Trace {
		result, err = solve.SolveTraced(in, solveOpts, solve.NewTracer(log.Logger, true))
	} else {
		result, err = solve.Solve(in, solveOpts)
	}
	if err != nil {
		return errors.Wrap(err, "solve")
	}

	out, err := yaml.Marshal(resultOutput{
		Answer:                    result.Answer,
		UsedUnanticipatedPrerelease: result.NeededToUseUnanticipatedPrereleases,
		AllAnswers:                result.AllAnswers,
	})
	if err != nil {
		return errors.Wrap(err, "marshal result")
	}
	fmt.Fprint(os.Stdout, string(out))
	return nil
}

// resultOutput gives solve.Result's fields stable, readable YAML keys
// without requiring the core package itself to carry presentation tags.
type resultOutput struct {
	Answer                    map[string]string  `yaml:"answer"`
	UsedUnanticipatedPrerelease bool              `yaml:"used_unanticipated_prerelease"`
	AllAnswers                []map[string]string `yaml:"all_answers,omitempty"`
}
