package main

import (
	"os"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
)

func main() {
	var debug bool
	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(os.Stderr)
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}

	root := &cobra.Command{
		Use:           "antour",
		Short:         "Ant colony optimization of closed tours over 2D points",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logger = level.NewFilter(logger, level.AllowDebug())
			} else {
				logger = level.NewFilter(logger, level.AllowInfo())
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log every tour improvement")

	getLogger := func() log.Logger { return logger }
	root.AddCommand(
		newServeCommand(getLogger),
		newSolveCommand(getLogger),
	)

	if err := root.Execute(); err != nil {
		logger.Log("exit", err)
		os.Exit(1)
	}
}
