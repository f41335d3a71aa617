package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/radekwlsk/go-antour/antour/antourservice"
	"github.com/radekwlsk/go-antour/antour/config"
)

func newSolveCommand(getLogger func() log.Logger) *cobra.Command {
	var (
		configPath string
		points     string
		asJSON     bool
		c          antourservice.Configuration
		ants       int
		iterations int
		alpha      float64
		beta       float64
		evap       float64
		intensity  float64
		seed       int64
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find a short closed tour through the given points",
		Example: `  antour solve --points "100,200 150,400 440,500 150,700 330,100 230,800"
  antour solve --points "0,0 0,1 1,1 1,0" --ants 10 --seed 1 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			c.Points, err = parsePoints(points)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("ants") {
				c.Ants = &ants
			}
			if flags.Changed("iterations") {
				c.Iterations = &iterations
			}
			if flags.Changed("alpha") {
				c.Alpha = &alpha
			}
			if flags.Changed("beta") {
				c.Beta = &beta
			}
			if flags.Changed("evaporation") {
				c.Evaporation = &evap
			}
			if flags.Changed("intensity") {
				c.Intensity = &intensity
			}
			if flags.Changed("seed") {
				c.Seed = &seed
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			logger := getLogger()
			s := antourservice.NewService(cfg.ServiceOptions(), log.With(logger, "layer", "colony"))
			s = antourservice.NewLoggingMiddleware(log.With(logger, "layer", "service"))(s)
			sol, err := s.Solve(ctx, c)
			if err != nil {
				return err
			}
			return printSolution(cmd.OutOrStdout(), sol, asJSON)
		},
	}
	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML configuration file with default parameters")
	f.StringVar(&points, "points", "", `points as space separated "x,y" pairs`)
	f.BoolVar(&asJSON, "json", false, "print the solution as JSON")
	f.IntVar(&ants, "ants", 0, "ants per generation")
	f.IntVar(&iterations, "iterations", 0, "number of generations")
	f.Float64Var(&alpha, "alpha", 0, "pheromone influence")
	f.Float64Var(&beta, "beta", 0, "distance influence")
	f.Float64Var(&evap, "evaporation", 0, "pheromone evaporation rate in [0, 1]")
	f.Float64Var(&intensity, "intensity", 0, "pheromone deposited by a tour, divided by its length")
	f.StringVar(&c.Deposit, "deposit", "", "tours that deposit pheromone: all, iteration-best or best-so-far")
	f.Int64Var(&seed, "seed", 0, "random seed for a reproducible run")
	cmd.MarkFlagRequired("points")
	return cmd
}

func parsePoints(s string) ([]interface{}, error) {
	fields := strings.Fields(s)
	points := make([]interface{}, 0, len(fields))
	for _, field := range fields {
		xy := strings.Split(field, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("point %q must be given as x,y", field)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", field, err)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", field, err)
		}
		points = append(points, []float64{x, y})
	}
	return points, nil
}

func printSolution(w io.Writer, sol antourservice.Solution, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sol)
	}
	_, err := pretty.Fprintf(w, "tour:        %v\nlength:      %.2f\ngenerations: %d\nroute:       %v\n",
		sol.Tour, sol.Length, sol.Generations, sol.Route)
	return err
}
