package ants

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"golang.org/x/sync/errgroup"
)

// Progress is reported to an Observer after every generation.
type Progress struct {
	Generation     int
	Generations    int
	GenerationBest Tour
	Best           Tour
	Improved       bool
}

type Observer func(Progress)

type Result struct {
	Best        Tour
	Generations int
	// History holds the best length known after each generation.
	History     []float64
	Fallbacks   int
	Interrupted bool
}

type Option func(*Colony)

func WithSeed(seed int64) Option {
	return func(c *Colony) {
		c.seed = seed
	}
}

// WithWorkers bounds how many ants build tours at the same time.
func WithWorkers(n int) Option {
	return func(c *Colony) {
		if n > 0 {
			c.workers = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Colony) {
		c.observer = o
	}
}

func WithLogger(logger log.Logger) Option {
	return func(c *Colony) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type Colony struct {
	params     Parameters
	distances  *DistanceMatrix
	pheromones *PheromonesMatrix
	rule       UpdateRule
	swarm      []*Ant
	seed       int64
	workers    int
	observer   Observer
	logger     log.Logger
}

// NewColony checks points and params and prepares a colony for a single Run.
func NewColony(points []Point, params Parameters, opts ...Option) (*Colony, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	distances, err := NewDistanceMatrix(points)
	if err != nil {
		return nil, err
	}

	c := &Colony{
		params:    params,
		distances: distances,
		rule:      NewUpdateRule(params),
		seed:      time.Now().UnixNano(),
		workers:   runtime.GOMAXPROCS(0),
		logger:    log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.pheromones = NewPheromonesMatrix(distances.Size(), params.InitialPheromone)
	random := rand.New(rand.NewSource(c.seed))
	c.swarm = make([]*Ant, params.Ants)
	for i := range c.swarm {
		c.swarm[i] = NewAnt(
			distances,
			c.pheromones,
			params.Alpha,
			params.Beta,
			rand.New(rand.NewSource(random.Int63())),
		)
	}
	return c, nil
}

func (c *Colony) Distances() *DistanceMatrix {
	return c.distances
}

func (c *Colony) Pheromones() *PheromonesMatrix {
	return c.pheromones
}

// Run iterates until all generations are done or ctx is cancelled. The
// context is only checked between generations and the first generation
// always runs, so the result holds a complete tour either way.
func (c *Colony) Run(ctx context.Context) Result {
	var (
		best      = NewEmptyTour()
		tours     = make([]Tour, len(c.swarm))
		fallbacks = make([]int, len(c.swarm))
		result    = Result{History: make([]float64, 0, c.params.Iterations)}
	)

	for g := 0; g < c.params.Iterations; g++ {
		if g > 0 && ctx.Err() != nil {
			result.Interrupted = true
			level.Debug(c.logger).Log("msg", "run interrupted", "generation", g, "err", ctx.Err())
			break
		}

		c.generation(tours, fallbacks)

		generationBest := NewEmptyTour()
		for i, t := range tours {
			result.Fallbacks += fallbacks[i]
			if t.BetterThan(generationBest) {
				generationBest = t
			}
		}
		improved := generationBest.BetterThan(best)
		if improved {
			best = generationBest
			level.Debug(c.logger).Log(
				"msg", "better tour",
				"generation", g+1,
				"length", best.Length(),
			)
		}

		c.rule.Apply(c.pheromones, tours, best)

		result.Generations++
		result.History = append(result.History, best.Length())
		if c.observer != nil {
			c.observer(Progress{
				Generation:     g + 1,
				Generations:    c.params.Iterations,
				GenerationBest: generationBest,
				Best:           best,
				Improved:       improved,
			})
		}
	}

	result.Best = best
	return result
}

// generation lets every ant build one tour. Wait is the barrier: no tour of
// the generation is returned before all of them are done.
func (c *Colony) generation(tours []Tour, fallbacks []int) {
	g := new(errgroup.Group)
	g.SetLimit(c.workers)
	for i, a := range c.swarm {
		i, a := i, a
		g.Go(func() error {
			tours[i] = a.FindFood()
			fallbacks[i] = a.Fallbacks()
			return nil
		})
	}
	_ = g.Wait()
}

// Run solves the tour over points and returns the best one found.
func Run(ctx context.Context, points []Point, params Parameters, opts ...Option) (Result, error) {
	c, err := NewColony(points, params, opts...)
	if err != nil {
		return Result{}, err
	}
	return c.Run(ctx), nil
}
