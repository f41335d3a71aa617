package antourservice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/google/uuid"

	"github.com/radekwlsk/go-antour/antour/antourservice/ants"
	"github.com/radekwlsk/go-antour/utils/str"
)

// Service interface definition and basic service methods implementation,
// the actual actions performed by service on data.
type Service interface {
	Solve(context.Context, Configuration) (Solution, error)
	Watch(context.Context, Configuration, ProgressFunc) (Solution, error)
}

type Options struct {
	Defaults  ants.Parameters
	Workers   int
	Cache     bool
	// CacheSize bounds the number of cached solutions, DefaultCacheSize when 0.
	CacheSize int
}

func New(opts Options, metrics Metrics, logger log.Logger) Service {
	var s Service
	{
		s = NewService(opts, log.With(logger, "layer", "colony"))
		s = NewLoggingMiddleware(log.With(logger, "layer", "service"))(s)
		s = NewInstrumentingMiddleware(metrics)(s)
	}
	return s
}

var (
	ErrPointsMissing = errors.New("request must contain the points to visit as 'points'")

	ErrBadDeposit = errors.New(fmt.Sprintf("deposit is not valid, available policies are: %s",
		strings.Join(ants.DepositPolicyOptions, ", ")))
)

type ErrBadPoint struct {
	Index int
	Point interface{}
}

func (err ErrBadPoint) Error() string {
	return fmt.Sprintf("could not parse point %d: %v, want [x, y] or {\"x\": x, \"y\": y}", err.Index, err.Point)
}

type service struct {
	defaults ants.Parameters
	workers  int
	cache    *boundedCache
	logger   log.Logger
}

func NewService(opts Options, logger log.Logger) Service {
	s := &service{
		defaults: opts.Defaults,
		workers:  opts.Workers,
		logger:   logger,
	}
	if opts.Cache {
		s.cache = newBoundedCache(opts.CacheSize)
	}
	return s
}

func (s *service) Solve(ctx context.Context, c Configuration) (Solution, error) {
	return s.Watch(ctx, c, nil)
}

func (s *service) Watch(ctx context.Context, c Configuration, progress ProgressFunc) (Solution, error) {
	if c.Points == nil {
		return Solution{}, ErrPointsMissing
	}
	if c.Deposit != "" && !str.In(c.Deposit, ants.DepositPolicyOptions) {
		return Solution{}, ErrBadDeposit
	}
	points, err := decodePoints(c.Points)
	if err != nil {
		return Solution{}, err
	}
	params, err := c.parameters(s.defaults)
	if err != nil {
		return Solution{}, err
	}

	id := uuid.New().String()

	// Nothing to optimize below two points, the tour is the points themselves.
	if len(points) < 2 {
		return degenerateSolution(id, points, params), nil
	}

	var key string
	if s.cache != nil && c.Seed != nil {
		if key, err = cacheKey(points, params, *c.Seed); err != nil {
			return Solution{}, err
		}
		if sol, ok := s.cached(key); ok {
			sol.ID = id
			return sol, nil
		}
	}

	opts := []ants.Option{
		ants.WithWorkers(s.workers),
		ants.WithLogger(log.With(s.logger, "run", id)),
	}
	if c.Seed != nil {
		opts = append(opts, ants.WithSeed(*c.Seed))
	}
	if progress != nil {
		opts = append(opts, ants.WithObserver(func(p ants.Progress) {
			progress(Progress{
				ID:          id,
				Generation:  p.Generation,
				Generations: p.Generations,
				Length:      p.GenerationBest.Length(),
				BestLength:  p.Best.Length(),
				Improved:    p.Improved,
				Tour:        p.Best.Path(),
			})
		}))
	}

	result, err := ants.Run(ctx, points, params, opts...)
	if err != nil {
		return Solution{}, err
	}

	sol := newSolution(id, points, params, result)
	if key != "" && !result.Interrupted {
		s.store(key, sol)
	}
	return sol, nil
}

func newSolution(id string, points []ants.Point, params ants.Parameters, r ants.Result) Solution {
	tour := r.Best.Path()
	route := make([]ants.Point, len(tour))
	for i, c := range tour {
		route[i] = points[c]
	}
	return Solution{
		ID:          id,
		Tour:        tour,
		Length:      r.Best.Length(),
		Route:       route,
		Generations: r.Generations,
		History:     r.History,
		Fallbacks:   r.Fallbacks,
		Interrupted: r.Interrupted,
		Parameters:  params,
		Deposit:     params.Deposit.String(),
	}
}

func degenerateSolution(id string, points []ants.Point, params ants.Parameters) Solution {
	tour := make([]int, len(points))
	for i := range tour {
		tour[i] = i
	}
	return Solution{
		ID:         id,
		Tour:       tour,
		Route:      append([]ants.Point{}, points...),
		History:    []float64{},
		Parameters: params,
		Deposit:    params.Deposit.String(),
	}
}

func cacheKey(points []ants.Point, params ants.Parameters, seed int64) (string, error) {
	b, err := json.Marshal(struct {
		Points     []ants.Point
		Parameters ants.Parameters
		Deposit    string
		Seed       int64
	}{points, params, params.Deposit.String(), seed})
	if err != nil {
		return "", fmt.Errorf("could not build cache key: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func (s *service) cached(key string) (Solution, bool) {
	b, ok := s.cache.Get(key)
	if !ok {
		return Solution{}, false
	}
	var sol Solution
	if err := json.Unmarshal(b, &sol); err != nil {
		s.cache.Delete(key)
		return Solution{}, false
	}
	if deposit, err := ants.ParseDepositPolicy(sol.Deposit); err == nil {
		sol.Parameters.Deposit = deposit
	}
	sol.Cached = true
	return sol, true
}

func (s *service) store(key string, sol Solution) {
	b, err := json.Marshal(sol)
	if err != nil {
		s.logger.Log("msg", "could not cache solution", "err", err)
		return
	}
	s.cache.Set(key, b)
}
