package antourservice

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekwlsk/go-antour/antour/antourservice/ants"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func seedp(v int64) *int64      { return &v }

func testDefaults() ants.Parameters {
	p := ants.DefaultParameters()
	p.Ants = 8
	p.Iterations = 15
	return p
}

func newTestService(cache bool) Service {
	return NewService(Options{Defaults: testDefaults(), Workers: 2, Cache: cache}, log.NewNopLogger())
}

func squareConfiguration() Configuration {
	return Configuration{
		Points: []interface{}{
			[]interface{}{0.0, 0.0},
			map[string]interface{}{"x": 0.0, "y": 1.0},
			[]interface{}{1.0, "1"},
			[]float64{1, 0},
		},
		Seed: seedp(21),
	}
}

func TestSolve(t *testing.T) {
	s := newTestService(false)
	sol, err := s.Solve(context.Background(), squareConfiguration())
	require.NoError(t, err)

	assert.NotEmpty(t, sol.ID)
	require.NoError(t, ants.ValidatePermutation(sol.Tour, 4))
	assert.InDelta(t, 4.0, sol.Length, 1e-9)
	require.Len(t, sol.Route, 4)
	assert.Equal(t, ants.Point{X: 0, Y: 1}, func() ants.Point {
		for i, c := range sol.Tour {
			if c == 1 {
				return sol.Route[i]
			}
		}
		return ants.Point{}
	}())
	assert.Equal(t, 15, sol.Generations)
	assert.Len(t, sol.History, 15)
	assert.Equal(t, "all", sol.Deposit)
	assert.False(t, sol.Cached)
}

func TestSolveOverlaysDefaults(t *testing.T) {
	s := newTestService(false)
	c := squareConfiguration()
	c.Iterations = intp(3)
	c.Alpha = floatp(0)
	c.Deposit = "Best-So-Far"

	sol, err := s.Solve(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 3, sol.Generations)
	assert.Equal(t, 8, sol.Parameters.Ants)
	assert.Zero(t, sol.Parameters.Alpha)
	assert.Equal(t, ants.DefaultBeta, sol.Parameters.Beta)
	assert.Equal(t, ants.DepositBestSoFar, sol.Parameters.Deposit)
	assert.Equal(t, "best-so-far", sol.Deposit)
}

func TestSolveErrors(t *testing.T) {
	s := newTestService(false)
	ctx := context.Background()

	_, err := s.Solve(ctx, Configuration{})
	assert.Equal(t, ErrPointsMissing, err)

	c := squareConfiguration()
	c.Points[3] = []float64{math.Inf(1), 0}
	_, err = s.Solve(ctx, c)
	assert.Equal(t, ErrBadPoint{Index: 3, Point: []float64{math.Inf(1), 0}}, err)

	c = squareConfiguration()
	c.Points[2] = []interface{}{1.0}
	_, err = s.Solve(ctx, c)
	assert.Equal(t, ErrBadPoint{Index: 2, Point: []interface{}{1.0}}, err)

	c = squareConfiguration()
	c.Points[1] = map[string]interface{}{"x": 1.0, "z": 2.0}
	_, err = s.Solve(ctx, c)
	assert.IsType(t, ErrBadPoint{}, err)

	c = squareConfiguration()
	c.Deposit = "elitist"
	_, err = s.Solve(ctx, c)
	assert.Equal(t, ErrBadDeposit, err)

	c = squareConfiguration()
	c.Ants = intp(0)
	_, err = s.Solve(ctx, c)
	assert.ErrorIs(t, err, ants.ErrInvalidInput)

	c = squareConfiguration()
	c.Evaporation = floatp(1.5)
	_, err = s.Solve(ctx, c)
	var bad ants.ErrBadParameter
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, "evaporation", bad.Name)
}

func TestSolveFewerThanTwoPoints(t *testing.T) {
	s := newTestService(true)

	for _, points := range [][]interface{}{{}, {[]float64{7, 3}}} {
		var observed int
		sol, err := s.Watch(context.Background(), Configuration{Points: points, Seed: seedp(1)}, func(Progress) {
			observed++
		})
		require.NoError(t, err)
		assert.NotEmpty(t, sol.ID)
		assert.Len(t, sol.Tour, len(points))
		assert.Len(t, sol.Route, len(points))
		assert.Zero(t, sol.Length)
		assert.Zero(t, sol.Generations)
		assert.Zero(t, observed)
		assert.False(t, sol.Cached)
		assert.Equal(t, testDefaults(), sol.Parameters)
	}

	sol, err := s.Solve(context.Background(), Configuration{Points: []interface{}{[]float64{7, 3}}})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, sol.Tour)
	assert.Equal(t, []ants.Point{{X: 7, Y: 3}}, sol.Route)

	_, err = s.Solve(context.Background(), Configuration{
		Points: []interface{}{[]float64{7, 3}},
		Ants:   intp(0),
	})
	assert.ErrorIs(t, err, ants.ErrInvalidInput)
}

func TestCacheKey(t *testing.T) {
	params := ants.DefaultParameters()
	square := []ants.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}

	a, err := cacheKey(square, params, 1)
	require.NoError(t, err)
	b, err := cacheKey(square, params, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = cacheKey([]ants.Point{{X: math.NaN(), Y: 0}, {X: 1, Y: 1}}, params, 1)
	assert.Error(t, err)
}

func TestSolveCachesSeededRuns(t *testing.T) {
	s := newTestService(true)
	c := squareConfiguration()

	first, err := s.Solve(context.Background(), c)
	require.NoError(t, err)
	second, err := s.Solve(context.Background(), c)
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Tour, second.Tour)
	assert.Equal(t, first.History, second.History)
	assert.Equal(t, first.Parameters, second.Parameters)

	c.Seed = nil
	third, err := s.Solve(context.Background(), c)
	require.NoError(t, err)
	assert.False(t, third.Cached)
}

func TestSolveSeededIsDeterministic(t *testing.T) {
	s := newTestService(false)
	c := Configuration{Seed: seedp(5)}
	for i := 0; i < 12; i++ {
		c.Points = append(c.Points, []float64{float64((i * 37) % 100), float64((i * 61) % 100)})
	}
	first, err := s.Solve(context.Background(), c)
	require.NoError(t, err)
	second, err := s.Solve(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, first.Tour, second.Tour)
	assert.Equal(t, first.Length, second.Length)
}

func TestWatchReportsProgress(t *testing.T) {
	s := newTestService(false)
	var progress []Progress
	sol, err := s.Watch(context.Background(), squareConfiguration(), func(p Progress) {
		progress = append(progress, p)
	})
	require.NoError(t, err)
	require.Len(t, progress, sol.Generations)
	for i, p := range progress {
		assert.Equal(t, sol.ID, p.ID)
		assert.Equal(t, i+1, p.Generation)
		assert.Len(t, p.Tour, 4)
	}
	assert.Equal(t, sol.Length, progress[len(progress)-1].BestLength)
}

func TestWatchInterruptedIsNotCached(t *testing.T) {
	s := newTestService(true)
	ctx, cancel := context.WithCancel(context.Background())
	c := squareConfiguration()

	sol, err := s.Watch(ctx, c, func(p Progress) {
		if p.Generation == 2 {
			cancel()
		}
	})
	require.NoError(t, err)
	assert.True(t, sol.Interrupted)
	assert.Equal(t, 2, sol.Generations)

	again, err := s.Solve(context.Background(), c)
	require.NoError(t, err)
	assert.False(t, again.Cached)
	assert.False(t, again.Interrupted)
}

func TestMiddlewares(t *testing.T) {
	var buf bytes.Buffer
	m := Metrics{
		Requests: discard.NewCounter(),
		Latency:  discard.NewHistogram(),
		Length:   discard.NewHistogram(),
	}
	s := New(Options{Defaults: testDefaults(), Workers: 1}, m, log.NewLogfmtLogger(&buf))

	sol, err := s.Solve(context.Background(), squareConfiguration())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "method=Solve")
	assert.Contains(t, buf.String(), "id="+sol.ID)

	buf.Reset()
	_, err = s.Solve(context.Background(), Configuration{})
	require.Error(t, err)
	assert.Contains(t, buf.String(), "err=")
}
