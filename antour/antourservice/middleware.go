package antourservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/kr/pretty"
)

// Middleware is a service middleware, similar to endpoint middleware
type Middleware func(Service) Service

// NewLoggingMiddleware given a logger returns a service middleware
// that logs service methods calls
func NewLoggingMiddleware(logger log.Logger) Middleware {
	return func(next Service) Service {
		return loggingMiddleware{logger, next}
	}
}

type loggingMiddleware struct {
	logger log.Logger
	next   Service
}

func (mw loggingMiddleware) Solve(ctx context.Context, c Configuration) (s Solution, err error) {
	defer func(begin time.Time) {
		mw.log("Solve", c, s, err, begin)
	}(time.Now())
	return mw.next.Solve(ctx, c)
}

func (mw loggingMiddleware) Watch(ctx context.Context, c Configuration, p ProgressFunc) (s Solution, err error) {
	defer func(begin time.Time) {
		mw.log("Watch", c, s, err, begin)
	}(time.Now())
	return mw.next.Watch(ctx, c, p)
}

func (mw loggingMiddleware) log(method string, c Configuration, s Solution, err error, begin time.Time) {
	mw.logger.Log(
		"method", method,
		"input", pretty.Sprint(c),
		"id", s.ID,
		"tour", pretty.Sprint(s.Tour),
		"length", s.Length,
		"cached", s.Cached,
		"interrupted", s.Interrupted,
		"err", err,
		"took", time.Since(begin),
	)
}
