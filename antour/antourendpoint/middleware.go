package antourendpoint

import (
	"context"
	"errors"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("too many solve requests, try again later")

// NewLoggingMiddleware returns endpoint middleware that logs
// information about duration of each call and error if any occurred
func NewLoggingMiddleware(logger log.Logger) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			defer func(begin time.Time) {
				logger.Log(
					"err", err,
					"took", time.Since(begin),
				)
			}(time.Now())

			return next(ctx, request)
		}
	}
}

// NewRateLimitMiddleware rejects requests with ErrRateLimited once the
// limiter runs out of tokens.
func NewRateLimitMiddleware(limiter *rate.Limiter) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			if !limiter.Allow() {
				return nil, ErrRateLimited
			}
			return next(ctx, request)
		}
	}
}
