package antourendpoint

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"golang.org/x/time/rate"

	"github.com/radekwlsk/go-antour/antour/antourservice"
)

type Endpoints struct {
	SolveEndpoint endpoint.Endpoint
}

// New wraps s in endpoints. A nil limiter disables rate limiting.
func New(s antourservice.Service, limiter *rate.Limiter, logger log.Logger) Endpoints {
	var solveEndpoint endpoint.Endpoint
	{
		solveEndpoint = NewSolveEndpoint(s)
		if limiter != nil {
			solveEndpoint = NewRateLimitMiddleware(limiter)(solveEndpoint)
		}
		solveEndpoint = NewLoggingMiddleware(log.With(logger, "layer", "endpoint", "method", "Solve"))(solveEndpoint)
	}
	return Endpoints{
		SolveEndpoint: solveEndpoint,
	}
}

// Solve lets Endpoints be used as a Service, e.g. by the HTTP client.
func (e Endpoints) Solve(ctx context.Context, c antourservice.Configuration) (antourservice.Solution, error) {
	response, err := e.SolveEndpoint(ctx, SolveRequest{Configuration: c})
	if err != nil {
		return antourservice.Solution{}, err
	}
	resp := response.(SolveResponse)
	return resp.Solution, resp.Err
}

func NewSolveEndpoint(s antourservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(SolveRequest)
		sol, e := s.Solve(ctx, req.Configuration)
		return SolveResponse{Solution: sol, Err: e}, nil
	}
}

type SolveRequest struct {
	Configuration antourservice.Configuration
}

type SolveResponse struct {
	antourservice.Solution
	Err error `json:"err,omitempty"`
}

func (r SolveResponse) Error() error { return r.Err }
