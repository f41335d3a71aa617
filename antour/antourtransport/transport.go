package antourtransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-kit/kit/log"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/radekwlsk/go-antour/antour/antourendpoint"
	"github.com/radekwlsk/go-antour/antour/antourservice"
	"github.com/radekwlsk/go-antour/antour/antourservice/ants"
)

var ErrBadRequest = errors.New("could not decode request body")

// MakeHTTPHandler mounts the solve endpoint, the run stream and metrics.
// allowedOrigins are the cross-site origins accepted by the run stream.
func MakeHTTPHandler(endpoints antourendpoint.Endpoints, s antourservice.Service, allowedOrigins []string, logger log.Logger) http.Handler {
	m := http.NewServeMux()
	options := []httptransport.ServerOption{
		httptransport.ServerErrorLogger(logger),
		httptransport.ServerErrorEncoder(errorEncoder),
	}

	m.Handle("/api/tour/", httptransport.NewServer(
		endpoints.SolveEndpoint,
		decodeSolveRequest,
		encodeResponse,
		options...,
	))
	m.Handle("/api/tour/stream", MakeStreamHandler(s, allowedOrigins, log.With(logger, "transport", "websocket")))
	m.Handle("/metrics", promhttp.Handler())

	return m
}

func MakeHTTPClient(instance string) (antourendpoint.Endpoints, error) {
	if !strings.HasPrefix(instance, "http") {
		instance = "http://" + instance
	}
	u, err := url.Parse(instance)
	if err != nil {
		return antourendpoint.Endpoints{}, err
	}

	var options []httptransport.ClientOption

	return antourendpoint.Endpoints{
		SolveEndpoint: httptransport.NewClient(
			"POST",
			copyURL(u, "/api/tour/"),
			encodeRequest,
			decodeSolveResponse,
			options...,
		).Endpoint(),
	}, nil
}

func copyURL(base *url.URL, path string) *url.URL {
	next := *base
	next.Path = path
	return &next
}

func decodeSolveRequest(_ context.Context, r *http.Request) (interface{}, error) {
	if r.Method != http.MethodPost {
		return nil, fmt.Errorf("%w: method %s not allowed", ErrBadRequest, r.Method)
	}
	var request antourendpoint.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&request.Configuration); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return request, nil
}

func decodeSolveResponse(_ context.Context, resp *http.Response) (interface{}, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, errorDecoder(resp)
	}
	var response antourendpoint.SolveResponse
	err := json.NewDecoder(resp.Body).Decode(&response.Solution)
	return response, err
}

type erroneousResponse interface {
	Error() error
}

func encodeResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if e, ok := response.(erroneousResponse); ok && e.Error() != nil {
		errorEncoder(ctx, e.Error(), w)
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

func encodeRequest(_ context.Context, req *http.Request, request interface{}) error {
	r := request.(antourendpoint.SolveRequest)
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(r.Configuration); err != nil {
		return err
	}
	req.Body = ioutil.NopCloser(&buf)
	return nil
}

func errorDecoder(r *http.Response) error {
	var w errorWrapper
	if err := json.NewDecoder(r.Body).Decode(&w); err != nil {
		return err
	}
	return StatusError{Code: r.StatusCode, Message: w.Error}
}

// StatusError is returned by the HTTP client for non 200 responses.
type StatusError struct {
	Code    int
	Message string
}

func (err StatusError) Error() string {
	return err.Message
}

func errorEncoder(_ context.Context, err error, w http.ResponseWriter) {
	if err == nil {
		panic("encodeError with nil Error")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(errToStatus(err))
	json.NewEncoder(w).Encode(map[string]interface{}{
		"err": err.Error(),
	})
}

func errToStatus(err error) int {
	switch err {
	case
		antourservice.ErrPointsMissing,
		antourservice.ErrBadDeposit:
		return http.StatusBadRequest
	case antourendpoint.ErrRateLimited:
		return http.StatusTooManyRequests
	}
	switch err.(type) {
	case antourservice.ErrBadPoint:
		return http.StatusBadRequest
	}
	if errors.Is(err, ants.ErrInvalidInput) || errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorWrapper struct {
	Error string `json:"err"`
}
