package antourservice

import (
	"math"

	"github.com/mitchellh/mapstructure"

	"github.com/radekwlsk/go-antour/antour/antourservice/ants"
)

// Configuration is a single solve request. Points may be given as [x, y]
// pairs or {"x": .., "y": ..} objects. Omitted parameters fall back to the
// service defaults.
type Configuration struct {
	Points      []interface{} `json:"points"`
	Ants        *int          `json:"ants,omitempty"`
	Iterations  *int          `json:"iterations,omitempty"`
	Alpha       *float64      `json:"alpha,omitempty"`
	Beta        *float64      `json:"beta,omitempty"`
	Evaporation *float64      `json:"evaporation,omitempty"`
	Intensity   *float64      `json:"intensity,omitempty"`
	Deposit     string        `json:"deposit,omitempty"`
	Seed        *int64        `json:"seed,omitempty"`
}

type Solution struct {
	ID          string          `json:"id"`
	Tour        []int           `json:"tour"`
	Length      float64         `json:"length"`
	Route       []ants.Point    `json:"route"`
	Generations int             `json:"generations"`
	History     []float64       `json:"history"`
	Fallbacks   int             `json:"fallbacks"`
	Interrupted bool            `json:"interrupted"`
	Cached      bool            `json:"cached"`
	Parameters  ants.Parameters `json:"parameters"`
	Deposit     string          `json:"deposit"`
}

// Progress is sent to a ProgressFunc after each generation of a watched run.
type Progress struct {
	ID          string  `json:"id"`
	Generation  int     `json:"generation"`
	Generations int     `json:"generations"`
	Length      float64 `json:"length"`
	BestLength  float64 `json:"bestLength"`
	Improved    bool    `json:"improved"`
	Tour        []int   `json:"tour,omitempty"`
}

type ProgressFunc func(Progress)

func decodePoint(i int, raw interface{}) (p ants.Point, err error) {
	config := mapstructure.DecoderConfig{WeaklyTypedInput: true}
	switch v := raw.(type) {
	case ants.Point:
		return v, nil
	case map[string]interface{}:
		config.ErrorUnused = true
		config.Result = &p
		decoder, err := mapstructure.NewDecoder(&config)
		if err != nil {
			return p, err
		}
		if err = decoder.Decode(v); err != nil || len(v) != 2 {
			return p, ErrBadPoint{Index: i, Point: raw}
		}
		return p, nil
	case nil:
		return p, ErrBadPoint{Index: i, Point: raw}
	default:
		var xy []float64
		config.Result = &xy
		decoder, err := mapstructure.NewDecoder(&config)
		if err != nil {
			return p, err
		}
		if err = decoder.Decode(v); err != nil || len(xy) != 2 {
			return p, ErrBadPoint{Index: i, Point: raw}
		}
		return ants.Point{X: xy[0], Y: xy[1]}, nil
	}
}

func decodePoints(raw []interface{}) ([]ants.Point, error) {
	points := make([]ants.Point, len(raw))
	for i, r := range raw {
		p, err := decodePoint(i, r)
		if err != nil {
			return nil, err
		}
		if !finite(p.X) || !finite(p.Y) {
			return nil, ErrBadPoint{Index: i, Point: r}
		}
		points[i] = p
	}
	return points, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// parameters overlays c on top of defaults.
func (c Configuration) parameters(defaults ants.Parameters) (ants.Parameters, error) {
	p := defaults
	if c.Ants != nil {
		p.Ants = *c.Ants
	}
	if c.Iterations != nil {
		p.Iterations = *c.Iterations
	}
	if c.Alpha != nil {
		p.Alpha = *c.Alpha
	}
	if c.Beta != nil {
		p.Beta = *c.Beta
	}
	if c.Evaporation != nil {
		p.Evaporation = *c.Evaporation
	}
	if c.Intensity != nil {
		p.Intensity = *c.Intensity
	}
	if c.Deposit != "" {
		d, err := ants.ParseDepositPolicy(c.Deposit)
		if err != nil {
			return p, ErrBadDeposit
		}
		p.Deposit = d
	}
	return p, p.Validate()
}
