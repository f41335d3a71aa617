package ants

import (
	"fmt"
	"math"
	"strings"
)

// DepositPolicy selects which tours of a generation reinforce the trail.
type DepositPolicy int

const (
	// DepositAll lets every ant of the generation deposit (Ant System).
	DepositAll DepositPolicy = iota
	// DepositIterationBest lets only the shortest tour of the generation deposit.
	DepositIterationBest
	// DepositBestSoFar lets only the best tour found in the run deposit.
	DepositBestSoFar
)

var DepositPolicyOptions = []string{
	"all",
	"iteration-best",
	"best-so-far",
}

func (d DepositPolicy) String() string {
	if d < 0 || int(d) >= len(DepositPolicyOptions) {
		return fmt.Sprintf("DepositPolicy(%d)", int(d))
	}
	return DepositPolicyOptions[d]
}

// ParseDepositPolicy maps a policy name to its value, empty name is DepositAll.
func ParseDepositPolicy(s string) (DepositPolicy, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return DepositAll, nil
	}
	for i, o := range DepositPolicyOptions {
		if o == s {
			return DepositPolicy(i), nil
		}
	}
	return DepositAll, ErrBadParameter{
		Name:  "deposit",
		Value: s,
		Want:  "one of " + strings.Join(DepositPolicyOptions, ", "),
	}
}

const (
	DefaultAnts             = 100
	DefaultIterations       = 20
	DefaultAlpha            = 1.5
	DefaultBeta             = 1.2
	DefaultEvaporation      = 0.6
	DefaultIntensity        = 10.0
	DefaultInitialPheromone = 1.0
)

// Parameters are fixed for the whole duration of a run.
type Parameters struct {
	Ants             int           `json:"ants" yaml:"ants"`
	Iterations       int           `json:"iterations" yaml:"iterations"`
	Alpha            float64       `json:"alpha" yaml:"alpha"`
	Beta             float64       `json:"beta" yaml:"beta"`
	Evaporation      float64       `json:"evaporation" yaml:"evaporation"`
	Intensity        float64       `json:"intensity" yaml:"intensity"`
	InitialPheromone float64       `json:"initialPheromone" yaml:"initialPheromone"`
	Deposit          DepositPolicy `json:"-" yaml:"-"`
}

func DefaultParameters() Parameters {
	return Parameters{
		Ants:             DefaultAnts,
		Iterations:       DefaultIterations,
		Alpha:            DefaultAlpha,
		Beta:             DefaultBeta,
		Evaporation:      DefaultEvaporation,
		Intensity:        DefaultIntensity,
		InitialPheromone: DefaultInitialPheromone,
		Deposit:          DepositAll,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate returns the first parameter found outside of its domain.
func (p Parameters) Validate() error {
	switch {
	case p.Ants < 1:
		return ErrBadParameter{"ants", p.Ants, ">= 1"}
	case p.Iterations < 1:
		return ErrBadParameter{"iterations", p.Iterations, ">= 1"}
	case !finite(p.Alpha) || p.Alpha < 0:
		return ErrBadParameter{"alpha", p.Alpha, "a finite number >= 0"}
	case !finite(p.Beta) || p.Beta < 0:
		return ErrBadParameter{"beta", p.Beta, "a finite number >= 0"}
	case !finite(p.Evaporation) || p.Evaporation < 0 || p.Evaporation > 1:
		return ErrBadParameter{"evaporation", p.Evaporation, "in [0, 1]"}
	case !finite(p.Intensity) || p.Intensity <= 0:
		return ErrBadParameter{"intensity", p.Intensity, "a finite number > 0"}
	case !finite(p.InitialPheromone) || p.InitialPheromone <= 0:
		return ErrBadParameter{"initialPheromone", p.InitialPheromone, "a finite number > 0"}
	case p.Deposit < DepositAll || p.Deposit > DepositBestSoFar:
		return ErrBadParameter{"deposit", p.Deposit, "one of " + strings.Join(DepositPolicyOptions, ", ")}
	}
	return nil
}
