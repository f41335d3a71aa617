package ants

import "math"

// UpdateRule evaporates and reinforces the trail once per generation.
type UpdateRule struct {
	Evaporation float64
	Intensity   float64
	Policy      DepositPolicy
}

func NewUpdateRule(p Parameters) UpdateRule {
	return UpdateRule{
		Evaporation: p.Evaporation,
		Intensity:   p.Intensity,
		Policy:      p.Deposit,
	}
}

// Deposit is the amount a tour of the given length leaves on each of its
// edges. A zero length tour deposits Intensity, the amount never exceeds
// math.MaxFloat64.
func (u UpdateRule) Deposit(length float64) float64 {
	if length <= 0 {
		return u.Intensity
	}
	return math.Min(u.Intensity/length, math.MaxFloat64)
}

// Apply evaporates every edge and then deposits along the tours selected by
// the policy. generation must hold the complete generation, best the best
// tour of the run including this generation.
func (u UpdateRule) Apply(pheromones *PheromonesMatrix, generation []Tour, best Tour) {
	pheromones.Evaporate(u.Evaporation)

	switch u.Policy {
	case DepositIterationBest:
		iterationBest := NewEmptyTour()
		for _, t := range generation {
			if t.BetterThan(iterationBest) {
				iterationBest = t
			}
		}
		u.depositAlong(pheromones, iterationBest)
	case DepositBestSoFar:
		u.depositAlong(pheromones, best)
	default:
		for _, t := range generation {
			u.depositAlong(pheromones, t)
		}
	}
}

func (u UpdateRule) depositAlong(pheromones *PheromonesMatrix, t Tour) {
	if t.IsEmpty() {
		return
	}
	pheromones.IntensifyAlong(t.path, u.Deposit(t.length))
}
