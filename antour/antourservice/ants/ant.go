package ants

import (
	"math"
	"math/rand"

	"github.com/gonum/floats"
)

// ZeroDistanceHeuristic stands in for 1/d when two cities coincide.
const ZeroDistanceHeuristic = 1e9

type Ant struct {
	n          int
	alpha      float64
	beta       float64
	distances  *DistanceMatrix
	pheromones *PheromonesMatrix
	random     *rand.Rand
	path       []int
	unvisited  []int
	fallbacks  int
}

func NewAnt(
	distances *DistanceMatrix,
	pheromones *PheromonesMatrix,
	alpha, beta float64,
	random *rand.Rand,
) (a *Ant) {
	a = &Ant{
		n:          distances.Size(),
		alpha:      alpha,
		beta:       beta,
		distances:  distances,
		pheromones: pheromones,
		random:     random,
	}
	a.path = make([]int, 0, a.n)
	a.unvisited = make([]int, 0, a.n)
	return a
}

// Fallbacks is the number of uniform picks made by the last FindFood call
// because every candidate weight had collapsed.
func (a *Ant) Fallbacks() int {
	return a.fallbacks
}

func (a *Ant) before() {
	a.path = a.path[:0]
	a.unvisited = a.unvisited[:0]
	a.fallbacks = 0
	for i := 0; i < a.n; i++ {
		a.unvisited = append(a.unvisited, i)
	}
}

func (a *Ant) visit(city int) {
	for i, c := range a.unvisited {
		if c == city {
			last := len(a.unvisited) - 1
			a.unvisited[i] = a.unvisited[last]
			a.unvisited = a.unvisited[:last]
			break
		}
	}
	a.path = append(a.path, city)
}

// FindFood walks a complete tour. It only reads the shared matrices.
func (a *Ant) FindFood() Tour {
	a.before()
	at := a.random.Intn(a.n)
	a.visit(at)
	for len(a.unvisited) > 0 {
		next, degenerate := pickNextCity(at, a.unvisited, a.distances, a.pheromones, a.alpha, a.beta, a.random)
		if degenerate {
			a.fallbacks++
		}
		a.visit(next)
		at = next
	}
	return NewTour(a.path, a.distances.TourLength(a.path))
}

func attractiveness(pheromone, distance, alpha, beta float64) float64 {
	heuristic := ZeroDistanceHeuristic
	if distance > 0 {
		heuristic = 1 / distance
	}
	w := math.Pow(pheromone, alpha) * math.Pow(heuristic, beta)
	if math.IsNaN(w) {
		return 0
	}
	return w
}

// pickNextCity samples one of the unvisited cities with probability
// proportional to its attractiveness from current. When the weights give no
// usable distribution it picks uniformly and reports degenerate.
func pickNextCity(
	current int,
	unvisited []int,
	distances *DistanceMatrix,
	pheromones *PheromonesMatrix,
	alpha, beta float64,
	random *rand.Rand,
) (city int, degenerate bool) {
	l := len(unvisited)
	if l == 1 {
		return unvisited[0], false
	}

	weights := make([]float64, l)
	var infinite []int
	for i, c := range unvisited {
		weights[i] = attractiveness(pheromones.At(current, c), distances.At(current, c), alpha, beta)
		if math.IsInf(weights[i], 1) {
			infinite = append(infinite, c)
		}
	}
	if len(infinite) > 0 {
		return infinite[random.Intn(len(infinite))], false
	}

	total := floats.Sum(weights)
	if math.IsInf(total, 1) {
		floats.Scale(1/floats.Max(weights), weights)
		total = floats.Sum(weights)
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return unvisited[random.Intn(l)], true
	}

	cumulative := floats.CumSum(make([]float64, l), weights)
	r := random.Float64() * total
	for i, c := range cumulative {
		if r < c && weights[i] > 0 {
			return unvisited[i], false
		}
	}
	for i := l - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return unvisited[i], false
		}
	}
	return unvisited[random.Intn(l)], true
}
