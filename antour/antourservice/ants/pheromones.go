package ants

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// MinPheromone is the lowest weight an edge can decay to.
const MinPheromone = 1e-9

// PheromonesMatrix keeps one weight per directed edge. Ants only read it,
// the colony mutates it between generations.
type PheromonesMatrix struct {
	matrix *mat.Dense
}

func NewPheromonesMatrix(n int, initial float64) *PheromonesMatrix {
	data := make([]float64, n*n)
	for i := range data {
		data[i] = initial
	}
	return &PheromonesMatrix{mat.NewDense(n, n, data)}
}

func (p *PheromonesMatrix) At(i, j int) float64 {
	return p.matrix.At(i, j)
}

func (p *PheromonesMatrix) Size() int {
	r, _ := p.matrix.Dims()
	return r
}

func (p *PheromonesMatrix) AddAt(i, j int, value float64) {
	p.matrix.Set(i, j, bound(p.matrix.At(i, j)+value))
}

// Evaporate scales every weight by 1-rate, never going below MinPheromone.
func (p *PheromonesMatrix) Evaporate(rate float64) {
	keep := 1 - rate
	p.matrix.Apply(func(_, _ int, v float64) float64 {
		return bound(v * keep)
	}, p.matrix)
}

// bound keeps a weight within [MinPheromone, math.MaxFloat64].
func bound(w float64) float64 {
	switch {
	case math.IsNaN(w) || w < MinPheromone:
		return MinPheromone
	case w > math.MaxFloat64:
		return math.MaxFloat64
	}
	return w
}

// IntensifyAlong adds amount to every edge of the closed tour path.
func (p *PheromonesMatrix) IntensifyAlong(path []int, amount float64) {
	n := len(path)
	if n < 2 {
		return
	}
	for i := 0; i < n-1; i++ {
		p.AddAt(path[i], path[i+1], amount)
	}
	p.AddAt(path[n-1], path[0], amount)
}

// Min returns the lowest weight currently held by any edge.
func (p *PheromonesMatrix) Min() float64 {
	r, c := p.matrix.Dims()
	lowest := math.Inf(1)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			lowest = math.Min(lowest, p.matrix.At(i, j))
		}
	}
	return lowest
}
