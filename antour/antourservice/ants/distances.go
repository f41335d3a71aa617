package ants

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

type Point struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// DistanceMatrix holds symmetric euclidean distances between points,
// it is never modified after NewDistanceMatrix returns.
type DistanceMatrix struct {
	matrix *mat.Dense
	n      int
}

func NewDistanceMatrix(points []Point) (*DistanceMatrix, error) {
	n := len(points)
	if n < 2 {
		return nil, ErrNotEnoughPoints
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return nil, ErrBadPoint{Index: i, Point: p}
		}
	}
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := points[i].DistanceTo(points[j])
			m.Set(i, j, d)
			m.Set(j, i, d)
		}
	}
	return &DistanceMatrix{m, n}, nil
}

func (m *DistanceMatrix) At(i, j int) float64 {
	return m.matrix.At(i, j)
}

func (m *DistanceMatrix) Size() int {
	return m.n
}

// TourLength sums distances along path including the closing edge.
func (m *DistanceMatrix) TourLength(path []int) float64 {
	if len(path) == 0 {
		return 0
	}
	tot := 0.0
	for i := 0; i < len(path)-1; i++ {
		tot += m.At(path[i], path[i+1])
	}
	tot += m.At(path[len(path)-1], path[0])
	return tot
}
