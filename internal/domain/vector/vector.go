// Package vector holds the dense-vector arithmetic shared by indexing and retrieval.
//
// All accumulation happens in float64; results are returned as float32 to match
// the FLOAT32 storage type of the index.
package vector

import (
	"errors"
	"math"
)

// ErrEmpty is returned when an operation needs at least one vector.
var ErrEmpty = errors.New("vector: no vectors")

// ErrDimMismatch is returned when vectors of different lengths are combined.
var ErrDimMismatch = errors.New("vector: dimension mismatch")

// ErrZeroNorm is returned when normalizing an all-zero vector.
var ErrZeroNorm = errors.New("vector: zero norm")

// Norm returns the Euclidean norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns v divided by its Euclidean norm.
func Normalize(v []float32) ([]float32, error) {
	n := Norm(v)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, ErrZeroNorm
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out, nil
}

// Mean returns the element-wise mean of vs.
func Mean(vs [][]float32) ([]float32, error) {
	if len(vs) == 0 {
		return nil, ErrEmpty
	}
	dim := len(vs[0])
	acc := make([]float64, dim)
	for _, v := range vs {
		if len(v) != dim {
			return nil, ErrDimMismatch
		}
		for i, x := range v {
			acc[i] += float64(x)
		}
	}
	out := make([]float32, dim)
	n := float64(len(vs))
	for i := range acc {
		out[i] = float32(acc[i] / n)
	}
	return out, nil
}

// Blend returns alpha*a + (1-alpha)*b. The operation is order-sensitive.
func Blend(a, b []float32, alpha float64) ([]float32, error) {
	if len(a) != len(b) {
		return nil, ErrDimMismatch
	}
	out := make([]float32, len(a))
	for i := range a {
		out[i] = float32(alpha*float64(a[i]) + (1-alpha)*float64(b[i]))
	}
	return out, nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either is all zeros
// or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
