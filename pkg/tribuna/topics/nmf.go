package topics

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const (
	nmfUpdateFloor = 1e-12
	nmfTolerance   = 1e-6
)

// NMF factors a non-negative docs×terms matrix V into W (docs×k) and H
// (k×terms) using multiplicative updates. Initialization is seeded, so a
// given seed always yields the same factorization.
type NMF struct {
	K       int
	MaxIter int
	Seed    int64

	h *mat.Dense // fitted components, k×terms
}

// Fit learns the component matrix H from V.
func (n *NMF) Fit(v *mat.Dense) error {
	rows, cols := v.Dims()
	if n.K < 1 || n.K > rows {
		return fmt.Errorf("nmf: invalid component count %d for %d documents", n.K, rows)
	}
	if n.MaxIter < 1 {
		n.MaxIter = 200
	}

	rng := rand.New(rand.NewSource(n.Seed))
	w := randomNonNegative(rng, rows, n.K, scaleFor(v, n.K))
	h := randomNonNegative(rng, n.K, cols, scaleFor(v, n.K))

	prev := math.Inf(1)
	for iter := 0; iter < n.MaxIter; iter++ {
		updateH(v, w, h)
		updateW(v, w, h)

		if iter%10 == 9 {
			loss := frobeniusLoss(v, w, h)
			if prev-loss < nmfTolerance*prev {
				break
			}
			prev = loss
		}
	}

	n.h = h
	return nil
}

// Components returns the fitted k×terms matrix, nil before Fit.
func (n *NMF) Components() *mat.Dense {
	return n.h
}

// Transform projects V onto the fitted components, returning the docs×k
// activation matrix. H stays fixed; only W is solved for, again from a
// seeded initialization so repeated calls agree.
func (n *NMF) Transform(v *mat.Dense) (*mat.Dense, error) {
	if n.h == nil {
		return nil, fmt.Errorf("nmf: transform before fit")
	}
	rows, cols := v.Dims()
	_, hCols := n.h.Dims()
	if cols != hCols {
		return nil, fmt.Errorf("nmf: dimension mismatch %d != %d", cols, hCols)
	}

	rng := rand.New(rand.NewSource(n.Seed))
	w := randomNonNegative(rng, rows, n.K, scaleFor(v, n.K))
	for iter := 0; iter < n.MaxIter; iter++ {
		updateW(v, w, n.h)
	}
	return w, nil
}

// updateH applies H ← H ∘ (WᵀV) / (WᵀWH).
func updateH(v, w, h *mat.Dense) {
	var num, wtw, den mat.Dense
	num.Mul(w.T(), v)
	wtw.Mul(w.T(), w)
	den.Mul(&wtw, h)
	hadamardQuotientInPlace(h, &num, &den)
}

// updateW applies W ← W ∘ (VHᵀ) / (WHHᵀ).
func updateW(v, w, h *mat.Dense) {
	var num, hht, den mat.Dense
	num.Mul(v, h.T())
	hht.Mul(h, h.T())
	den.Mul(w, &hht)
	hadamardQuotientInPlace(w, &num, &den)
}

func hadamardQuotientInPlace(target, num, den *mat.Dense) {
	rows, cols := target.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := den.At(i, j)
			if d < nmfUpdateFloor {
				d = nmfUpdateFloor
			}
			target.Set(i, j, target.At(i, j)*num.At(i, j)/d)
		}
	}
}

func frobeniusLoss(v, w, h *mat.Dense) float64 {
	var approx, diff mat.Dense
	approx.Mul(w, h)
	diff.Sub(v, &approx)
	return mat.Norm(&diff, 2)
}

// scaleFor picks an initialization scale of sqrt(mean(V)/k), keeping the
// initial reconstruction on the same order as V.
func scaleFor(v *mat.Dense, k int) float64 {
	rows, cols := v.Dims()
	if rows == 0 || cols == 0 {
		return 1e-2
	}
	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sum += v.At(i, j)
		}
	}
	mean := sum / float64(rows*cols)
	if mean <= 0 {
		return 1e-2
	}
	return math.Sqrt(mean / float64(k))
}

func randomNonNegative(rng *rand.Rand, rows, cols int, scale float64) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.Float64() * scale
	}
	return mat.NewDense(rows, cols, data)
}
