// Package pmi scores the association strength of adjacent lemma pairs.
package pmi

import "math"

// Config controls PMI computation.
type Config struct {
	Epsilon float64 // smoothing constant
}

// DefaultConfig returns the smoothing used when nothing is configured.
func DefaultConfig() Config {
	return Config{Epsilon: 1.0}
}

// Calculator handles PMI (Pointwise Mutual Information) calculations
type Calculator struct {
	epsilon float64
}

// NewCalculator creates a new PMI calculator with the given epsilon.
// Negative epsilon falls back to 1.0; zero disables smoothing.
func NewCalculator(epsilon float64) *Calculator {
	if epsilon < 0 {
		epsilon = 1.0
	}
	return &Calculator{epsilon: epsilon}
}

// NewCalculatorFromConfig creates a calculator from cfg.
func NewCalculatorFromConfig(cfg Config) *Calculator {
	return NewCalculator(cfg.Epsilon)
}

// PMI calculates the pointwise mutual information between two lemmas
//
// PMI(a,b) = log((N_ab + ε) * N / ((N_a + ε)(N_b + ε)))
//
// Where:
//   - N_ab = joint count
//   - N_a, N_b = marginal counts
//   - N = total count
//   - ε = smoothing constant
func (c *Calculator) PMI(nAB, nA, nB, N int64) float64 {
	if N == 0 {
		return 0
	}

	numerator := (float64(nAB) + c.epsilon) * float64(N)
	denominator := (float64(nA) + c.epsilon) * (float64(nB) + c.epsilon)

	if numerator == 0 || denominator == 0 {
		return 0
	}

	return math.Log(numerator / denominator)
}

// Adjacency scores an unordered adjacency edge of the given weight between
// lemmas occurring countA and countB times in a corpus of total tokens.
//
// Two independent lemmas are expected to sit next to each other, in either
// order, about 2·countA·countB/total times, so the score subtracts log 2 and
// is close to 0 for independent lemmas.
func (c *Calculator) Adjacency(weight, countA, countB, total int64) float64 {
	if total == 0 {
		return 0
	}
	return c.PMI(weight, countA, countB, total) - math.Ln2
}

// AdjacencyNPMI normalizes Adjacency by -log of the pair's share of the
// 2·total adjacency slots. Without smoothing the result lies in [-1, 1],
// reaching 1 when the two lemmas only ever occur next to each other.
func (c *Calculator) AdjacencyNPMI(weight, countA, countB, total int64) float64 {
	if total == 0 || weight == 0 {
		return 0
	}
	logPAB := math.Log((float64(weight) + c.epsilon) / (2 * float64(total)))
	if logPAB >= 0 {
		return 0
	}
	return c.Adjacency(weight, countA, countB, total) / -logPAB
}
