package models

import (
	"errors"
	"math"
)

// LogisticConfig controls gradient-descent training of the classifier.
type LogisticConfig struct {
	LearningRate float64
	Epochs       int
}

// DefaultLogisticConfig matches the defaults used across runs.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{LearningRate: 0.05, Epochs: 500}
}

// Logistic is a binary logistic-regression classifier over standardized
// features.
type Logistic struct {
	Weights []float64
	Bias    float64

	scaler *scaler
}

// FitLogistic trains the classifier on a 0/1 target with full-batch
// gradient descent. Features are standardized internally; the fitted scaler
// is reused for prediction.
func FitLogistic(x [][]float64, y []float64, cfg LogisticConfig) (*Logistic, error) {
	if len(x) == 0 {
		return nil, errors.New("empty training set")
	}
	if len(x) != len(y) {
		return nil, errors.New("feature matrix and target length mismatch")
	}

	sc := fitScaler(x)
	xs := sc.transform(x)

	dim := len(xs[0])
	m := &Logistic{Weights: make([]float64, dim), scaler: sc}
	n := float64(len(xs))

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		gradW := make([]float64, dim)
		gradB := 0.0
		for i, row := range xs {
			err := sigmoid(dot(m.Weights, row)+m.Bias) - y[i]
			for d, v := range row {
				gradW[d] += err * v
			}
			gradB += err
		}
		for d := range m.Weights {
			m.Weights[d] -= cfg.LearningRate * gradW[d] / n
		}
		m.Bias -= cfg.LearningRate * gradB / n
	}

	return m, nil
}

// PredictProba returns the positive-class probability for one feature row.
func (m *Logistic) PredictProba(row []float64) float64 {
	return sigmoid(dot(m.Weights, m.scaler.transformRow(row)) + m.Bias)
}

// Predict returns the 0/1 class at the 0.5 threshold.
func (m *Logistic) Predict(row []float64) int {
	if m.PredictProba(row) >= 0.5 {
		return 1
	}
	return 0
}

// Accuracy scores the classifier on a labeled set.
func (m *Logistic) Accuracy(x [][]float64, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	correct := 0
	for i, row := range x {
		if float64(m.Predict(row)) == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x))
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// scaler standardizes features to zero mean and unit variance; constant
// columns pass through unscaled.
type scaler struct {
	mean  []float64
	stdev []float64
}

func fitScaler(x [][]float64) *scaler {
	dim := len(x[0])
	n := float64(len(x))
	sc := &scaler{mean: make([]float64, dim), stdev: make([]float64, dim)}

	for _, row := range x {
		for d, v := range row {
			sc.mean[d] += v
		}
	}
	for d := range sc.mean {
		sc.mean[d] /= n
	}
	for _, row := range x {
		for d, v := range row {
			diff := v - sc.mean[d]
			sc.stdev[d] += diff * diff
		}
	}
	for d := range sc.stdev {
		sc.stdev[d] = math.Sqrt(sc.stdev[d] / n)
		if sc.stdev[d] == 0 {
			sc.stdev[d] = 1
		}
	}
	return sc
}

func (s *scaler) transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.transformRow(row)
	}
	return out
}

func (s *scaler) transformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for d, v := range row {
		out[d] = (v - s.mean[d]) / s.stdev[d]
	}
	return out
}
