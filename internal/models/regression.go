package models

import "errors"

// LinearConfig controls gradient-descent training of the regressor.
type LinearConfig struct {
	LearningRate float64
	Epochs       int
}

// DefaultLinearConfig matches the defaults used across runs.
func DefaultLinearConfig() LinearConfig {
	return LinearConfig{LearningRate: 0.05, Epochs: 500}
}

// Linear is a least-squares linear regressor over standardized features,
// used for the next_daily_pnl_log target.
type Linear struct {
	Weights []float64
	Bias    float64

	scaler *scaler
}

// FitLinear trains the regressor with full-batch gradient descent on the
// squared-error loss.
func FitLinear(x [][]float64, y []float64, cfg LinearConfig) (*Linear, error) {
	if len(x) == 0 {
		return nil, errors.New("empty training set")
	}
	if len(x) != len(y) {
		return nil, errors.New("feature matrix and target length mismatch")
	}

	sc := fitScaler(x)
	xs := sc.transform(x)

	dim := len(xs[0])
	m := &Linear{Weights: make([]float64, dim), scaler: sc}
	n := float64(len(xs))

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		gradW := make([]float64, dim)
		gradB := 0.0
		for i, row := range xs {
			err := dot(m.Weights, row) + m.Bias - y[i]
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

// Predict returns the regression estimate for one feature row.
func (m *Linear) Predict(row []float64) float64 {
	return dot(m.Weights, m.scaler.transformRow(row)) + m.Bias
}

// MSE is the mean squared error over a labeled set.
func (m *Linear) MSE(x [][]float64, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for i, row := range x {
		diff := m.Predict(row) - y[i]
		sum += diff * diff
	}
	return sum / float64(len(x))
}

// R2 is the coefficient of determination over a labeled set.
func (m *Linear) R2(x [][]float64, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	meanY := 0.0
	for _, v := range y {
		meanY += v
	}
	meanY /= float64(len(y))

	ssRes, ssTot := 0.0, 0.0
	for i, row := range x {
		resid := y[i] - m.Predict(row)
		ssRes += resid * resid
		dev := y[i] - meanY
		ssTot += dev * dev
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
