// Package models holds the two lightweight predictive models trained on the
// pipeline's feature set: a next-day profitability classifier and a next-day
// log-pnl regressor.
package models

import (
	"errors"
	"math/rand"
)

// ErrEmptySplit is returned when either side of a train/test split would be
// empty.
var ErrEmptySplit = errors.New("train/test split produced an empty partition")

// Split is a deterministic shuffled train/test partition of a feature set.
type Split struct {
	XTrain, XTest [][]float64
	YTrain, YTest []float64
}

// TrainTestSplit shuffles row indices with the given seed and cuts off the
// trailing testFrac share as the test set. Inputs are not mutated.
func TrainTestSplit(x [][]float64, y []float64, testFrac float64, seed int64) (*Split, error) {
	if len(x) != len(y) {
		return nil, errors.New("feature matrix and target length mismatch")
	}
	if testFrac <= 0 || testFrac >= 1 {
		return nil, errors.New("test fraction must be in (0, 1)")
	}

	n := len(x)
	testN := int(float64(n) * testFrac)
	if testN == 0 || testN == n {
		return nil, ErrEmptySplit
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	s := &Split{}
	for i, p := range perm {
		if i < n-testN {
			s.XTrain = append(s.XTrain, x[p])
			s.YTrain = append(s.YTrain, y[p])
		} else {
			s.XTest = append(s.XTest, x[p])
			s.YTest = append(s.YTest, y[p])
		}
	}
	return s, nil
}

// Binary converts an int label vector to float64 for the shared split type.
func Binary(labels []int) []float64 {
	out := make([]float64, len(labels))
	for i, l := range labels {
		out[i] = float64(l)
	}
	return out
}
