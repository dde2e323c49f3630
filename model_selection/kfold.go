// Package model_selection provides the k-fold splitter and exhaustive
// grid search used to pick hyperparameters by cross-validated scoring.
package model_selection

import (
	"math/rand"

	"github.com/YuminosukeSato/churngrid/pkg/errors"
)

// Fold pairs the training row indices with the held-out validation rows.
type Fold struct {
	TrainIndices []int
	ValIndices   []int
}

// KFold splits row indices into k consecutive validation groups, each
// paired with the remaining rows for training.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    int64
}

// NewKFold creates a splitter with k folds and no shuffling.
func NewKFold(k int) *KFold {
	return &KFold{NSplits: k}
}

// Split partitions the indices 0..n-1 into folds. The validation groups
// are disjoint and together cover every index exactly once. The first
// n%k folds receive one extra row.
func (kf *KFold) Split(n int) ([]Fold, error) {
	if kf.NSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", kf.NSplits)
	}
	if kf.NSplits > n {
		return nil, errors.NewValidationError("n_splits",
			"cannot exceed the number of samples", kf.NSplits)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewSource(kf.Seed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := n / kf.NSplits
	remainder := n % kf.NSplits

	current := 0
	for i := 0; i < kf.NSplits; i++ {
		valSize := foldSize
		if i < remainder {
			valSize++
		}

		valIndices := make([]int, valSize)
		copy(valIndices, indices[current:current+valSize])

		inVal := make(map[int]bool, valSize)
		for _, idx := range valIndices {
			inVal[idx] = true
		}

		trainIndices := make([]int, 0, n-valSize)
		for _, idx := range indices {
			if !inVal[idx] {
				trainIndices = append(trainIndices, idx)
			}
		}

		folds[i] = Fold{
			TrainIndices: trainIndices,
			ValIndices:   valIndices,
		}

		current += valSize
	}

	return folds, nil
}
