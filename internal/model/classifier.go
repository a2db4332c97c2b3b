package model

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Classifier produces one probability per class for a feature vector.
type Classifier interface {
	PredictProba(ctx context.Context, features []float64) ([]float64, error)
}

// sized is implemented by classifiers that know their input width.
type sized interface {
	Inputs() int
}

// Options configure classifiers that are not fully described by their artifact.
type Options struct {
	RemoteURL     string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// NewClassifier builds the classifier described by an artifact.
func NewClassifier(a *Artifact, opts Options) (Classifier, error) {
	switch a.Kind {
	case KindLinear:
		return NewLinearClassifier(*a.Linear, len(a.Classes))
	case KindTrees:
		return NewTreeEnsemble(*a.Trees, a.FeatureNames, len(a.Classes))
	case KindRemote:
		if opts.RemoteURL == "" {
			return nil, fmt.Errorf("remote model requires a url")
		}
		return NewRemoteClassifier(opts.RemoteURL, opts.Timeout, opts.RatePerSecond, opts.Burst), nil
	}
	return nil, fmt.Errorf("unknown model kind %q", a.Kind)
}

// softmax converts margins into probabilities.
func softmax(margins []float64) []float64 {
	maxMargin := math.Inf(-1)
	for _, m := range margins {
		maxMargin = math.Max(maxMargin, m)
	}

	sum := 0.0
	probs := make([]float64, len(margins))
	for i, m := range margins {
		probs[i] = math.Exp(m - maxMargin)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// binary expands a single positive-class margin into two class probabilities.
func binary(margin float64) []float64 {
	p := sigmoid(margin)
	return []float64{1 - p, p}
}
