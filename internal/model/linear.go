package model

import (
	"context"
	"fmt"
)

// LinearParams are the coefficients of a multinomial logistic regression.
// Weights has one row per class, or a single row for a two-class model.
type LinearParams struct {
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
}

// LinearClassifier is a softmax regression.
type LinearClassifier struct {
	params  LinearParams
	inputs  int
	classes int
}

// PredictProba returns softmax(W·x + b), or the sigmoid pair for a two-class model.
func (lc *LinearClassifier) PredictProba(_ context.Context, features []float64) ([]float64, error) {
	if len(features) != lc.inputs {
		return nil, fmt.Errorf("linear model expects %d features, got %d", lc.inputs, len(features))
	}

	margins := make([]float64, len(lc.params.Weights))
	for c, row := range lc.params.Weights {
		m := lc.params.Intercepts[c]
		for i, w := range row {
			m += w * features[i]
		}
		margins[c] = m
	}

	if lc.classes == 2 && len(margins) == 1 {
		return binary(margins[0]), nil
	}
	return softmax(margins), nil
}

// Inputs returns the feature vector width.
func (lc *LinearClassifier) Inputs() int {
	return lc.inputs
}

// NewLinearClassifier validates the coefficient shapes against the number of classes.
func NewLinearClassifier(params LinearParams, classes int) (*LinearClassifier, error) {
	rows := len(params.Weights)
	if rows == 0 {
		return nil, fmt.Errorf("linear model has no weights")
	}
	if rows != classes && !(rows == 1 && classes == 2) {
		return nil, fmt.Errorf("linear model has %d weight rows for %d classes", rows, classes)
	}
	if len(params.Intercepts) != rows {
		return nil, fmt.Errorf("linear model has %d intercepts for %d weight rows", len(params.Intercepts), rows)
	}

	inputs := len(params.Weights[0])
	for c, row := range params.Weights {
		if len(row) != inputs {
			return nil, fmt.Errorf("linear model weight row %d has %d entries, want %d", c, len(row), inputs)
		}
	}

	return &LinearClassifier{params: params, inputs: inputs, classes: classes}, nil
}
