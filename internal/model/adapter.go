package model

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"lantern/internal/features"
	"lantern/internal/profile"
	"lantern/internal/score"
)

// Status reports how a prediction went.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
	StatusFailed      Status = "failed"
)

// ErrUnavailable is carried by outcomes of an adapter without a model.
var ErrUnavailable = errors.New("model unavailable")

// Outcome is the result of a prediction. Predictions is empty unless Status is ok;
// Err explains an unavailable or failed outcome.
type Outcome struct {
	Predictions []score.ModelPrediction
	Status      Status
	Err         error
}

// Adapter wraps a trained classifier behind a call that never fails outward.
// A nil classifier makes the adapter unavailable.
type Adapter struct {
	classifier Classifier
	schema     features.Schema
	classes    []string
	scaler     *Scaler
	logger     *zap.Logger
}

// Available reports whether a model is loaded.
func (a *Adapter) Available() bool {
	return a != nil && a.classifier != nil
}

// Schema returns the feature order the model consumes. Nil means the basic vector.
func (a *Adapter) Schema() features.Schema {
	if a == nil {
		return nil
	}
	return a.schema
}

// Classes returns the model's class labels in index order.
func (a *Adapter) Classes() []string {
	if a == nil {
		return nil
	}
	return a.classes
}

// Predict returns the k most probable careers for the profile.
// Errors and panics inside the classifier are reported as a failed outcome.
func (a *Adapter) Predict(ctx context.Context, p *profile.Profile, k int) (out Outcome) {
	if !a.Available() {
		return Outcome{Predictions: []score.ModelPrediction{}, Status: StatusUnavailable, Err: ErrUnavailable}
	}

	defer func() {
		if r := recover(); r != nil {
			out = a.failed(fmt.Errorf("model panic: %v", r))
		}
	}()

	x := features.BuildVector(p, a.schema)
	if a.scaler != nil {
		var err error
		if x, err = a.scaler.Transform(x); err != nil {
			return a.failed(err)
		}
	}

	probs, err := a.classifier.PredictProba(ctx, x)
	if err != nil {
		return a.failed(err)
	}
	if len(probs) != len(a.classes) {
		return a.failed(fmt.Errorf("model returned %d probabilities for %d classes", len(probs), len(a.classes)))
	}
	for i, prob := range probs {
		if math.IsNaN(prob) || math.IsInf(prob, 0) {
			return a.failed(fmt.Errorf("model returned non-finite probability for class %d", i))
		}
	}

	return Outcome{Predictions: a.top(probs, k), Status: StatusOK}
}

func (a *Adapter) failed(err error) Outcome {
	a.logger.Warn("Model prediction failed, falling back to rule-based scoring", zap.Error(err))
	return Outcome{Predictions: []score.ModelPrediction{}, Status: StatusFailed, Err: err}
}

// top picks the k highest probabilities, ties going to the lower class index.
func (a *Adapter) top(probs []float64, k int) []score.ModelPrediction {
	if k <= 0 {
		return []score.ModelPrediction{}
	}

	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return probs[order[i]] > probs[order[j]]
	})
	if k < len(order) {
		order = order[:k]
	}

	predictions := make([]score.ModelPrediction, len(order))
	for i, idx := range order {
		label := a.classes[idx]
		confidence := score.Round(probs[idx], 4)
		predictions[i] = score.ModelPrediction{
			CareerID:   LabelToID(label),
			Label:      label,
			Confidence: confidence,
			MatchScore: score.Round(confidence*100, 2),
		}
	}
	return predictions
}

// LabelToID converts a class label such as "Software Engineer" into a career identifier.
func LabelToID(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}

// NewAdapter wraps a classifier built from artifact.
// Without feature names the default schema is used for classifiers sized for it,
// the basic vector otherwise.
func NewAdapter(artifact *Artifact, classifier Classifier, logger *zap.Logger) *Adapter {
	schema := features.Schema(artifact.FeatureNames)
	if len(schema) == 0 {
		if s, ok := classifier.(sized); ok && s.Inputs() == len(features.DefaultSchema()) {
			schema = features.DefaultSchema()
		}
	}

	return &Adapter{
		classifier: classifier,
		schema:     schema,
		classes:    artifact.Classes,
		scaler:     artifact.Scaler,
		logger:     logger,
	}
}

// Unavailable returns an adapter without a model.
func Unavailable(logger *zap.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Load reads the artifact at path and builds its adapter.
// A missing or broken artifact yields an unavailable adapter.
func Load(path string, opts Options, logger *zap.Logger) *Adapter {
	if path == "" {
		logger.Info("No model artifact configured, using rule-based scoring only")
		return Unavailable(logger)
	}

	artifact, err := LoadArtifact(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("Model artifact not found, using rule-based scoring only", zap.String("path", path))
		return Unavailable(logger)
	}
	if err != nil {
		logger.Warn("Unable to load model artifact, using rule-based scoring only",
			zap.String("path", path), zap.Error(err))
		return Unavailable(logger)
	}

	classifier, err := NewClassifier(artifact, opts)
	if err != nil {
		logger.Warn("Unable to build model, using rule-based scoring only",
			zap.String("path", path), zap.Error(err))
		return Unavailable(logger)
	}

	logger.Info("Model loaded",
		zap.String("path", path),
		zap.String("kind", artifact.Kind),
		zap.Int("classes", len(artifact.Classes)),
		zap.Int("features", len(artifact.FeatureNames)))
	return NewAdapter(artifact, classifier, logger)
}
