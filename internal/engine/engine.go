// Package engine is the entry point to career matching. It ranks catalog careers for
// a profile, optionally fuses the ranking with a trained model, and explains matches.
package engine

import (
	"context"
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lantern/internal/catalog"
	"lantern/internal/metrics"
	"lantern/internal/model"
	"lantern/internal/profile"
	"lantern/internal/score"
	"lantern/internal/score/scorer"
)

// Predictor is the model capability the engine consults for hybrid predictions.
type Predictor interface {
	Available() bool
	Predict(ctx context.Context, p *profile.Profile, k int) model.Outcome
}

// Params are the engine's collaborators. Only Catalog is required.
type Params struct {
	Catalog   *catalog.Catalog
	Explainer score.Explainer
	Fusion    *scorer.CompositeScorer
	Predictor Predictor
	// Workers bounds parallel catalog scoring; 0 uses one worker per CPU.
	Workers int
	Logger  *zap.Logger
}

// Hybrid is the outcome of a hybrid prediction.
type Hybrid struct {
	Results []score.CombinedResult
	// Method is score.MethodHybrid when model predictions were fused in.
	Method string
	// ModelStatus is empty when the model was not requested.
	ModelStatus model.Status
}

// Engine is stateless per request and safe for concurrent use.
type Engine struct {
	catalog   *catalog.Catalog
	explainer score.Explainer
	fusion    *scorer.CompositeScorer
	predictor Predictor
	workers   int
	logger    *zap.Logger
	tracer    trace.Tracer
}

// TopCareers scores the profile against every career and returns the k best.
// Careers are scored in parallel; equal scores keep catalog order.
func (e *Engine) TopCareers(ctx context.Context, p *profile.Profile, k int) []score.MatchResult {
	_, span := e.tracer.Start(ctx, "engine.TopCareers", trace.WithAttributes(
		attribute.Int("top_k", k),
		attribute.Int("careers", e.catalog.Len()),
	))
	defer span.End()

	timer := prometheus.NewTimer(metrics.ScoringDuration.WithLabelValues("top_careers"))
	defer timer.ObserveDuration()

	defs := e.catalog.All()
	results := make([]score.MatchResult, len(defs))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, def := range defs {
		g.Go(func() error {
			results[i] = scorer.Evaluate(p, def)
			return nil
		})
	}
	_ = g.Wait()

	return scorer.Rank(results, k)
}

// PredictHybrid ranks careers by rules and, when useModel is set and a model is
// available, fuses in the model's predictions. Any model failure falls back to the
// rule-based ranking, which is then identical to TopCareers.
func (e *Engine) PredictHybrid(ctx context.Context, p *profile.Profile, k int, useModel bool) Hybrid {
	ctx, span := e.tracer.Start(ctx, "engine.PredictHybrid", trace.WithAttributes(
		attribute.Int("top_k", k),
		attribute.Bool("use_model", useModel),
	))
	defer span.End()

	timer := prometheus.NewTimer(metrics.ScoringDuration.WithLabelValues("predict_hybrid"))
	defer timer.ObserveDuration()

	rules := e.TopCareers(ctx, p, k)
	result := Hybrid{Method: score.MethodRuleBased}

	if useModel {
		out := e.predictor.Predict(ctx, p, k)
		result.ModelStatus = out.Status
		metrics.ModelOutcomesTotal.WithLabelValues(string(out.Status)).Inc()

		if out.Status == model.StatusOK && len(out.Predictions) > 0 {
			result.Results = e.fuse(rules, out.Predictions, k)
			result.Method = score.MethodHybrid
		} else if out.Err != nil {
			span.RecordError(out.Err)
			e.logger.Debug("Using rule-based ranking", zap.String("model_status", string(out.Status)), zap.Error(out.Err))
		}
	}

	if result.Results == nil {
		result.Results = scorer.FromMatches(rules)
	}

	span.SetAttributes(attribute.String("method", result.Method))
	metrics.PredictionsTotal.WithLabelValues(result.Method).Inc()
	return result
}

// fuse combines both rankings, fills display fields of model-only careers from the
// catalog when it knows them, and keeps the best k.
func (e *Engine) fuse(rules []score.MatchResult, predictions []score.ModelPrediction, k int) []score.CombinedResult {
	ranked := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		ranked[r.CareerID] = struct{}{}
	}

	combined := e.fusion.Combine(rules, predictions)
	for i := range combined {
		if _, ok := ranked[combined[i].CareerID]; ok {
			continue
		}
		if def, ok := e.catalog.Get(combined[i].CareerID); ok {
			combined[i].CareerName = def.Name
			combined[i].Category = def.Category
			combined[i].Description = def.Description
		}
	}

	if k >= 0 && k < len(combined) {
		combined = combined[:k]
	}
	return combined
}

// ExplainMatch explains how the profile matches one career.
// Returns catalog.ErrCareerNotFound for unknown careers.
func (e *Engine) ExplainMatch(ctx context.Context, p *profile.Profile, careerID string) (*score.Explanation, error) {
	_, span := e.tracer.Start(ctx, "engine.ExplainMatch", trace.WithAttributes(attribute.String("career_id", careerID)))
	defer span.End()

	timer := prometheus.NewTimer(metrics.ScoringDuration.WithLabelValues("explain"))
	defer timer.ObserveDuration()

	explanation, err := e.explainer.Explain(p, careerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return explanation, nil
}

// Careers lists catalog careers, optionally narrowed by category and a filter expression.
func (e *Engine) Careers(category, filter string) ([]catalog.Summary, error) {
	return e.catalog.Filter(category, filter)
}

// Career returns one career definition.
func (e *Engine) Career(id string) (*catalog.CareerDefinition, error) {
	def, ok := e.catalog.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrCareerNotFound, id)
	}
	return def, nil
}

// Categories returns the sorted catalog categories.
func (e *Engine) Categories() []string {
	return e.catalog.Categories()
}

// Features returns the catalog's features manifest.
func (e *Engine) Features() catalog.Features {
	return e.catalog.Features()
}

// ModelAvailable reports whether hybrid predictions can use a model.
func (e *Engine) ModelAvailable() bool {
	return e.predictor.Available()
}

// New creates an engine. Missing optional collaborators get defaults: the catalog's
// explainer, 0.4/0.6 fusion weights and no model.
func New(params Params) *Engine {
	e := &Engine{
		catalog:   params.Catalog,
		explainer: params.Explainer,
		fusion:    params.Fusion,
		predictor: params.Predictor,
		workers:   params.Workers,
		logger:    params.Logger,
		tracer:    otel.Tracer("lantern/engine"),
	}

	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.explainer == nil {
		e.explainer = scorer.NewExplainer(params.Catalog)
	}
	if e.fusion == nil {
		e.fusion = scorer.NewCompositeScorer(scorer.DefaultRuleWeight, scorer.DefaultModelWeight)
	}
	if e.predictor == nil {
		e.predictor = model.Unavailable(e.logger)
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}

	metrics.CatalogCareers.Set(float64(params.Catalog.Len()))
	return e
}
