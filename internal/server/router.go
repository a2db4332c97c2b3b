package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lantern/internal/catalog"
	"lantern/internal/engine"
	"lantern/internal/profile"
	"lantern/internal/score"
)

const (
	// ServiceName is reported by the health endpoint.
	ServiceName = "lantern"
	// MaxTopK bounds the number of recommendations a client may request.
	MaxTopK = 10
)

// ApiV1Router manages routes for API version 1.
// Serves the career catalog, hybrid predictions and match explanations.
type ApiV1Router struct {
	// engine: career matching engine shared by all handlers.
	engine *engine.Engine
	// defaultTopK: recommendations returned when a request omits top_k.
	defaultTopK int
	// maxBodyBytes: upper bound of a prediction request body.
	maxBodyBytes int64
	logger       *zap.Logger
}

// predictRequest is the body of both prediction endpoints.
// user_profile stays raw until it passes the profile schema.
type predictRequest struct {
	UserProfile json.RawMessage `json:"user_profile"`
	TopK        *int            `json:"top_k"`
	UseMLModel  *bool           `json:"use_ml_model"`
}

type predictResponse struct {
	Success         bool                   `json:"success"`
	TotalMatches    int                    `json:"total_matches"`
	MethodUsed      string                 `json:"method_used"`
	Recommendations []score.CombinedResult `json:"recommendations"`
}

type explainResponse struct {
	CareerID    string             `json:"career_id"`
	Explanation *score.Explanation `json:"explanation"`
}

type careersResponse struct {
	Total   int               `json:"total"`
	Careers []catalog.Summary `json:"careers"`
}

type careerDetail struct {
	ID                string             `json:"career_id"`
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	Description       string             `json:"description"`
	RequiredSkills    map[string]int     `json:"required_skills"`
	RequiredInterests map[string]int     `json:"required_interests"`
	AcademicWeights   map[string]float64 `json:"academic_weights"`
	MinGPA            float64            `json:"min_gpa"`
}

// Handler returns the chi router with every route registered:
//   - GET /health, GET /health/ready
//   - GET /metrics
//   - GET /api/v1/careers, GET /api/v1/careers/{careerID}
//   - GET /api/v1/categories, GET /api/v1/features
//   - POST /api/v1/predict, POST /api/v1/predict/explain
func (ar *ApiV1Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(ar.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", ar.healthHandler)
	r.Get("/health/ready", ar.readyHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/careers", ar.careersHandler)
		r.Get("/careers/{careerID}", ar.careerHandler)
		r.Get("/categories", ar.categoriesHandler)
		r.Get("/features", ar.featuresHandler)
		r.Post("/predict", ar.predictHandler)
		r.Post("/predict/explain", ar.explainHandler)
	})

	return r
}

func (ar *ApiV1Router) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// readyHandler reports whether hybrid predictions can use the model.
// Rule-based matching is always available, so the service is always ready.
func (ar *ApiV1Router) readyHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ready":           true,
		"model_available": ar.engine.ModelAvailable(),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

func (ar *ApiV1Router) careersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	careers, err := ar.engine.Careers(query.Get("category"), query.Get("filter"))
	if err != nil {
		ar.logger.Warn("Invalid career filter", zap.String("filter", query.Get("filter")), zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, careersResponse{Total: len(careers), Careers: careers})
}

func (ar *ApiV1Router) careerHandler(w http.ResponseWriter, r *http.Request) {
	def, err := ar.engine.Career(chi.URLParam(r, "careerID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, careerDetail{
		ID:                def.ID,
		Name:              def.Name,
		Category:          def.Category,
		Description:       def.Description,
		RequiredSkills:    def.RequiredSkills.Map(),
		RequiredInterests: def.RequiredInterests.Map(),
		AcademicWeights:   def.AcademicWeights,
		MinGPA:            def.MinGPA,
	})
}

func (ar *ApiV1Router) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"categories": ar.engine.Categories()})
}

func (ar *ApiV1Router) featuresHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ar.engine.Features())
}

// predictHandler ranks careers for the posted profile.
// Invalid profiles and out of range top_k are rejected with 422.
func (ar *ApiV1Router) predictHandler(w http.ResponseWriter, r *http.Request) {
	req, p, ok := ar.readPredictRequest(w, r)
	if !ok {
		return
	}

	topK := ar.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK < 1 || topK > MaxTopK {
		writeError(w, http.StatusUnprocessableEntity, "top_k must be between 1 and 10")
		return
	}

	useModel := true
	if req.UseMLModel != nil {
		useModel = *req.UseMLModel
	}

	hybrid := ar.engine.PredictHybrid(r.Context(), p, topK, useModel)
	writeJSON(w, http.StatusOK, predictResponse{
		Success:         true,
		TotalMatches:    len(hybrid.Results),
		MethodUsed:      hybrid.Method,
		Recommendations: hybrid.Results,
	})
}

// explainHandler explains the match between the posted profile and the career
// named by the career_id query parameter.
func (ar *ApiV1Router) explainHandler(w http.ResponseWriter, r *http.Request) {
	careerID := r.URL.Query().Get("career_id")
	if careerID == "" {
		writeError(w, http.StatusUnprocessableEntity, "career_id query parameter is required")
		return
	}

	_, p, ok := ar.readPredictRequest(w, r)
	if !ok {
		return
	}

	explanation, err := ar.engine.ExplainMatch(r.Context(), p, careerID)
	if errors.Is(err, catalog.ErrCareerNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		ar.logger.Error("Unable to explain match", zap.String("career_id", careerID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "unable to explain match")
		return
	}

	writeJSON(w, http.StatusOK, explainResponse{CareerID: careerID, Explanation: explanation})
}

// readPredictRequest reads and validates a prediction request body.
// On failure the error response is already written and ok is false.
func (ar *ApiV1Router) readPredictRequest(w http.ResponseWriter, r *http.Request) (req predictRequest, p *profile.Profile, ok bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, ar.maxBodyBytes))
	defer r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return req, nil, false
		}
		ar.logger.Warn("Unable to read request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "unable to read request body")
		return req, nil, false
	}

	if err := json.Unmarshal(body, &req); err != nil {
		ar.logger.Debug("Malformed prediction request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return req, nil, false
	}

	if len(req.UserProfile) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "user_profile is required")
		return req, nil, false
	}

	p, err = profile.Decode(req.UserProfile)
	if err != nil {
		var invalid *profile.ValidationError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusUnprocessableEntity, "invalid user_profile", invalid.Issues...)
		} else {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return req, nil, false
	}

	return req, p, true
}

// NewApiV1Router creates a new API v1 router.
// Parameters:
// - eng: career matching engine
// - defaultTopK: recommendations returned when a request omits top_k, capped at MaxTopK
// - maxBodyBytes: request body limit of the prediction endpoints
// - logger: request logger
func NewApiV1Router(eng *engine.Engine, defaultTopK int, maxBodyBytes int64, logger *zap.Logger) *ApiV1Router {
	defaultTopK = min(max(defaultTopK, 1), MaxTopK)
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ApiV1Router{
		engine:       eng,
		defaultTopK:  defaultTopK,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}
