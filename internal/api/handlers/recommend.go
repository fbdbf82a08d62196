package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/pricing-engine/internal/engine"
	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// PassRunner defines the interface for triggering a recommendation pass.
type PassRunner interface {
	RunRecommendationPass(ctx context.Context) (*engine.PassResult, error)
}

// RecommendHandler handles manual recommendation pass requests.
type RecommendHandler struct {
	runner PassRunner
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(r PassRunner) *RecommendHandler {
	return &RecommendHandler{runner: r}
}

// RecommendOutput is the response body for the recommend endpoint.
type RecommendOutput struct {
	Body struct {
		RunID           string                  `json:"run_id"             doc:"Identifier of this pass"`
		Products        int                     `json:"products"           doc:"Number of products priced"`
		AlertsFired     int                     `json:"alerts_fired"       doc:"Alert-worthy rows dispatched"`
		CSVPath         string                  `json:"csv_path,omitempty" doc:"Path of the written CSV report"`
		Recommendations []domain.Recommendation `json:"recommendations"`
	}
}

// Recommend runs a full recommendation pass over the current dataset.
func (h *RecommendHandler) Recommend(ctx context.Context, _ *struct{}) (*RecommendOutput, error) {
	result, err := h.runner.RunRecommendationPass(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("recommendation pass failed: " + err.Error())
	}

	resp := &RecommendOutput{}
	resp.Body.RunID = result.RunID
	resp.Body.Products = len(result.Recommendations)
	resp.Body.AlertsFired = result.AlertsFired
	resp.Body.CSVPath = result.CSVPath
	resp.Body.Recommendations = result.Recommendations
	return resp, nil
}

// RegisterRecommendRoutes registers the recommend endpoint with the Huma API.
func RegisterRecommendRoutes(api huma.API, h *RecommendHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "run-recommendation-pass",
		Method:      http.MethodPost,
		Path:        "/api/v1/recommend",
		Summary:     "Run a recommendation pass",
		Description: "Reloads the CSV dataset, computes a price recommendation per product, " +
			"writes the CSV report, and dispatches alerts for large moves.",
		Tags:   []string{"pricing"},
		Errors: []int{http.StatusInternalServerError},
	}, h.Recommend)
}
