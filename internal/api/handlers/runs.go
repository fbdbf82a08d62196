package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/pricing-engine/internal/store"
	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

const defaultRunLimit = 20

// RunsHandler serves persisted run history. Requires a configured store;
// CSV-only deployments get 503 from every endpoint here.
type RunsHandler struct {
	store store.Store
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(s store.Store) *RunsHandler {
	return &RunsHandler{store: s}
}

// --- Input/Output types ---

// ListRunsInput is the input for listing recent runs.
type ListRunsInput struct {
	Limit int `query:"limit" doc:"Number of runs (default 20)" minimum:"1" maximum:"500"`
}

// ListRunsOutput is the response for listing recent runs.
type ListRunsOutput struct {
	Body struct {
		Runs []domain.RunSummary `json:"runs"`
	}
}

// ListRecommendationsInput selects which run's rows to return.
type ListRecommendationsInput struct {
	RunID string `query:"run_id" doc:"Run to fetch; defaults to the latest run"`
}

// ListRecommendationsOutput is the response for listing persisted rows.
type ListRecommendationsOutput struct {
	Body struct {
		RunID           string                  `json:"run_id"`
		Recommendations []domain.Recommendation `json:"recommendations"`
	}
}

// --- Handlers ---

// ListRuns returns recent run summaries, newest first.
func (h *RunsHandler) ListRuns(
	ctx context.Context,
	input *ListRunsInput,
) (*ListRunsOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("run history requires a database")
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultRunLimit
	}

	runs, err := h.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("run query failed: " + err.Error())
	}

	resp := &ListRunsOutput{}
	resp.Body.Runs = runs
	return resp, nil
}

// ListRecommendations returns the persisted rows of a run, defaulting to
// the most recent one.
func (h *RunsHandler) ListRecommendations(
	ctx context.Context,
	input *ListRecommendationsInput,
) (*ListRecommendationsOutput, error) {
	if h.store == nil {
		return nil, huma.Error503ServiceUnavailable("recommendation history requires a database")
	}

	runID := input.RunID
	if runID == "" {
		run, err := h.store.LatestRun(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("run query failed: " + err.Error())
		}
		if run == nil {
			return nil, huma.Error404NotFound("no recommendation runs recorded yet")
		}
		runID = run.ID
	}

	recs, err := h.store.ListRecommendations(ctx, runID)
	if err != nil {
		return nil, huma.Error500InternalServerError("recommendation query failed: " + err.Error())
	}

	resp := &ListRecommendationsOutput{}
	resp.Body.RunID = runID
	resp.Body.Recommendations = recs
	return resp, nil
}

// RegisterRunRoutes registers run history endpoints with the Huma API.
func RegisterRunRoutes(api huma.API, h *RunsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-runs",
		Method:      http.MethodGet,
		Path:        "/api/v1/runs",
		Summary:     "List recommendation runs",
		Description: "Returns recent recommendation run summaries, newest first.",
		Tags:        []string{"runs"},
		Errors:      []int{http.StatusServiceUnavailable},
	}, h.ListRuns)

	huma.Register(api, huma.Operation{
		OperationID: "list-recommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations",
		Summary:     "List persisted recommendations",
		Description: "Returns the recommendation rows of a run, defaulting to the latest.",
		Tags:        []string{"runs"},
		Errors:      []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, h.ListRecommendations)
}
