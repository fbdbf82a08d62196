package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// ModelTrainer defines the interface for triggering a training pass.
type ModelTrainer interface {
	RunTraining(ctx context.Context) ([]domain.TrainingScore, error)
}

// TrainHandler handles manual training requests.
type TrainHandler struct {
	trainer ModelTrainer
}

// NewTrainHandler creates a new TrainHandler.
func NewTrainHandler(t ModelTrainer) *TrainHandler {
	return &TrainHandler{trainer: t}
}

// TrainOutput is the response body for the train endpoint.
type TrainOutput struct {
	Body struct {
		ModelsTrained int                    `json:"models_trained" doc:"Number of product models written"`
		Scores        []domain.TrainingScore `json:"scores"`
	}
}

// Train retrains per-product elasticity models from the sales history.
func (h *TrainHandler) Train(ctx context.Context, _ *struct{}) (*TrainOutput, error) {
	scores, err := h.trainer.RunTraining(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("training failed: " + err.Error())
	}

	resp := &TrainOutput{}
	resp.Body.ModelsTrained = len(scores)
	resp.Body.Scores = scores
	return resp, nil
}

// RegisterTrainRoutes registers the train endpoint with the Huma API.
func RegisterTrainRoutes(api huma.API, h *TrainHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "run-training-pass",
		Method:      http.MethodPost,
		Path:        "/api/v1/train",
		Summary:     "Retrain demand models",
		Description: "Fits one ridge elasticity model per product with sufficient sales " +
			"history and reports held-out validation R² per model.",
		Tags:   []string{"pricing"},
		Errors: []int{http.StatusInternalServerError},
	}, h.Train)
}
