package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pricing-engine/internal/api/handlers"
	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// mockModelTrainer is a test double for ModelTrainer.
type mockModelTrainer struct {
	scores []domain.TrainingScore
	err    error
}

func (m *mockModelTrainer) RunTraining(_ context.Context) ([]domain.TrainingScore, error) {
	return m.scores, m.err
}

func TestTrain_Success(t *testing.T) {
	t.Parallel()

	h := handlers.NewTrainHandler(&mockModelTrainer{
		scores: []domain.TrainingScore{
			{ProductID: "P001", R2: 0.82, Samples: 60},
			{ProductID: "P002", R2: 0.47, Samples: 45},
		},
	})

	_, api := humatest.New(t)
	handlers.RegisterTrainRoutes(api, h)

	resp := api.Post("/api/v1/train")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"models_trained":2`)
	assert.Contains(t, resp.Body.String(), `"P002"`)
}

func TestTrain_Error(t *testing.T) {
	t.Parallel()

	h := handlers.NewTrainHandler(&mockModelTrainer{err: errors.New("sales_history.csv not found")})

	_, api := humatest.New(t)
	handlers.RegisterTrainRoutes(api, h)

	resp := api.Post("/api/v1/train")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "training failed")
}
