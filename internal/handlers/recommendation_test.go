package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/satisfyhq/satisfy/internal/ai"
	"github.com/satisfyhq/satisfy/pkg/models"
)

// MockRecommendationService is a mock implementation for testing
type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) Recommend(ctx context.Context, req *models.RecommendationRequest) (*models.RecommendationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecommendationResult), args.Error(1)
}

func performRecommend(t *testing.T, mockService *MockRecommendationService, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	handler := NewRecommendationHandler(logger, mockService)

	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", "/api/ai-recommend", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Recommend(c)
	return w
}

func TestRecommendationHandler_Success(t *testing.T) {
	mockService := new(MockRecommendationService)
	mockService.On("Recommend", mock.Anything, mock.AnythingOfType("*models.RecommendationRequest")).
		Return(&models.RecommendationResult{
			UserID:          "guest",
			Query:           "strawberry",
			Recommendations: []models.RecommendedProduct{},
			Reasoning:       "No strong matches found (confidence 5+/7). Try adjusting your search or preferences.",
			AIModel:         "deepseek-r1:8b (Local)",
		}, nil)

	w := performRecommend(t, mockService, models.RecommendationRequest{Query: "strawberry"})

	assert.Equal(t, http.StatusOK, w.Code)

	var result models.RecommendationResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "guest", result.UserID)
	assert.Equal(t, "deepseek-r1:8b (Local)", result.AIModel)
	mockService.AssertExpectations(t)
}

func TestRecommendationHandler_MissingQuery(t *testing.T) {
	mockService := new(MockRecommendationService)

	w := performRecommend(t, mockService, map[string]interface{}{"user_id": "guest"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Recommend")
}

func TestRecommendationHandler_UpstreamStatusError(t *testing.T) {
	mockService := new(MockRecommendationService)
	mockService.On("Recommend", mock.Anything, mock.Anything).
		Return(nil, &ai.StatusError{StatusCode: 500})

	w := performRecommend(t, mockService, models.RecommendationRequest{Query: "latte"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Ollama API error", response["error"])
	assert.Equal(t, float64(500), response["status"])
}

func TestRecommendationHandler_UpstreamUnreachable(t *testing.T) {
	mockService := new(MockRecommendationService)
	mockService.On("Recommend", mock.Anything, mock.Anything).
		Return(nil, ai.ErrUnreachable)

	w := performRecommend(t, mockService, models.RecommendationRequest{Query: "latte"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Cannot connect to Ollama. Make sure Ollama is running.", response["error"])
	assert.NotEmpty(t, response["details"])
}
