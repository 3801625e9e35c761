package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/satisfyhq/satisfy/internal/services"
	"github.com/satisfyhq/satisfy/pkg/models"
)

// MockInteractionService is a mock implementation for testing
type MockInteractionService struct {
	mock.Mock
}

func (m *MockInteractionService) RecordInteraction(ctx context.Context, req *models.InteractionRequest) (*models.ProductInteraction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductInteraction), args.Error(1)
}

func (m *MockInteractionService) VendorProductStats(ctx context.Context, vendor string) ([]models.ProductStats, error) {
	args := m.Called(ctx, vendor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductStats), args.Error(1)
}

func TestInteractionHandler_Record(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockInteractionService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "valid like interaction",
			requestBody: models.InteractionRequest{
				ProductID: 42,
				Type:      "like",
			},
			mockSetup: func(m *MockInteractionService) {
				m.On("RecordInteraction", mock.Anything, mock.AnythingOfType("*models.InteractionRequest")).
					Return(&models.ProductInteraction{
						ID:        uuid.New(),
						ProductID: 42,
						Type:      "like",
					}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "valid dislike interaction",
			requestBody: models.InteractionRequest{
				ProductID: 7,
				Type:      "dislike",
			},
			mockSetup: func(m *MockInteractionService) {
				m.On("RecordInteraction", mock.Anything, mock.AnythingOfType("*models.InteractionRequest")).
					Return(&models.ProductInteraction{
						ID:        uuid.New(),
						ProductID: 7,
						Type:      "dislike",
					}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "invalid interaction type",
			requestBody: models.InteractionRequest{
				ProductID: 42,
				Type:      "love",
			},
			mockSetup:      func(m *MockInteractionService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_FAILED",
		},
		{
			name: "missing product id",
			requestBody: map[string]interface{}{
				"type": "like",
			},
			mockSetup:      func(m *MockInteractionService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_FAILED",
		},
		{
			name: "unknown product",
			requestBody: models.InteractionRequest{
				ProductID: 999,
				Type:      "like",
			},
			mockSetup: func(m *MockInteractionService) {
				m.On("RecordInteraction", mock.Anything, mock.AnythingOfType("*models.InteractionRequest")).
					Return(nil, services.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "PRODUCT_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockInteractionService)
			tt.mockSetup(mockService)

			handler := NewInteractionHandler(logger, mockService)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest("POST", "/api/product-interaction", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			handler.Record(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response map[string]interface{}
				err := json.Unmarshal(w.Body.Bytes(), &response)
				assert.NoError(t, err)
				errObj, ok := response["error"].(map[string]interface{})
				assert.True(t, ok)
				assert.Equal(t, tt.expectedError, errObj["code"])
			}

			mockService.AssertExpectations(t)
		})
	}
}
