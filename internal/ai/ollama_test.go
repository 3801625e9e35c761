package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satisfyhq/satisfy/internal/config"
)

func testClient(t *testing.T, baseURL string) *OllamaClient {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	return NewOllamaClient(&config.AIConfig{
		BaseURL:     baseURL,
		Model:       "deepseek-r1:8b",
		Timeout:     5 * time.Second,
		Temperature: 0.7,
		NumPredict:  500,
	}, logger)
}

func TestOllamaClient_Generate(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]string{
			"response": `{"recommendations": [], "reasoning": "none"}`,
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	reply, err := client.Generate(context.Background(), "recommend something")

	require.NoError(t, err)
	assert.Equal(t, `{"recommendations": [], "reasoning": "none"}`, reply)
	assert.Equal(t, "deepseek-r1:8b", captured.Model)
	assert.Equal(t, "recommend something", captured.Prompt)
	assert.False(t, captured.Stream)
	assert.Equal(t, "json", captured.Format)
	assert.Equal(t, 0.7, captured.Options.Temperature)
	assert.Equal(t, 500, captured.Options.NumPredict)
}

func TestOllamaClient_GenerateStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.Generate(context.Background(), "anything")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestOllamaClient_GenerateUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := testClient(t, server.URL)

	_, err := client.Generate(context.Background(), "anything")

	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestOllamaClient_GenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	client := NewOllamaClient(&config.AIConfig{
		BaseURL: server.URL,
		Model:   "deepseek-r1:8b",
		Timeout: 50 * time.Millisecond,
	}, logger)

	_, err := client.Generate(context.Background(), "anything")

	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestOllamaClient_GenerateBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.Generate(context.Background(), "anything")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnreachable)
}
