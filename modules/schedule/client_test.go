package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartGeneration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/runs", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "north", body["campusId"])

		_ = json.NewEncoder(w).Encode(&GenerationRun{
			ID:        "run-1",
			CampusID:  "north",
			Status:    "RUNNING",
			StartedAt: time.Now(),
		})
	}))
	defer server.Close()

	client := &httpClient{baseURL: server.URL, client: server.Client()}
	run, err := client.StartGeneration(context.Background(), "north")

	require.NoError(t, err)
	require.Equal(t, "run-1", run.ID)
	require.Equal(t, "RUNNING", run.Status)
}

func TestGetRunPropagatesServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "run not found",
			"code":    "RUN_NOT_FOUND",
		})
	}))
	defer server.Close()

	client := &httpClient{baseURL: server.URL, client: server.Client()}
	_, err := client.GetRun(context.Background(), "missing")

	require.Error(t, err)
	require.Contains(t, err.Error(), "run not found")
}
