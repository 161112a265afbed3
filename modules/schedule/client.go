// Package schedule exposes the external schedule-generation service. The
// service owns timetable construction; this side only triggers runs and
// polls their state over HTTP.
package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/campusware/campus/pkg/configuration"
	"github.com/campusware/campus/pkg/httpapi"
)

type GenerationRun struct {
	ID        string    `json:"id"`
	CampusID  string    `json:"campusId,omitempty"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"startedAt"`
}

type Client interface {
	StartGeneration(ctx context.Context, campusID string) (*GenerationRun, error)
	GetRun(ctx context.Context, runID string) (*GenerationRun, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewClient() Client {
	conf := configuration.Use()
	return &httpClient{
		baseURL: conf.Schedule.BaseURL,
		client:  &http.Client{Timeout: conf.Schedule.Timeout},
	}
}

func (c *httpClient) StartGeneration(ctx context.Context, campusID string) (*GenerationRun, error) {
	body := map[string]string{}
	if campusID != "" {
		body["campusId"] = campusID
	}
	return c.do(ctx, http.MethodPost, "/api/runs", body)
}

func (c *httpClient) GetRun(ctx context.Context, runID string) (*GenerationRun, error) {
	return c.do(ctx, http.MethodGet, "/api/runs/"+runID, nil)
}

func (c *httpClient) do(ctx context.Context, method, path string, body interface{}) (*GenerationRun, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope httpapi.ErrorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
			return nil, fmt.Errorf("schedule service: %s (%s)", envelope.Message, envelope.Code)
		}
		return nil, fmt.Errorf("schedule service: unexpected status %d", resp.StatusCode)
	}

	var run GenerationRun
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return nil, fmt.Errorf("schedule service: decode response: %w", err)
	}
	return &run, nil
}
