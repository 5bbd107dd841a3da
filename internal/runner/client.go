package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/engine/internal/models"
)

// Client talks to the engine server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an HTTP client for the engine server. The API key is
// only attached to write requests.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Plan is the server's expanded plan for a program day.
type Plan struct {
	Workout   *models.WorkoutDefinition `json:"workout"`
	Intervals []PlannedInterval         `json:"intervals"`
	// AverageTargetPace is nil when no interval carries a paced target.
	AverageTargetPace *float64         `json:"average_target_pace"`
	Baseline          *models.Baseline `json:"baseline"`
	TotalWorkSeconds  int              `json:"total_work_seconds"`
	TotalRestSeconds  int              `json:"total_rest_seconds"`
}

// PlannedInterval is an interval plus its computed target, as served by the
// plan endpoint.
type PlannedInterval struct {
	models.Interval
	Target struct {
		Pace           float64 `json:"pace"`
		ExpectedOutput int     `json:"expected_output"`
		MaxEffort      bool    `json:"max_effort"`
		Intensity      int     `json:"intensity"`
		Source         string  `json:"source"`
	} `json:"target"`
}

// FetchWorkout retrieves the catalog entry for a program day.
func (c *Client) FetchWorkout(day int) (*models.WorkoutDefinition, error) {
	resp, err := c.httpClient.Get(fmt.Sprintf("%s/api/v1/workouts/%d", c.serverURL, day))
	if err != nil {
		return nil, fmt.Errorf("fetching workout: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no workout for day %d", day)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("workout request failed (status %d): %s", resp.StatusCode, body)
	}

	var def models.WorkoutDefinition
	if err := json.NewDecoder(resp.Body).Decode(&def); err != nil {
		return nil, fmt.Errorf("decoding workout: %w", err)
	}
	return &def, nil
}

// FetchPlan retrieves the expanded plan with targets for a day and modality.
func (c *Client) FetchPlan(day int, modality, unit string) (*Plan, error) {
	url := fmt.Sprintf("%s/api/v1/plan?day=%d&modality=%s&unit=%s", c.serverURL, day, modality, unit)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching plan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("plan request failed (status %d): %s", resp.StatusCode, body)
	}

	var plan Plan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return &plan, nil
}

// FetchLastPreference retrieves the most recently used modality and unit,
// read on session start to default the equipment selection. Returns nil
// when the user has no preference history.
func (c *Client) FetchLastPreference() (*models.ModalityPreference, error) {
	resp, err := c.httpClient.Get(c.serverURL + "/api/v1/preferences")
	if err != nil {
		return nil, fmt.Errorf("fetching preference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("preference request failed (status %d): %s", resp.StatusCode, body)
	}

	var payload struct {
		Preference *models.ModalityPreference `json:"preference"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding preference: %w", err)
	}
	return payload.Preference, nil
}

// Submission is a completed session to report to the server.
type Submission struct {
	ProgramDay     int       `json:"program_day"`
	Modality       string    `json:"modality"`
	Units          string    `json:"units"`
	Date           time.Time `json:"date"`
	TotalOutput    float64   `json:"total_output"`
	AvgHeartRate   float64   `json:"average_heart_rate,omitempty"`
	PeakHeartRate  float64   `json:"peak_heart_rate,omitempty"`
	PerceivedExert int       `json:"perceived_exertion,omitempty"`
}

// SubmitSession POSTs a completed session. Retries up to 3 times with
// exponential backoff; a 4xx response is terminal and not retried.
func (c *Client) SubmitSession(sub Submission) (*models.SessionResult, error) {
	data, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("marshaling session: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/sessions", bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			var result models.SessionResult
			if err := json.Unmarshal(body, &result); err != nil {
				return nil, fmt.Errorf("decoding session result: %w", err)
			}
			return &result, nil
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("session rejected (status %d): %s", resp.StatusCode, body)
		}
		lastErr = fmt.Errorf("session submit failed (status %d): %s", resp.StatusCode, body)
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}

// SubmitTrial POSTs a time trial result.
func (c *Client) SubmitTrial(modality string, totalOutput float64, durationSeconds int, units string) (*models.TimeTrial, error) {
	payload := map[string]any{
		"modality":         modality,
		"total_output":     totalOutput,
		"duration_seconds": durationSeconds,
		"units":            units,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling trial: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/trials", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submitting trial: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("trial submit failed (status %d): %s", resp.StatusCode, body)
	}

	var trial models.TimeTrial
	if err := json.Unmarshal(body, &trial); err != nil {
		return nil, fmt.Errorf("decoding trial: %w", err)
	}
	return &trial, nil
}
