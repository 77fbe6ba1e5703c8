package out

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	timerout "pomodoro/internal/modules/timer/port/out"
	apperrors "pomodoro/internal/platform/errors"
)

// HTTPProgressClient talks to a running `pomodoro serve`.
type HTTPProgressClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProgressClient(baseURL string, timeout time.Duration) timerout.ProgressClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPProgressClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type sessionRequest struct {
	Timestamp string `json:"timestamp"`
	Duration  int    `json:"duration"`
	Kind      string `json:"kind,omitempty"`
}

type progressBody struct {
	Count   int    `json:"count"`
	Minutes int    `json:"minutes"`
	Error   string `json:"error"`
}

func (c *HTTPProgressClient) LogSession(ctx context.Context, session timerout.SessionLog) error {
	payload, err := json.Marshal(sessionRequest{
		Timestamp: session.Timestamp.Format(time.RFC3339Nano),
		Duration:  session.Duration,
		Kind:      session.Kind,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	url := c.baseURL + "/api/session"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.NewNetwork("POST", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusCreated {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return statusError("log session", resp)
}

func (c *HTTPProgressClient) TodayProgress(ctx context.Context) (timerout.TodayProgress, error) {
	url := c.baseURL + "/api/progress"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return timerout.TodayProgress{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return timerout.TodayProgress{}, apperrors.NewNetwork("GET", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return timerout.TodayProgress{}, statusError("get progress", resp)
	}
	body := progressBody{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return timerout.TodayProgress{}, apperrors.NewNetwork("decode", url, err)
	}
	return timerout.TodayProgress{Count: body.Count, Minutes: body.Minutes}, nil
}

func statusError(op string, resp *http.Response) error {
	body := progressBody{}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)
	message := body.Error
	if message == "" {
		message = resp.Status
	}
	if resp.StatusCode == http.StatusBadRequest {
		return apperrors.NewValidation("", message)
	}
	return apperrors.NewStorage(op, errors.New(message))
}
