package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const httpTimeout = 3 * time.Second

type boostEvent struct {
	StationID   int64 `json:"station_id"`
	SignalValue int64 `json:"signal_value"`
}

// HTTPNotifier POSTs boost events as JSON to an external endpoint. The
// request carries a short timeout so a slow sink cannot stall a decay tick
// or a guess resolution.
type HTTPNotifier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPNotifier(endpoint string) *HTTPNotifier {
	return &HTTPNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: httpTimeout},
	}
}

func (n *HTTPNotifier) NotifyBoost(ctx context.Context, stationID int64, value int64) error {
	body, err := json.Marshal(boostEvent{StationID: stationID, SignalValue: value})
	if err != nil {
		return fmt.Errorf("telemetry: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("telemetry: endpoint returned %s", resp.Status)
	}

	return nil
}
