// Package client is the HTTP client for the lanternhack API, used by the
// lanternctl command.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/lanternhq/lanternhack/internal/server/hack"
	"github.com/lanternhq/lanternhack/internal/server/models"
	"github.com/lanternhq/lanternhack/internal/server/rounds"
)

const requestTimeout = 10 * time.Second

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: requestTimeout},
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s (%s)", apiErr.Error, resp.Status)
		}
		return fmt.Errorf("server: %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) Stations(ctx context.Context) ([]*models.Station, error) {
	var list []*models.Station
	if err := c.do(ctx, http.MethodGet, "/api/v1/stations", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Station(ctx context.Context, id int64) (*models.Station, error) {
	var station models.Station
	if err := c.do(ctx, http.MethodGet, "/api/v1/stations/"+strconv.FormatInt(id, 10), nil, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

func (c *Client) RequestChallenge(ctx context.Context, stationID int64) (*hack.Challenge, error) {
	var challenge hack.Challenge
	body := map[string]int64{"station_id": stationID}
	if err := c.do(ctx, http.MethodPost, "/api/v1/hack/challenge", body, &challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (c *Client) SubmitGuess(ctx context.Context, password string, boosting bool) (*hack.GuessResult, error) {
	var result hack.GuessResult
	body := map[string]any{"password": password, "boosting": boosting}
	if err := c.do(ctx, http.MethodPost, "/api/v1/hack/guess", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ResetRound(ctx context.Context) (*rounds.ResetResult, error) {
	var result rounds.ResetResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/round/reset", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
