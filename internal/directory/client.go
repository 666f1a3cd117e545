package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/peerconnect/pairing-service/internal"
)

// Client fetches employee snapshots from the corporate HR directory.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchRoster pulls the full employee roster. One call per matching run;
// there is no caching, retry, or partial fallback at this layer.
func (c *Client) FetchRoster(ctx context.Context) (*Roster, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/employees", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create roster request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("directory request failed", "error", err, "url", c.baseURL)
		return nil, apperrors.NewExternalError("directory unavailable", apperrors.ErrCodeDirectoryUnavailable).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("directory returned non-OK status", "status", resp.StatusCode)
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("directory returned status %d", resp.StatusCode),
			apperrors.ErrCodeDirectoryUnavailable,
		)
	}

	var records []employeeRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, apperrors.NewExternalError("failed to decode roster", apperrors.ErrCodeMalformedRoster).WithCause(err)
	}

	profiles := make([]EmployeeProfile, 0, len(records))
	for _, rec := range records {
		profile, err := NewEmployeeProfile(rec)
		if err != nil {
			return nil, apperrors.NewExternalError("malformed roster row", apperrors.ErrCodeMalformedRoster).WithCause(err)
		}
		profiles = append(profiles, profile)
	}

	c.logger.Info("fetched directory roster", "employees", len(profiles))
	return NewRoster(profiles), nil
}
