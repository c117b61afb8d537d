package gitrate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "http://localhost:8000/api"
	userAgent     = "gitrate-cli"

	ratePath   = "/rate/%s"
	userPath   = "/user/%s/data"
	healthPath = "/health"
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger, apiURL string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		ctx:    ctx,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// RateDeveloper asks the API to rate the given GitHub user.
func (c *Client) RateDeveloper(username string) (*Rating, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return nil, err
	}

	var rating Rating
	if err := c.doJSON(http.MethodPost, c.endpoint(ratePath, username), &rating); err != nil {
		return nil, err
	}

	rating.normalize(username)

	c.logger.Debug("got rating from api",
		zap.String("username", rating.Username),
		zap.Float64("final_score", rating.FinalScore),
		zap.String("tier", string(rating.Tier)),
	)

	return &rating, nil
}

// GetUserData returns the raw aggregated GitHub data the API holds for the user.
func (c *Client) GetUserData(username string) (map[string]any, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := c.doJSON(http.MethodGet, c.endpoint(userPath, username), &raw); err != nil {
		return nil, err
	}

	if raw == nil {
		raw = make(map[string]any)
	}

	return raw, nil
}

// HealthCheck probes the API liveness endpoint.
func (c *Client) HealthCheck() (map[string]any, error) {
	var status map[string]any
	if err := c.doJSON(http.MethodGet, c.APIURL+healthPath, &status); err != nil {
		return nil, err
	}

	if status == nil {
		status = make(map[string]any)
	}

	return status, nil
}

func (c *Client) endpoint(pattern, username string) string {
	return c.APIURL + fmt.Sprintf(pattern, url.PathEscape(username))
}

func cleanUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "@")
	if username == "" {
		return "", ErrEmptyUsername
	}
	return username, nil
}
