// Package instagram wraps the Meta Graph API container publish protocol:
// create a media container, poll it until processing finishes, then publish.
package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/solsticedigital/backoffice/pkg/config"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/logger"
	"github.com/solsticedigital/backoffice/pkg/poll"
)

// Container processing states reported by the Graph API.
const (
	containerStatusFinished   = "FINISHED"
	containerStatusError      = "ERROR"
	containerStatusInProgress = "IN_PROGRESS"
)

var (
	errAccessTokenRequired = errors.New("instagram access token is required")
	errAccountIDRequired   = errors.New("instagram account id is required")
	errLoggerRequired      = errors.New("instagram logger is required")
)

// MediaParams describes one piece of media to push through the container flow.
// Reels posts carry a video URL; feed posts carry an image URL.
type MediaParams struct {
	Caption  string
	ImageURL string
	VideoURL string
	Reels    bool
}

// Client talks to the Graph API with centralized auth, logging, and error mapping.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	accountID   string
	pollPolicy  poll.Policy
	logger      *logger.Logger
}

// Option customizes the client, mainly for tests.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithPollPolicy overrides the container readiness polling policy.
func WithPollPolicy(policy poll.Policy) Option {
	return func(c *Client) {
		c.pollPolicy = policy
	}
}

// NewClient initializes the Graph API wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.InstagramConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	accessToken := strings.TrimSpace(cfg.AccessToken)
	if accessToken == "" {
		return nil, errAccessTokenRequired
	}
	accountID := strings.TrimSpace(cfg.AccountID)
	if accountID == "" {
		return nil, errAccountIDRequired
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     strings.TrimRight(cfg.GraphBaseURL, "/"),
		accessToken: accessToken,
		accountID:   accountID,
		pollPolicy: poll.Policy{
			Interval:    cfg.PollInterval,
			MaxAttempts: cfg.PollAttempts,
		},
		logger: logg,
	}
	for _, opt := range opts {
		opt(c)
	}

	logg.Info(ctx, "instagram client initialized")
	return c, nil
}

// Publish runs the full container flow and returns the published media ID.
func (c *Client) Publish(ctx context.Context, params MediaParams) (string, error) {
	containerID, err := c.createContainer(ctx, params)
	if err != nil {
		return "", err
	}

	if err := c.waitForContainer(ctx, containerID); err != nil {
		return "", err
	}

	return c.publishContainer(ctx, containerID)
}

func (c *Client) createContainer(ctx context.Context, params MediaParams) (string, error) {
	form := url.Values{}
	form.Set("caption", params.Caption)
	form.Set("access_token", c.accessToken)
	if params.Reels {
		form.Set("media_type", "REELS")
		form.Set("video_url", params.VideoURL)
		form.Set("share_to_feed", "true")
	} else {
		form.Set("image_url", params.ImageURL)
	}

	c.log(ctx, "request", "create_container", map[string]any{"reels": params.Reels})

	var payload struct {
		ID string `json:"id"`
	}
	endpoint := fmt.Sprintf("%s/%s/media", c.baseURL, c.accountID)
	if err := c.postForm(ctx, endpoint, form, &payload, "create container"); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "instagram create container returned no id")
	}

	c.log(ctx, "response", "create_container", map[string]any{"container_id": payload.ID})
	return payload.ID, nil
}

func (c *Client) waitForContainer(ctx context.Context, containerID string) error {
	err := c.pollPolicy.Wait(ctx, func(ctx context.Context) (bool, error) {
		status, err := c.containerStatus(ctx, containerID)
		if err != nil {
			return false, err
		}
		switch status {
		case containerStatusFinished:
			return true, nil
		case containerStatusError:
			return false, pkgerrors.New(pkgerrors.CodeDependency,
				fmt.Sprintf("instagram container %s failed processing", containerID))
		default:
			return false, nil
		}
	})
	if errors.Is(err, poll.ErrExhausted) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err,
			fmt.Sprintf("instagram container %s not ready in time", containerID))
	}
	return err
}

func (c *Client) containerStatus(ctx context.Context, containerID string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=status_code&access_token=%s",
		c.baseURL, containerID, url.QueryEscape(c.accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building container status request")
	}

	var payload struct {
		StatusCode string `json:"status_code"`
	}
	if err := c.do(req, &payload, "container status"); err != nil {
		return "", err
	}

	c.log(ctx, "response", "container_status", map[string]any{
		"container_id": containerID,
		"status_code":  payload.StatusCode,
	})
	return payload.StatusCode, nil
}

func (c *Client) publishContainer(ctx context.Context, containerID string) (string, error) {
	form := url.Values{}
	form.Set("creation_id", containerID)
	form.Set("access_token", c.accessToken)

	c.log(ctx, "request", "publish_container", map[string]any{"container_id": containerID})

	var payload struct {
		ID string `json:"id"`
	}
	endpoint := fmt.Sprintf("%s/%s/media_publish", c.baseURL, c.accountID)
	if err := c.postForm(ctx, endpoint, form, &payload, "publish container"); err != nil {
		return "", err
	}

	c.log(ctx, "response", "publish_container", map[string]any{"media_id": payload.ID})
	return payload.ID, nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out any, op string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("building %s request", op))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out, op)
}

func (c *Client) do(req *http.Request, out any, op string) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("instagram %s failed", op))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("reading instagram %s response", op))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := domainCodeForStatus(resp.StatusCode)
		// Keep the raw Graph API error payload; it carries the OAuth/permission
		// detail operators need to act on.
		return pkgerrors.New(code, fmt.Sprintf("instagram %s failed (%d): %s",
			op, resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decoding instagram %s response", op))
	}
	return nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	c.logger.Info(ctx, fmt.Sprintf("instagram %s", phase))
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}
