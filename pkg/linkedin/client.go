// Package linkedin wraps the UGC posts API. Credentials are operator-managed
// settings, so every call takes them explicitly instead of binding them at
// construction time.
package linkedin

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

	"github.com/solsticedigital/backoffice/pkg/config"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/logger"
)

const restliProtocolVersion = "2.0.0"

var errLoggerRequired = errors.New("linkedin logger is required")

// Credentials identifies the posting principal for a single request.
type Credentials struct {
	AccessToken string
	AuthorURN   string
}

// Validate reports which credential field is missing, if any.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.AccessToken) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "linkedin access token is not configured")
	}
	if strings.TrimSpace(c.AuthorURN) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "linkedin author urn is not configured")
	}
	return nil
}

// ShareParams describes a UGC share. When LinkURL is set the share is posted
// as an article pointing at that URL; otherwise it is a plain text share.
type ShareParams struct {
	Text    string
	LinkURL string
}

// Client posts UGC shares on behalf of settings-resolved principals.
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
	logger     *logger.Logger
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

// NewClient initializes the UGC posts wrapper.
func NewClient(ctx context.Context, cfg config.LinkedInConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		version:    cfg.Version,
		logger:     logg,
	}
	for _, opt := range opts {
		opt(c)
	}

	logg.Info(ctx, "linkedin client initialized")
	return c, nil
}

type shareCommentary struct {
	Text string `json:"text"`
}

type shareMedia struct {
	Status      string `json:"status"`
	OriginalURL string `json:"originalUrl"`
}

type shareContent struct {
	ShareCommentary    shareCommentary `json:"shareCommentary"`
	ShareMediaCategory string          `json:"shareMediaCategory"`
	Media              []shareMedia    `json:"media,omitempty"`
}

type ugcPostRequest struct {
	Author          string                  `json:"author"`
	LifecycleState  string                  `json:"lifecycleState"`
	SpecificContent map[string]shareContent `json:"specificContent"`
	Visibility      map[string]string       `json:"visibility"`
}

// CreateShare posts a UGC share and returns the created post URN.
func (c *Client) CreateShare(ctx context.Context, creds Credentials, params ShareParams) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}

	content := shareContent{
		ShareCommentary:    shareCommentary{Text: params.Text},
		ShareMediaCategory: "NONE",
	}
	if params.LinkURL != "" {
		content.ShareMediaCategory = "ARTICLE"
		content.Media = []shareMedia{{Status: "READY", OriginalURL: params.LinkURL}}
	}

	reqBody := ugcPostRequest{
		Author:         creds.AuthorURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]shareContent{
			"com.linkedin.ugc.ShareContent": content,
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding ugc post request")
	}

	c.log(ctx, "request", "create_share", map[string]any{
		"author":   creds.AuthorURN,
		"category": content.ShareMediaCategory,
	})

	endpoint := c.baseURL + "/v2/ugcPosts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building ugc post request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)
	req.Header.Set("LinkedIn-Version", c.version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "linkedin create share failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading linkedin response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := domainCodeForStatus(resp.StatusCode)
		return "", pkgerrors.New(code, fmt.Sprintf("linkedin create share failed (%d): %s",
			resp.StatusCode, strings.TrimSpace(string(body))))
	}

	postURN := resp.Header.Get("X-RestLi-Id")
	if postURN == "" {
		var payload struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			postURN = payload.ID
		}
	}

	c.log(ctx, "response", "create_share", map[string]any{"post_urn": postURN})
	return postURN, nil
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
	c.logger.Info(ctx, fmt.Sprintf("linkedin %s", phase))
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}
