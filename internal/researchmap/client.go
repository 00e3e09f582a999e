// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package researchmap talks to the researchmap API: the JWT-bearer token
// exchange and the researcher document fetch. Each call is one request;
// retries happen only when MaxRetries is set.
package researchmap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/pdiddy/researchmap-site/internal/httputil"
	"github.com/pdiddy/researchmap-site/internal/logging"
	"github.com/pdiddy/researchmap-site/pkg/types"
)

const (
	tokenPath = "/oauth2/token"

	// GrantTypeJWTBearer is the RFC 7523 grant type.
	GrantTypeJWTBearer = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	// Scope is requested on every token exchange.
	Scope = "read public_only researchers"
	// APIVersion is sent as the version form field.
	APIVersion = "2"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 64 << 10

// StatusError is a non-200 answer from the API.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("researchmap %s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("researchmap %s: HTTP %d: %s", e.Op, e.StatusCode, body)
}

// Client is a researchmap API client.
type Client struct {
	HTTP       *http.Client
	BaseURL    string
	UserAgent  string
	MaxRetries int
	Logger     *zap.Logger
}

// NewClient builds a client from API settings.
func NewClient(cfg types.APIConfig, logger *zap.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = types.DefaultBaseURL
	}
	return &Client{
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		BaseURL:    strings.TrimRight(base, "/"),
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Logger:     logging.OrNop(logger),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ExchangeToken trades a signed assertion for a bearer token.
func (c *Client) ExchangeToken(ctx context.Context, assertion string) (*oauth2.Token, error) {
	form := url.Values{
		"grant_type": {GrantTypeJWTBearer},
		"assertion":  {assertion},
		"scope":      {Scope},
		"version":    {APIVersion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, "token exchange", c.httpClient())
	if err != nil {
		return nil, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("token response has no access_token")
	}

	tok := &oauth2.Token{AccessToken: tr.AccessToken, TokenType: tr.TokenType}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}
	if tr.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	c.logger().Debug("token issued", zap.Time("expiry", tok.Expiry))
	return tok, nil
}

// FetchResearcher returns the raw JSON document for permalink. With a nil
// token the request is anonymous and the API returns public fields only.
func (c *Client) FetchResearcher(ctx context.Context, permalink string, tok *oauth2.Token) ([]byte, error) {
	reqURL := c.BaseURL + "/" + url.PathEscape(permalink) + "?format=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating researcher request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.httpClient()
	if tok != nil {
		client = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, client), oauth2.StaticTokenSource(tok))
	}

	body, err := c.do(req, "researcher fetch", client)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("researcher document for %s is not valid JSON", permalink)
	}
	c.logger().Info("fetched researcher document",
		zap.String("permalink", permalink),
		zap.Bool("authenticated", tok != nil),
		zap.Int("bytes", len(body)))
	return body, nil
}

// do sends req and returns the body of a 200 response. Any other status is
// logged with its body and returned as a *StatusError.
func (c *Client) do(req *http.Request, op string, client *http.Client) ([]byte, error) {
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(req.Context(), client, req, c.MaxRetries, c.logger())
	if err != nil {
		return nil, fmt.Errorf("researchmap %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger().Error("researchmap request failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", op, err)
	}
	return body, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() *zap.Logger {
	return logging.OrNop(c.Logger)
}
