// Package adsapi is a thin client for the Facebook Graph/Marketing API
// surface the assistant's actions need: page post retrieval, campaign and
// ad set creation, and post boosting. All created objects are PAUSED so a
// conversational mistake can never start spending.
package adsapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/faults"
)

const defaultBaseURL = "https://graph.facebook.com/v19.0"

// Config holds the client's connection settings.
type Config struct {
	// BaseURL overrides the Graph API endpoint; used by tests.
	BaseURL string
	// AccessToken is a page/user access token with ads_management scope.
	AccessToken string
	// AdAccountID is the ad account, with or without the "act_" prefix.
	AdAccountID string
	// Timeout bounds each HTTP request. Zero means 30s.
	Timeout time.Duration
}

// Client is constructed once at process start and shared read-only across
// turns. Replace it wholesale on credential rotation.
type Client struct {
	http      *resty.Client
	accountID string
	token     string
}

// New builds a Client from cfg. The "act_" account prefix is added when
// missing so callers can configure the bare numeric ID.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	account := cfg.AdAccountID
	if account != "" && !strings.HasPrefix(account, "act_") {
		account = "act_" + account
	}
	h := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout)
	return &Client{http: h, accountID: account, token: cfg.AccessToken}
}

// Close releases the underlying HTTP resources.
func (c *Client) Close() error { return c.http.Close() }

// graphError is the Graph API error envelope.
type graphError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// checkResponse converts transport and platform failures into typed faults.
// op names the logical operation for error messages.
func checkResponse(op string, res *resty.Response, err error, apiErr *graphError) error {
	if err != nil {
		return faults.Network(op, err)
	}
	if res.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = res.String()
		}
		return faults.Platform(op, "%s (http %d, code %d)", msg, res.StatusCode(), apiErr.Error.Code)
	}
	return nil
}

func (c *Client) req(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", c.token)
}

func (c *Client) accountPath(object string) string {
	return fmt.Sprintf("/%s/%s", c.accountID, object)
}
