package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lumenlms/sessionkit/core/logger"
	"github.com/lumenlms/sessionkit/core/session"
)

// Client issues authenticated requests against the LMS API. It implements
// the session.APIClient contract.
type Client struct {
	baseURL    string
	httpClient *http.Client
	loginPath  string
	mePath     string
	userAgent  string
	log        *slog.Logger
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cfg.httpClient,
		loginPath:  cfg.loginPath,
		mePath:     cfg.mePath,
		userAgent:  cfg.userAgent,
		log:        cfg.log,
	}, nil
}

// envelope is the standard `{"data": ...}` response wrapper of the API.
type envelope[T any] struct {
	Data T `json:"data"`
}

type grantPayload struct {
	Token       string          `json:"token"`
	Role        string          `json:"role"`
	Permissions []string        `json:"permissions"`
	User        *session.User   `json:"user"`
	Tenant      *session.Tenant `json:"tenant"`
}

type identityPayload struct {
	Permissions []string      `json:"permissions"`
	User        *session.User `json:"user"`
}

// Login exchanges credentials for a session grant. A 2xx response whose
// body carries no token is reported as ErrMissingToken.
func (c *Client) Login(ctx context.Context, creds session.Credentials) (session.Grant, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return session.Grant{}, fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.loginPath, bytes.NewReader(body))
	if err != nil {
		return session.Grant{}, errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	var payload envelope[grantPayload]
	if err := c.do(req, &payload); err != nil {
		return session.Grant{}, err
	}

	if payload.Data.Token == "" {
		return session.Grant{}, ErrMissingToken
	}

	c.log.DebugContext(ctx, "login request succeeded",
		logger.Component("apiclient"),
		logger.Key("role", payload.Data.Role),
	)

	return session.Grant{
		Token:       payload.Data.Token,
		Role:        payload.Data.Role,
		Permissions: payload.Data.Permissions,
		User:        payload.Data.User,
		Tenant:      payload.Data.Tenant,
	}, nil
}

// WhoAmI validates the bearer token and returns the current identity.
// Non-2xx responses yield an *Error carrying the HTTP status.
func (c *Client) WhoAmI(ctx context.Context, token string) (session.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.mePath, nil)
	if err != nil {
		return session.Identity{}, errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	var payload envelope[identityPayload]
	if err := c.do(req, &payload); err != nil {
		return session.Identity{}, err
	}

	return session.Identity{
		Permissions: payload.Data.Permissions,
		User:        payload.Data.User,
	}, nil
}

// do executes the request and decodes a 2xx body into out. Error bodies
// are decoded into the structured Error type when possible.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}
