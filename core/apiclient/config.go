package apiclient

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultLoginPath = "/auth/login"
	defaultMePath    = "/auth/me"
	defaultUserAgent = "sessionkit/1.0"
	defaultTimeout   = 10 * time.Second
)

type clientConfig struct {
	httpClient *http.Client
	loginPath  string
	mePath     string
	userAgent  string
	log        *slog.Logger
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		httpClient: &http.Client{Timeout: defaultTimeout},
		loginPath:  defaultLoginPath,
		mePath:     defaultMePath,
		userAgent:  defaultUserAgent,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option is a functional option for configuring the Client.
type Option func(*clientConfig)

// WithHTTPClient replaces the underlying HTTP client. Useful for custom
// transports and test doubles.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLoginPath overrides the login endpoint path.
func WithLoginPath(path string) Option {
	return func(c *clientConfig) {
		if path != "" {
			c.loginPath = path
		}
	}
}

// WithMePath overrides the who-am-i endpoint path.
func WithMePath(path string) Option {
	return func(c *clientConfig) {
		if path != "" {
			c.mePath = path
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger configures structured logging. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *clientConfig) {
		if log != nil {
			c.log = log
		}
	}
}
