package session

import (
	"context"
	"errors"
	"net/http"
)

// Credentials are the login inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Grant is the full session material returned by a successful login.
type Grant struct {
	Token       string
	Role        string
	Permissions []string
	User        *User
	Tenant      *Tenant
}

// Identity is the who-am-i response used by revalidation. Permissions
// replace the cached list wholesale; User is merged field-by-field.
type Identity struct {
	Permissions []string
	User        *User
}

// APIClient is the server contract the manager depends on.
type APIClient interface {
	// Login exchanges credentials for a Grant. A response without a
	// token must be reported as an error, not an empty Grant.
	Login(ctx context.Context, creds Credentials) (Grant, error)

	// WhoAmI validates the token and returns the current identity.
	// Authorization failures must carry their HTTP status (see
	// HTTPStatusCarrier) so the manager can distinguish a revoked token
	// from an unreachable server.
	WhoAmI(ctx context.Context, token string) (Identity, error)
}

// HTTPStatusCarrier is implemented by transport errors that know the
// HTTP status code of the failed request.
type HTTPStatusCarrier interface {
	HTTPStatus() int
}

// isAuthError reports whether err represents a definitive token
// rejection (401/403). Anything else, including plain network errors,
// is treated as transient.
func isAuthError(err error) bool {
	var sc HTTPStatusCarrier
	if !errors.As(err, &sc) {
		return false
	}
	status := sc.HTTPStatus()
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
