// Package apiclient is a thin typed HTTP client for the LMS API.
//
// It implements the session.APIClient contract with two calls: Login
// (credentials in, full session grant out) and WhoAmI (bearer token in,
// current permissions and user out). Responses use the API's standard
// `{"data": ...}` envelope.
//
// Failed requests are reported in two distinct shapes the session
// manager relies on:
//
//   - *Error with the HTTP status for any non-2xx response, so 401/403
//     can be recognized as a definitive token rejection;
//   - a wrapped ErrRequestFailed for transport-level failures carrying
//     no status, which the manager treats as transient.
//
// A 2xx login response without a token is reported as ErrMissingToken.
package apiclient
