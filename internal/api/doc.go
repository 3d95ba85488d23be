// Package api is the typed client for the platform's REST backend.
//
// # Request Pipeline
//
// Every operation goes through Client.Do, which:
//
//  1. Builds the path from a config.Endpoint and positional params
//  2. Appends the non-empty query parameters
//  3. Resolves the URL with config.Resolver (dev proxy prefix or https base)
//  4. Sends cookies from the jar, a User-Agent and an X-Request-ID
//  5. Normalizes failures into *Error
//
// The client performs no retries and no caching. Re-authentication on 401
// is layered on top by the session package.
//
// # Errors
//
// Non-2xx responses carry the backend's {"detail": "..."} message verbatim:
//
//	detail string          → message as-is
//	detail list (422)      → "msg" fields joined with "; "
//	JSON without detail    → "HTTP <status>"
//	body is not JSON       → "Network error"
//
// Use errors.Is with ErrUnauthorized, ErrNetwork, ErrTimeout, ErrServer,
// ErrValidation or ErrDecode to branch on the failure kind.
//
// # Validation
//
// Create operations validate their input with go-playground/validator
// before any network traffic. Validation failures are *Error values with
// KindValidation, so callers report them through the same channel.
package api
