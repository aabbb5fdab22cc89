// Package common contains shared constants and sentinel errors used across
// tabclient components.
package common

// Storage keys under which the session is persisted between runs.
const (
	TokenStorageKey    = "auth_token"
	IdentityStorageKey = "user"
)

// HTTP header names attached to outbound requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	ContentTypeHeaderName   = "Content-Type"
)

// BearerPrefix precedes the credential in the Authorization header.
const BearerPrefix = "Bearer "

// JSONContentType is sent with every structured request body.
const JSONContentType = "application/json"
