// Package netx is the JSON-over-HTTP transport of the tab client.
//
// A Transport resolves endpoints against a configured base address, encodes
// request bodies, stamps every request with an X-Request-ID, optionally paces
// outgoing calls, and folds the HTTP exchange into an Outcome value. It never
// returns an error for expected failures: unreachable hosts, rejected
// requests and undecodable bodies are all described by the Outcome.
//
// Credentials are not handled here; see the api package, which layers bearer
// authentication and session invalidation on top via ResponseHook.
package netx
