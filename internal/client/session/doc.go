// Package session owns the client's credential and cached identity.
//
// A Store keeps the bearer token and the profile of the signed-in user in
// memory, mirrors both into a storage.KV so they survive restarts, and talks
// to the remote authentication service through a Gateway. Login and Register
// commit the identity and the token together: no reader can observe one of
// them without the other.
//
// The Store never calls navigation or the API client; those packages depend
// on it, not the other way round.
package session
