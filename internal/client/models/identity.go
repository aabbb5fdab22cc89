// Package models defines the data types exchanged with the tab service and
// kept in the local session.
package models

import "encoding/json"

// Identity is the authenticated principal as cached by the client.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Clone returns a copy that callers may modify freely. Nil stays nil.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// ParseIdentity decodes a persisted identity. A JSON null yields (nil, nil).
// Only values that are not an identity object are rejected; blank fields
// are kept as stored.
func ParseIdentity(data []byte) (*Identity, error) {
	var id *Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, err
	}
	return id, nil
}
