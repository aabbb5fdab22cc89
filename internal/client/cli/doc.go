// Package cli provides the interactive command-line front end of the tab
// client.
//
// It plays the part of the views and the route table: every command that
// shows tabs first navigates to its route through navigation admission, so
// an anonymous user is sent to the auth route and taken back to the
// original path after a successful login.
//
// Key features:
//   - Register / Login / Logout, profile display and update
//   - Session status, including the credential's expiry
//   - List, download, upload and delete tabs
//   - Service health probe
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
