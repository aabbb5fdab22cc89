package session

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/tabclient/internal/common"
	"github.com/dmitrijs2005/tabclient/internal/netx"
)

const (
	loginEndpoint    = "/api/auth/login"
	registerEndpoint = "/api/auth/register"
	profileEndpoint  = "/api/auth/user"
)

// AuthPayload is the body the authentication service answers with.
// AccessToken is empty for profile responses.
type AuthPayload struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

// ProfileUpdate carries the fields to change. Empty fields are left alone.
type ProfileUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// Gateway is the remote authentication service as seen by the Store.
// Every call is exempt from automatic session invalidation; the Store
// decides what a 401 means.
type Gateway interface {
	Login(ctx context.Context, username, password string) (AuthPayload, netx.Outcome)
	Register(ctx context.Context, username, password, email string) (AuthPayload, netx.Outcome)
	Profile(ctx context.Context, token string) (AuthPayload, netx.Outcome)
	UpdateProfile(ctx context.Context, token string, upd ProfileUpdate) (AuthPayload, netx.Outcome)
}

// HTTPGateway implements Gateway over a netx.Transport.
type HTTPGateway struct {
	t *netx.Transport
}

func NewHTTPGateway(t *netx.Transport) *HTTPGateway {
	return &HTTPGateway{t: t}
}

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

func (g *HTTPGateway) Login(ctx context.Context, username, password string) (AuthPayload, netx.Outcome) {
	return g.call(ctx, netx.Request{
		Endpoint: loginEndpoint,
		Method:   http.MethodPost,
		Body:     credentialsBody{Username: username, Password: password},
		NoAuth:   true,
	}, true)
}

func (g *HTTPGateway) Register(ctx context.Context, username, password, email string) (AuthPayload, netx.Outcome) {
	return g.call(ctx, netx.Request{
		Endpoint: registerEndpoint,
		Method:   http.MethodPost,
		Body:     credentialsBody{Username: username, Password: password, Email: email},
		NoAuth:   true,
	}, true)
}

func (g *HTTPGateway) Profile(ctx context.Context, token string) (AuthPayload, netx.Outcome) {
	return g.call(ctx, netx.Request{
		Endpoint: profileEndpoint,
		Headers:  bearer(token),
		NoAuth:   true,
	}, false)
}

func (g *HTTPGateway) UpdateProfile(ctx context.Context, token string, upd ProfileUpdate) (AuthPayload, netx.Outcome) {
	return g.call(ctx, netx.Request{
		Endpoint: profileEndpoint,
		Method:   http.MethodPut,
		Body:     upd,
		Headers:  bearer(token),
		NoAuth:   true,
	}, false)
}

func bearer(token string) map[string]string {
	return map[string]string{common.AuthorizationHeaderName: common.BearerPrefix + token}
}

// call decodes a successful response and downgrades it to a malformed
// outcome when required fields are missing.
func (g *HTTPGateway) call(ctx context.Context, req netx.Request, wantToken bool) (AuthPayload, netx.Outcome) {
	out := g.t.Do(ctx, req)
	if !out.OK {
		return AuthPayload{}, out
	}

	var p AuthPayload
	if err := out.Decode(&p); err != nil || p.UserID == "" || p.Username == "" || (wantToken && p.AccessToken == "") {
		return AuthPayload{}, netx.Outcome{
			Status: out.Status,
			Error:  "unexpected response from authentication service",
			Kind:   netx.KindMalformed,
		}
	}
	return p, out
}
