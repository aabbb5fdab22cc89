// Package navigation decides whether a route transition may proceed given
// the current session, and resolves paths against a small route table.
package navigation

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/tabclient/internal/client/models"
	"github.com/dmitrijs2005/tabclient/internal/logging"
)

// Route names redirects point at.
const (
	RouteHome = "home"
	RouteAuth = "auth"
)

// RedirectParam is the query key holding the path a user was denied.
const RedirectParam = "redirect"

// Requirement is the access metadata of a route record.
type Requirement int

const (
	None Requirement = iota
	RequiresAuth
	GuestOnly
)

func (r Requirement) String() string {
	switch r {
	case RequiresAuth:
		return "requiresAuth"
	case GuestOnly:
		return "guestOnly"
	default:
		return "none"
	}
}

// Session is the part of session.Store admission reads.
type Session interface {
	IsAuthenticated() bool
	User() *models.Identity
	FetchUserProfile(ctx context.Context) *models.Identity
}

// Target is the route a transition is heading to.
type Target struct {
	Name     string
	FullPath string
	Query    url.Values
	Params   map[string]string
	// Matched holds the requirements of every matched route record.
	Matched []Requirement
}

func (t Target) has(req Requirement) bool {
	for _, m := range t.Matched {
		if m == req {
			return true
		}
	}
	return false
}

// Location names a redirect destination.
type Location struct {
	Name  string
	Query url.Values
}

// Decision is the outcome of an admission check. A nil Redirect admits.
type Decision struct {
	Redirect *Location
}

func (d Decision) Allowed() bool {
	return d.Redirect == nil
}

var allow = Decision{}

// Admission runs the route interceptors.
type Admission struct {
	session Session
	logger  logging.Logger
}

type Option func(*Admission)

func WithLogger(l logging.Logger) Option {
	return func(a *Admission) { a.logger = l }
}

func New(s Session, opts ...Option) *Admission {
	a := &Admission{session: s, logger: logging.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RequireAuth sends unauthenticated users to the auth route, remembering
// where they were going. An authenticated user without a cached identity
// triggers a profile fetch; the transition proceeds whatever its result.
func (a *Admission) RequireAuth(ctx context.Context, to Target) Decision {
	if !to.has(RequiresAuth) {
		return allow
	}

	if !a.session.IsAuthenticated() {
		return Decision{Redirect: &Location{
			Name:  RouteAuth,
			Query: url.Values{RedirectParam: []string{to.FullPath}},
		}}
	}

	if a.session.User() == nil {
		if a.session.FetchUserProfile(ctx) == nil {
			a.logger.Warn(ctx, "failed to fetch user profile", "route", to.Name)
		}
	}
	return allow
}

// GuestOnly sends authenticated users home.
func (a *Admission) GuestOnly(_ context.Context, to Target) Decision {
	if to.has(GuestOnly) && a.session.IsAuthenticated() {
		return Decision{Redirect: &Location{Name: RouteHome}}
	}
	return allow
}

// Admit runs RequireAuth then GuestOnly and stops at the first redirect.
func (a *Admission) Admit(ctx context.Context, to Target) Decision {
	for _, check := range []func(context.Context, Target) Decision{a.RequireAuth, a.GuestOnly} {
		if d := check(ctx, to); !d.Allowed() {
			a.logger.Debug(ctx, "navigation redirected", "from", to.FullPath, "to", d.Redirect.Name)
			return d
		}
	}
	return allow
}
