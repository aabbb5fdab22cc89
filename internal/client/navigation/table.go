package navigation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrNoRoute       = errors.New("no route matches path")
	ErrUnknownRoute  = errors.New("unknown route name")
	ErrRedirectChain = errors.New("redirect target was itself redirected")
)

// Route is one entry of a Table. Path segments starting with ":" capture
// a parameter.
type Route struct {
	Name   string
	Path   string
	Access Requirement
}

// Table is an ordered route list. The first match wins.
type Table struct {
	routes []Route
}

func NewTable(routes ...Route) *Table {
	t := &Table{}
	for _, r := range routes {
		t.Add(r)
	}
	return t
}

// DefaultTable is the route set of the command-line client.
func DefaultTable() *Table {
	return NewTable(
		Route{Name: RouteHome, Path: "/"},
		Route{Name: "tabs", Path: "/tabs", Access: RequiresAuth},
		Route{Name: "tab", Path: "/tabs/:id", Access: RequiresAuth},
		Route{Name: "tuner", Path: "/tuner"},
		Route{Name: "about", Path: "/about"},
		Route{Name: RouteAuth, Path: "/auth", Access: GuestOnly},
	)
}

func (t *Table) Add(r Route) {
	r.Path = cleanPath(r.Path)
	t.routes = append(t.routes, r)
}

func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Lookup finds a route by name.
func (t *Table) Lookup(name string) (Route, bool) {
	for _, r := range t.routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve matches raw (path plus optional query) against the table.
func (t *Table) Resolve(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrNoRoute, err)
	}
	path := cleanPath(u.Path)

	for _, r := range t.routes {
		params, ok := match(r.Path, path)
		if !ok {
			continue
		}
		full := path
		if u.RawQuery != "" {
			full += "?" + u.RawQuery
		}
		return Target{
			Name:     r.Name,
			FullPath: full,
			Query:    u.Query(),
			Params:   params,
			Matched:  []Requirement{r.Access},
		}, nil
	}
	return Target{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
}

// Path renders loc as a path with its query.
func (t *Table) Path(loc Location) (string, error) {
	r, ok := t.Lookup(loc.Name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, loc.Name)
	}
	if len(loc.Query) == 0 {
		return r.Path, nil
	}
	return r.Path + "?" + loc.Query.Encode(), nil
}

// Resolution is where a navigation ended up.
type Resolution struct {
	Target Target
	// Requested is set when the original target was redirected.
	Requested *Target
}

func (r Resolution) Redirected() bool {
	return r.Requested != nil
}

// Navigate resolves path, admits it and follows at most one redirect.
func Navigate(ctx context.Context, adm *Admission, t *Table, path string) (Resolution, error) {
	to, err := t.Resolve(path)
	if err != nil {
		return Resolution{}, err
	}

	d := adm.Admit(ctx, to)
	if d.Allowed() {
		return Resolution{Target: to}, nil
	}

	next, err := t.Path(*d.Redirect)
	if err != nil {
		return Resolution{}, err
	}
	redirected, err := t.Resolve(next)
	if err != nil {
		return Resolution{}, err
	}
	if !adm.Admit(ctx, redirected).Allowed() {
		return Resolution{}, fmt.Errorf("%w: %s -> %s", ErrRedirectChain, to.FullPath, redirected.FullPath)
	}
	return Resolution{Target: redirected, Requested: &to}, nil
}

// RedirectTarget returns the path saved in loc by RequireAuth. Only local
// absolute paths are returned.
func RedirectTarget(loc Location) (string, bool) {
	p := loc.Query.Get(RedirectParam)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return "", false
	}
	return p, true
}

// Location converts t back into a named location.
func (t Target) Location() Location {
	return Location{Name: t.Name, Query: t.Query}
}

func cleanPath(p string) string {
	p = "/" + strings.Trim(strings.TrimSpace(p), "/")
	return p
}

func match(pattern, path string) (map[string]string, bool) {
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return nil, false
	}

	var params map[string]string
	for i := range ps {
		if name, ok := strings.CutPrefix(ps[i], ":"); ok {
			if xs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[name] = xs[i]
			continue
		}
		if ps[i] != xs[i] {
			return nil, false
		}
	}
	return params, true
}
