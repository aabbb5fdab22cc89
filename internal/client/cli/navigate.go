package cli

import (
	"context"

	"github.com/dmitrijs2005/tabclient/internal/client/navigation"
)

// Open navigates to path through admission. It reports whether the
// requested route itself was admitted; a redirect to the auth route saves
// the original path for after login.
func (a *App) Open(ctx context.Context, path string) (bool, error) {
	res, err := navigation.Navigate(ctx, a.adm, a.routes, path)
	if err != nil {
		a.println("Cannot open", path+":", err)
		return false, err
	}

	a.current = res.Target
	if !res.Redirected() {
		return true, nil
	}

	switch res.Target.Name {
	case navigation.RouteAuth:
		if p, ok := navigation.RedirectTarget(res.Target.Location()); ok {
			a.pending = p
		}
		a.println("Please login or register to continue.")
	case navigation.RouteHome:
		a.println("Already signed in.")
	}
	return false, nil
}

// resume returns to the path saved by a redirect, if any.
func (a *App) resume(ctx context.Context) {
	p := a.pending
	a.pending = ""
	if p == "" {
		_, _ = a.Open(ctx, "/")
		return
	}
	if ok, _ := a.Open(ctx, p); ok {
		a.println("Returned to", p)
	}
}

// OpenCmd is the "open <path>" command.
func (a *App) OpenCmd(ctx context.Context, path string) error {
	ok, err := a.Open(ctx, path)
	if err != nil {
		return err
	}
	if ok {
		a.println("Now at", a.current.Name)
	}
	return nil
}
