package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/tabclient/internal/client/session"
	"github.com/dmitrijs2005/tabclient/internal/cryptox"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errAlreadySignedIn = errors.New("already signed in")

// enterAuth opens the auth route; signed-in users are sent home instead.
func (a *App) enterAuth(ctx context.Context) error {
	ok, err := a.Open(ctx, "/auth")
	if err != nil {
		return err
	}
	if !ok {
		return errAlreadySignedIn
	}
	return nil
}

func (a *App) readCredentials() (string, string, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", "", err
	}
	pw, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", "", err
	}
	defer cryptox.Wipe(pw)
	return username, string(pw), nil
}

// Register prompts for username, password and an optional email and creates
// the account. On success the user is signed in and taken back to the path
// a previous redirect saved.
func (a *App) Register(ctx context.Context) error {
	if err := a.enterAuth(ctx); err != nil {
		return err
	}

	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email (optional)", a.out)
	if err != nil {
		return err
	}

	res := a.session.Register(ctx, username, password, email)
	if !res.Success {
		a.println("Registration unsuccessful:", res.Error)
		return res.Err()
	}

	a.println("Registered and signed in as", username)
	a.resume(ctx)
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	if err := a.enterAuth(ctx); err != nil {
		return err
	}

	username, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	res := a.session.Login(ctx, username, password)
	if !res.Success {
		a.println("Login unsuccessful:", res.Error)
		return res.Err()
	}

	a.println("Login successful")
	a.resume(ctx)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.pending = ""
	a.println("Signed out")
	_, err := a.Open(ctx, "/")
	return err
}

// WhoAmI refreshes the profile from the service and prints it.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		a.println("Not signed in")
		return nil
	}
	u := a.session.FetchUserProfile(ctx)
	if u == nil && !a.session.IsAuthenticated() {
		a.println("Your session has expired. Please login again.")
		return nil
	}
	if u == nil {
		// the service could not be reached; show the cached copy
		u = a.session.User()
	}
	a.printIdentity(u)
	return nil
}

// Profile prompts for a new username and email. Empty answers keep the
// current value.
func (a *App) Profile(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		a.println("Not signed in")
		return nil
	}

	username, err := getSimpleText(a.reader, "New username (empty to keep)", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "New email (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if username == "" && email == "" {
		a.println("Nothing to update")
		return nil
	}

	res := a.session.UpdateProfile(ctx, session.ProfileUpdate{Username: username, Email: email})
	if !res.Success {
		a.println("Profile update unsuccessful:", res.Error)
		return res.Err()
	}
	a.printIdentity(a.session.User())
	return nil
}

// Status prints whether a credential is held and when it expires.
func (a *App) Status(_ context.Context) error {
	if !a.session.IsAuthenticated() {
		a.println("Not signed in")
		return nil
	}

	who := "unknown user"
	if u := a.session.User(); u != nil {
		who = u.Username
	}
	a.println("Signed in as", who)

	if exp, ok := a.session.CredentialExpiry(); ok {
		left := time.Until(exp).Round(time.Second)
		if left <= 0 {
			a.printf("Credential expired at %s\n", exp.Format(time.RFC3339))
		} else {
			a.printf("Credential expires at %s (in %s)\n", exp.Format(time.RFC3339), left)
		}
	}
	return nil
}
