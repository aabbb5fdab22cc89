package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/tabclient/internal/client/models"
	"github.com/dmitrijs2005/tabclient/internal/client/navigation"
	"github.com/dmitrijs2005/tabclient/internal/client/services"
	"github.com/dmitrijs2005/tabclient/internal/client/session"
	"github.com/dmitrijs2005/tabclient/internal/logging"
)

// Session is the part of session.Store the CLI drives.
type Session interface {
	navigation.Session
	Login(ctx context.Context, username, password string) session.Result
	Register(ctx context.Context, username, password, email string) session.Result
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, upd session.ProfileUpdate) session.Result
	CredentialExpiry() (time.Time, bool)
}

type App struct {
	session Session
	tabs    services.TabService
	adm     *navigation.Admission
	routes  *navigation.Table
	logger  logging.Logger

	reader *bufio.Reader
	out    io.Writer

	// current is the last admitted route.
	current navigation.Target
	// pending is the path a redirect to the auth route saved.
	pending string
}

type Option func(*App)

func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.reader = bufio.NewReader(in)
		a.out = out
	}
}

func WithRoutes(t *navigation.Table) Option {
	return func(a *App) { a.routes = t }
}

func NewApp(s Session, tabs services.TabService, opts ...Option) *App {
	a := &App{
		session: s,
		tabs:    tabs,
		routes:  navigation.DefaultTable(),
		logger:  logging.Nop(),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.adm = navigation.New(s, navigation.WithLogger(a.logger))
	return a
}

// Run prints a greeting and serves commands until EOF or "exit".
func (a *App) Run(ctx context.Context) {
	a.println("Tab client (type 'help' for commands)")
	if _, err := a.Open(ctx, "/"); err != nil {
		a.logger.Error(ctx, "failed to open home route", "error", err)
	}
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// status renders the prompt prefix: user and current route.
func (a *App) status() string {
	who := "guest"
	if a.session.IsAuthenticated() {
		who = "signed in"
		if u := a.session.User(); u != nil {
			who = u.Username
		}
	}
	return fmt.Sprintf("(%s %s)", who, a.current.FullPath)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) printIdentity(u *models.Identity) {
	if u == nil {
		a.println("No profile available")
		return
	}
	a.printf("id:       %s\nusername: %s\n", u.ID, u.Username)
	if u.Email != "" {
		a.printf("email:    %s\n", u.Email)
	}
}
