package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/tabclient/internal/client/models"
	"github.com/dmitrijs2005/tabclient/internal/client/services"
	"github.com/dmitrijs2005/tabclient/internal/client/session"
	"github.com/dmitrijs2005/tabclient/internal/netx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------ fakes ------------

type fakeSession struct {
	token string
	user  *models.Identity

	loginRes    session.Result
	loginUser   string
	loginPass   string
	registerRes session.Result
	regEmail    string
	updateRes   session.Result
	lastUpdate  session.ProfileUpdate
	profile     *models.Identity
	expiry      time.Time
	logouts     int
}

func (f *fakeSession) IsAuthenticated() bool  { return f.token != "" }
func (f *fakeSession) User() *models.Identity { return f.user.Clone() }

func (f *fakeSession) FetchUserProfile(context.Context) *models.Identity {
	if f.profile != nil {
		f.user = f.profile.Clone()
	}
	return f.profile.Clone()
}

func (f *fakeSession) Login(_ context.Context, u, p string) session.Result {
	f.loginUser, f.loginPass = u, p
	if f.loginRes.Success {
		f.token = "tok"
		f.user = &models.Identity{ID: "u-1", Username: u}
	}
	return f.loginRes
}

func (f *fakeSession) Register(_ context.Context, u, _, email string) session.Result {
	f.regEmail = email
	if f.registerRes.Success {
		f.token = "tok"
		f.user = &models.Identity{ID: "u-2", Username: u, Email: email}
	}
	return f.registerRes
}

func (f *fakeSession) Logout(context.Context) {
	f.logouts++
	f.token = ""
	f.user = nil
}

func (f *fakeSession) UpdateProfile(_ context.Context, upd session.ProfileUpdate) session.Result {
	f.lastUpdate = upd
	if f.updateRes.Success && upd.Email != "" {
		f.user.Email = upd.Email
	}
	return f.updateRes
}

func (f *fakeSession) CredentialExpiry() (time.Time, bool) {
	return f.expiry, !f.expiry.IsZero()
}

type fakeTabs struct {
	list      []models.Tab
	listErr   error
	data      []byte
	uploaded  string
	deleted   string
	healthErr error
	calls     int
}

func (f *fakeTabs) List(context.Context) ([]models.Tab, error) {
	f.calls++
	return f.list, f.listErr
}
func (f *fakeTabs) Get(context.Context, string) ([]byte, error) {
	f.calls++
	return f.data, nil
}
func (f *fakeTabs) Upload(_ context.Context, p string) (models.Tab, error) {
	f.calls++
	f.uploaded = p
	return models.Tab{ID: "c3", Filename: filepath.Base(p)}, nil
}
func (f *fakeTabs) Delete(_ context.Context, id string) error {
	f.calls++
	f.deleted = id
	return nil
}
func (f *fakeTabs) Health(context.Context) (services.Health, error) {
	return services.Health{Status: "healthy", Timestamp: "now"}, f.healthErr
}

// ------------ helpers ------------

func newTestApp(t *testing.T, s *fakeSession, tabs *fakeTabs, input ...string) (*App, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false, nil, nil)
	var out bytes.Buffer
	in := strings.Join(input, "\n")
	if in != "" {
		in += "\n"
	}
	return NewApp(s, tabs, WithIO(strings.NewReader(in), &out)), &out
}

// ------------ tests ------------

func TestTabs_RedirectsGuestAndResumesAfterLogin(t *testing.T) {
	s := &fakeSession{loginRes: session.Result{Success: true}}
	tabs := &fakeTabs{list: []models.Tab{{ID: "a1", Filename: "a1.gp5"}}}
	a, out := newTestApp(t, s, tabs, "alice", "pw")
	ctx := context.Background()

	require.NoError(t, a.Tabs(ctx))
	assert.Zero(t, tabs.calls, "guests must not reach the service")
	assert.Equal(t, "auth", a.current.Name)
	assert.Equal(t, "/tabs", a.pending)
	assert.Contains(t, out.String(), "Please login")

	require.NoError(t, a.Login(ctx))
	assert.Equal(t, "alice", s.loginUser)
	assert.Equal(t, "pw", s.loginPass)
	assert.Equal(t, "tabs", a.current.Name)
	assert.Empty(t, a.pending)
	assert.Contains(t, out.String(), "Returned to /tabs")

	require.NoError(t, a.Tabs(ctx))
	assert.Equal(t, 1, tabs.calls)
	assert.Contains(t, out.String(), "a1\ta1.gp5")
}

func TestLogin_Failure(t *testing.T) {
	s := &fakeSession{loginRes: session.Result{Error: "Invalid username or password"}}
	a, out := newTestApp(t, s, &fakeTabs{}, "alice", "bad")

	err := a.Login(context.Background())

	assert.ErrorIs(t, err, session.ErrOperationFailed)
	assert.Contains(t, out.String(), "Invalid username or password")
	assert.False(t, s.IsAuthenticated())
}

func TestLogin_AlreadySignedIn(t *testing.T) {
	s := &fakeSession{token: "tok", user: &models.Identity{ID: "u", Username: "alice"}}
	a, out := newTestApp(t, s, &fakeTabs{})

	err := a.Login(context.Background())

	assert.ErrorIs(t, err, errAlreadySignedIn)
	assert.Equal(t, "home", a.current.Name)
	assert.Contains(t, out.String(), "Already signed in")
	assert.Empty(t, s.loginUser)
}

func TestRegister(t *testing.T) {
	s := &fakeSession{registerRes: session.Result{Success: true}}
	a, out := newTestApp(t, s, &fakeTabs{}, "carol", "pw", "carol@example.org")

	require.NoError(t, a.Register(context.Background()))

	assert.Equal(t, "carol@example.org", s.regEmail)
	assert.Contains(t, out.String(), "Registered and signed in as carol")
	assert.Equal(t, "home", a.current.Name)
}

func TestLogout(t *testing.T) {
	s := &fakeSession{token: "tok", user: &models.Identity{ID: "u", Username: "alice"}}
	a, _ := newTestApp(t, s, &fakeTabs{})
	a.pending = "/tabs"

	require.NoError(t, a.Logout(context.Background()))

	assert.Equal(t, 1, s.logouts)
	assert.Empty(t, a.pending)
	assert.Equal(t, "home", a.current.Name)
}

func TestWhoAmI(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh profile", func(t *testing.T) {
		s := &fakeSession{token: "tok", profile: &models.Identity{ID: "u-1", Username: "alice", Email: "a@example.org"}}
		a, out := newTestApp(t, s, &fakeTabs{})
		require.NoError(t, a.WhoAmI(ctx))
		assert.Contains(t, out.String(), "a@example.org")
	})

	t.Run("falls back to cached identity", func(t *testing.T) {
		s := &fakeSession{token: "tok", user: &models.Identity{ID: "u-1", Username: "cached"}}
		a, out := newTestApp(t, s, &fakeTabs{})
		require.NoError(t, a.WhoAmI(ctx))
		assert.Contains(t, out.String(), "cached")
	})

	t.Run("guest", func(t *testing.T) {
		a, out := newTestApp(t, &fakeSession{}, &fakeTabs{})
		require.NoError(t, a.WhoAmI(ctx))
		assert.Contains(t, out.String(), "Not signed in")
	})
}

func TestProfile(t *testing.T) {
	s := &fakeSession{
		token:     "tok",
		user:      &models.Identity{ID: "u-1", Username: "alice"},
		updateRes: session.Result{Success: true},
	}
	a, out := newTestApp(t, s, &fakeTabs{}, "", "new@example.org")

	require.NoError(t, a.Profile(context.Background()))

	assert.Equal(t, session.ProfileUpdate{Email: "new@example.org"}, s.lastUpdate)
	assert.Contains(t, out.String(), "new@example.org")
}

func TestStatus(t *testing.T) {
	s := &fakeSession{
		token:  "tok",
		user:   &models.Identity{ID: "u-1", Username: "alice"},
		expiry: time.Now().Add(time.Hour),
	}
	a, out := newTestApp(t, s, &fakeTabs{})

	require.NoError(t, a.Status(context.Background()))

	assert.Contains(t, out.String(), "Signed in as alice")
	assert.Contains(t, out.String(), "Credential expires at")
}

func TestTab_SavesDownload(t *testing.T) {
	dir := t.TempDir()
	orig := downloadDir
	downloadDir = dir
	t.Cleanup(func() { downloadDir = orig })

	s := &fakeSession{token: "tok", user: &models.Identity{ID: "u", Username: "alice"}}
	a, _ := newTestApp(t, s, &fakeTabs{data: []byte("GP5")})

	require.NoError(t, a.Tab(context.Background(), "a1"))

	got, err := os.ReadFile(filepath.Join(dir, "a1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("GP5"), got)
}

func TestUploadAndRemove(t *testing.T) {
	s := &fakeSession{token: "tok", user: &models.Identity{ID: "u", Username: "alice"}}
	tabs := &fakeTabs{}
	a, out := newTestApp(t, s, tabs)
	ctx := context.Background()

	require.NoError(t, a.Upload(ctx, "/tmp/riff.gp5"))
	require.NoError(t, a.RemoveTab(ctx, "a1"))

	assert.Equal(t, "/tmp/riff.gp5", tabs.uploaded)
	assert.Equal(t, "a1", tabs.deleted)
	assert.Contains(t, out.String(), "Uploaded riff.gp5 as c3")
}

func TestTabs_ExpiredSession(t *testing.T) {
	s := &fakeSession{token: "tok", user: &models.Identity{ID: "u", Username: "alice"}}
	tabs := &fakeTabs{listErr: &netx.RequestError{Kind: netx.KindSessionExpired, Status: 401, Message: netx.SessionExpiredMessage}}
	a, out := newTestApp(t, s, tabs)

	err := a.Tabs(context.Background())

	assert.ErrorIs(t, err, netx.ErrSessionExpired)
	assert.Contains(t, out.String(), netx.SessionExpiredMessage)
}

func TestOpenCmd(t *testing.T) {
	a, out := newTestApp(t, &fakeSession{}, &fakeTabs{})
	ctx := context.Background()

	require.NoError(t, a.OpenCmd(ctx, "/tuner"))
	assert.Contains(t, out.String(), "Now at tuner")

	assert.Error(t, a.OpenCmd(ctx, "/missing"))
}

func TestHealth(t *testing.T) {
	a, out := newTestApp(t, &fakeSession{}, &fakeTabs{})
	require.NoError(t, a.Health(context.Background()))
	assert.Contains(t, out.String(), "Service is healthy")
}

func TestStatusPrompt(t *testing.T) {
	s := &fakeSession{}
	a, _ := newTestApp(t, s, &fakeTabs{})
	_, _ = a.Open(context.Background(), "/about")

	assert.Equal(t, "(guest /about)", a.status())

	s.token = "tok"
	s.user = &models.Identity{ID: "u", Username: "alice"}
	assert.Equal(t, "(alice /about)", a.status())
}

func TestRun_ExitsOnEOF(t *testing.T) {
	silence(t)
	a, out := newTestApp(t, &fakeSession{}, &fakeTabs{}, "health")

	a.Run(context.Background())

	assert.Contains(t, out.String(), "Tab client")
	assert.Contains(t, out.String(), "Service is healthy")
}
