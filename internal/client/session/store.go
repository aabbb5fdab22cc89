package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/tabclient/internal/client/models"
	"github.com/dmitrijs2005/tabclient/internal/client/storage"
	"github.com/dmitrijs2005/tabclient/internal/common"
	"github.com/dmitrijs2005/tabclient/internal/logging"
	"github.com/dmitrijs2005/tabclient/internal/netx"
	"github.com/golang-jwt/jwt/v5"
)

// Fallback messages used when the service gave no reason.
const (
	LoginFailedMessage         = "Login failed"
	RegistrationFailedMessage  = "Registration failed"
	ProfileUpdateFailedMessage = "Profile update failed"
	NotAuthenticatedMessage    = "Not authenticated"
)

// ErrOperationFailed is wrapped by Result.Err.
var ErrOperationFailed = errors.New("session operation failed")

// Result is what Login, Register and UpdateProfile report back.
type Result struct {
	Success bool
	Error   string
}

func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrOperationFailed, r.Error)
}

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	Token   string
	User    *models.Identity
	Loading bool
}

func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// InvalidationRecorder is notified when a 401 clears the session.
type InvalidationRecorder interface {
	SessionInvalidated()
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithInvalidationRecorder(r InvalidationRecorder) Option {
	return func(s *Store) { s.invalidations = r }
}

// updater is implemented by storage backends that can group writes.
type updater interface {
	Update(ctx context.Context, fn func(ctx context.Context, kv storage.KV) error) error
}

// Store holds the credential and identity of the current user.
type Store struct {
	mu    sync.RWMutex
	token string
	user  *models.Identity

	loading atomic.Bool

	kv            storage.KV
	gw            Gateway
	logger        logging.Logger
	invalidations InvalidationRecorder

	subMu   sync.Mutex
	subs    map[uint64]func(Snapshot)
	nextSub uint64
}

// New returns an empty store. Call Restore to load persisted state.
func New(kv storage.KV, gw Gateway, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		gw:     gw,
		logger: logging.Nop(),
		subs:   make(map[uint64]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted credential and identity. A persisted identity
// that cannot be decoded is removed from storage and treated as absent; the
// credential is kept. Storage failures are logged and treated as absent.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()

	token, ok, err := s.kv.Get(ctx, common.TokenStorageKey)
	if err != nil {
		s.logger.Warn(ctx, "failed to read persisted credential", "error", err)
	}
	if ok {
		s.token = token
	}

	raw, ok, err := s.kv.Get(ctx, common.IdentityStorageKey)
	if err != nil {
		s.logger.Warn(ctx, "failed to read persisted identity", "error", err)
	}
	if ok {
		user, perr := models.ParseIdentity([]byte(raw))
		if perr != nil {
			s.logger.Warn(ctx, "discarding malformed persisted identity", "error", perr)
			if rerr := s.kv.Remove(ctx, common.IdentityStorageKey); rerr != nil {
				s.logger.Warn(ctx, "failed to remove persisted identity", "error", rerr)
			}
			user = nil
		}
		s.user = user
	}

	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SetIdentity replaces the cached identity. Nil clears it.
func (s *Store) SetIdentity(ctx context.Context, user *models.Identity) {
	s.mutate(ctx, func(kv storage.KV) error {
		s.user = user.Clone()
		return writeIdentity(ctx, kv, s.user)
	})
}

// SetCredential replaces the token. The empty string clears it.
func (s *Store) SetCredential(ctx context.Context, token string) {
	s.mutate(ctx, func(kv storage.KV) error {
		s.token = token
		return writeToken(ctx, kv, token)
	})
}

// Login authenticates against the service. The session is only modified
// when the call succeeds.
func (s *Store) Login(ctx context.Context, username, password string) Result {
	defer s.beginLoading()()

	p, out := s.gw.Login(ctx, username, password)
	if !out.OK {
		s.logger.Info(ctx, "login failed", "user", username, "status", out.Status, "error", out.Error)
		return Result{Error: failureMessage(out, LoginFailedMessage)}
	}

	s.establish(ctx, &models.Identity{ID: p.UserID, Username: p.Username}, p.AccessToken)
	s.logger.Info(ctx, "logged in", "user", p.Username)
	return Result{Success: true}
}

// Register creates an account and signs in with it.
func (s *Store) Register(ctx context.Context, username, password, email string) Result {
	defer s.beginLoading()()

	p, out := s.gw.Register(ctx, username, password, email)
	if !out.OK {
		s.logger.Info(ctx, "registration failed", "user", username, "status", out.Status, "error", out.Error)
		return Result{Error: failureMessage(out, RegistrationFailedMessage)}
	}

	if p.Email == "" {
		p.Email = email
	}
	s.establish(ctx, &models.Identity{ID: p.UserID, Username: p.Username, Email: p.Email}, p.AccessToken)
	s.logger.Info(ctx, "registered", "user", p.Username)
	return Result{Success: true}
}

// establish sets identity and credential in one critical section.
func (s *Store) establish(ctx context.Context, user *models.Identity, token string) {
	s.mutate(ctx, func(kv storage.KV) error {
		s.user = user
		s.token = token
		if err := writeIdentity(ctx, kv, user); err != nil {
			return err
		}
		return writeToken(ctx, kv, token)
	})
}

// Logout clears the session and its persisted copy. Safe to call repeatedly.
func (s *Store) Logout(ctx context.Context) {
	s.mutate(ctx, func(kv storage.KV) error {
		s.user = nil
		s.token = ""
		if err := kv.Remove(ctx, common.IdentityStorageKey); err != nil {
			return err
		}
		return kv.Remove(ctx, common.TokenStorageKey)
	})
}

// invalidate is Logout triggered by the service rejecting the credential.
func (s *Store) invalidate(ctx context.Context) {
	s.logger.Warn(ctx, "credential rejected, clearing session")
	if s.invalidations != nil {
		s.invalidations.SessionInvalidated()
	}
	s.Logout(ctx)
}

// FetchUserProfile refreshes the identity from the service. It returns nil
// when there is no credential, on any failure, and when the credential
// changed while the request was in flight. A 401 clears the session.
func (s *Store) FetchUserProfile(ctx context.Context) *models.Identity {
	token := s.Token()
	if token == "" {
		return nil
	}

	defer s.beginLoading()()

	p, out := s.gw.Profile(ctx, token)
	if out.Status == http.StatusUnauthorized {
		s.invalidate(ctx)
		return nil
	}
	if !out.OK {
		s.logger.Warn(ctx, "failed to fetch user profile", "status", out.Status, "error", out.Error)
		return nil
	}

	user := &models.Identity{ID: p.UserID, Username: p.Username, Email: p.Email}
	if !s.setIdentityFor(ctx, token, user) {
		return nil
	}
	return user.Clone()
}

// UpdateProfile changes the user's profile on the service and caches the
// result.
func (s *Store) UpdateProfile(ctx context.Context, upd ProfileUpdate) Result {
	token := s.Token()
	if token == "" {
		return Result{Error: NotAuthenticatedMessage}
	}

	p, out := s.gw.UpdateProfile(ctx, token, upd)
	if out.Status == http.StatusUnauthorized {
		s.invalidate(ctx)
		return Result{Error: netx.SessionExpiredMessage}
	}
	if !out.OK {
		return Result{Error: failureMessage(out, ProfileUpdateFailedMessage)}
	}

	s.setIdentityFor(ctx, token, &models.Identity{ID: p.UserID, Username: p.Username, Email: p.Email})
	return Result{Success: true}
}

// setIdentityFor stores user only if token is still the live credential.
func (s *Store) setIdentityFor(ctx context.Context, token string, user *models.Identity) bool {
	applied := false
	s.mutate(ctx, func(kv storage.KV) error {
		if s.token == "" || s.token != token {
			return nil
		}
		applied = true
		s.user = user.Clone()
		return writeIdentity(ctx, kv, s.user)
	})
	return applied
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// User returns a copy of the cached identity, or nil.
func (s *Store) User() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Loading reports whether a login, registration or profile fetch is in
// flight. It reflects the latest completion only and is not a lock.
func (s *Store) Loading() bool {
	return s.loading.Load()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// CredentialExpiry reads the exp claim of a JWT credential without
// verifying its signature. It is informational only.
func (s *Store) CredentialExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subscribe registers fn to receive a Snapshot after every change. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Token: s.token, User: s.user.Clone(), Loading: s.loading.Load()}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// beginLoading raises the flag and returns the func that lowers it.
func (s *Store) beginLoading() func() {
	s.loading.Store(true)
	s.notify(s.Snapshot())
	return func() {
		s.loading.Store(false)
		s.notify(s.Snapshot())
	}
}

// mutate applies fn under the write lock. Writes fn makes through its KV
// argument are grouped in one storage transaction when the backend allows.
// Storage errors are logged; the in-memory state stays authoritative.
func (s *Store) mutate(ctx context.Context, fn func(kv storage.KV) error) {
	s.mu.Lock()

	var err error
	if u, ok := s.kv.(updater); ok {
		err = u.Update(ctx, func(_ context.Context, kv storage.KV) error { return fn(kv) })
		if err != nil {
			// the transaction rolled back; memory may already reflect fn
			s.logger.Warn(ctx, "failed to persist session", "error", err)
		}
	} else if err = fn(s.kv); err != nil {
		s.logger.Warn(ctx, "failed to persist session", "error", err)
	}

	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

func writeIdentity(ctx context.Context, kv storage.KV, user *models.Identity) error {
	if user == nil {
		return kv.Remove(ctx, common.IdentityStorageKey)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return kv.Set(ctx, common.IdentityStorageKey, string(data))
}

func writeToken(ctx context.Context, kv storage.KV, token string) error {
	if token == "" {
		return kv.Remove(ctx, common.TokenStorageKey)
	}
	return kv.Set(ctx, common.TokenStorageKey, token)
}

// failureMessage picks the text shown to the user for a failed call.
func failureMessage(out netx.Outcome, fallback string) string {
	switch out.Kind {
	case netx.KindTransport:
		if out.Error != "" {
			return out.Error
		}
	case netx.KindRejected:
		if out.Error != "" && out.Error != netx.GenericErrorMessage && out.Error != http.StatusText(out.Status) {
			return out.Error
		}
	}
	return fallback
}
