// Package session owns the authenticated identity and bearer credential
// for one staff visit. It is the only writer of the credential store;
// every other component reads the token through the Manager but never
// mutates it.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vantrevi/gatehouse/internal/api"
	"github.com/vantrevi/gatehouse/internal/models"
	"github.com/vantrevi/gatehouse/internal/notify"
	"github.com/vantrevi/gatehouse/internal/store"
)

// State is the session lifecycle state.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
)

// AuthClient is the slice of the backend client the Manager delegates
// auth calls to.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	Register(ctx context.Context, username, password, role string) error
	ChangePassword(ctx context.Context, current, next string) error
}

// CredentialStore is the durable two-key mirror of the session.
type CredentialStore interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Delete(key string) error
}

// Manager is the session state machine. Overlapping auth calls resolve
// last-response-wins: every completed call applies its outcome under the
// mutex in response-arrival order, so the final state always reflects
// the response that arrived last.
type Manager struct {
	store    CredentialStore
	notifier notify.Notifier

	mu       sync.Mutex
	auth     AuthClient
	state    State
	token    string
	identity *models.Identity
}

// Opts holds parameters for creating a Manager.
type Opts struct {
	Store    CredentialStore
	Notifier notify.Notifier // nil means notifications are discarded
	Auth     AuthClient      // may be bound later with SetAuth
}

// NewManager creates a Manager in the Unauthenticated state. Call
// Hydrate to restore a previous visit from the store.
func NewManager(opts Opts) *Manager {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Manager{
		store:    opts.Store,
		notifier: notifier,
		auth:     opts.Auth,
		state:    StateUnauthenticated,
	}
}

// SetAuth binds the backend client. The API client needs the Manager as
// its token source, so the two are constructed in sequence and bound
// here.
func (m *Manager) SetAuth(auth AuthClient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = auth
}

// Hydrate reads the credential store once and moves to Authenticated
// when a well-formed (token, identity) pair is present, else to
// Unauthenticated. A partial pair is treated as absent and cleared so
// the invariant "identity present iff token present" holds from the
// first observable state onward.
func (m *Manager) Hydrate() State {
	m.mu.Lock()
	m.state = StateAuthenticating
	m.mu.Unlock()

	token, identity := m.readStored()

	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" || identity == nil {
		m.clearStoreLocked()
		m.state = StateUnauthenticated
		m.token = ""
		m.identity = nil
		return m.state
	}
	m.token = token
	m.identity = identity
	m.state = StateAuthenticated
	return m.state
}

func (m *Manager) readStored() (string, *models.Identity) {
	if m.store == nil {
		return "", nil
	}
	token, err := m.store.Get(store.KeyToken)
	if err != nil {
		logrus.WithError(err).Warn("session: read stored token")
		return "", nil
	}
	raw, err := m.store.Get(store.KeyUser)
	if err != nil {
		logrus.WithError(err).Warn("session: read stored identity")
		return "", nil
	}
	if token == "" || raw == "" {
		return "", nil
	}
	var identity models.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		logrus.WithError(err).Warn("session: stored identity is malformed")
		return "", nil
	}
	return token, &identity
}

// Login exchanges credentials for a session. On success the pair is
// held in memory and mirrored to the store, and the state becomes
// Authenticated. On failure nothing changes; the reason is routed to
// the notifier and the caller gets false. Re-login from Authenticated
// is allowed and replaces the session.
func (m *Manager) Login(ctx context.Context, username, password string) bool {
	m.mu.Lock()
	auth := m.auth
	m.mu.Unlock()
	if auth == nil {
		m.notifier.Notify(ctx, notify.Event{
			Title:    "login failed",
			Body:     "no backend configured",
			Severity: notify.SeverityError,
		})
		return false
	}

	res, err := auth.Login(ctx, username, password)
	if err != nil {
		m.notifier.Notify(ctx, notify.Event{
			Title:    "login failed",
			Body:     api.UserMessage(err),
			Severity: notify.SeverityError,
		})
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = res.Token
	m.identity = &res.User
	m.state = StateAuthenticated
	m.writeStoreLocked(res.Token, &res.User)
	return true
}

// Logout unconditionally tears the session down: memory and store are
// cleared and the state becomes Unauthenticated. It cannot fail; store
// errors are logged and the in-memory reset happens regardless.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearStoreLocked()
	m.token = ""
	m.identity = nil
	m.state = StateUnauthenticated
}

// Register creates a new account. Session state is untouched either way.
func (m *Manager) Register(ctx context.Context, username, password, role string) bool {
	m.mu.Lock()
	auth := m.auth
	m.mu.Unlock()
	if auth == nil {
		return false
	}
	if err := auth.Register(ctx, username, password, role); err != nil {
		m.notifier.Notify(ctx, notify.Event{
			Title:    "registration failed",
			Body:     api.UserMessage(err),
			Severity: notify.SeverityError,
		})
		return false
	}
	return true
}

// ChangePassword rotates the password. Session state is untouched; the
// existing token stays valid until the backend says otherwise.
func (m *Manager) ChangePassword(ctx context.Context, current, next string) bool {
	m.mu.Lock()
	auth := m.auth
	m.mu.Unlock()
	if auth == nil {
		return false
	}
	if err := auth.ChangePassword(ctx, current, next); err != nil {
		m.notifier.Notify(ctx, notify.Event{
			Title:    "password change failed",
			Body:     api.UserMessage(err),
			Severity: notify.SeverityError,
		})
		return false
	}
	return true
}

// Invalidate drops the session in response to an authorization failure
// from the backend (the stored token is dead, keeping it would loop
// every call into the same 401).
func (m *Manager) Invalidate() {
	m.Logout()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token implements api.TokenSource. Empty when unauthenticated, which
// makes the client omit the Authorization header entirely.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Identity returns the authenticated identity, if any.
func (m *Manager) Identity() (models.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return models.Identity{}, false
	}
	return *m.identity, true
}

func (m *Manager) writeStoreLocked(token string, identity *models.Identity) {
	if m.store == nil {
		return
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		logrus.WithError(err).Warn("session: encode identity")
		return
	}
	if err := m.store.Put(store.KeyToken, token); err != nil {
		logrus.WithError(err).Warn("session: persist token")
	}
	if err := m.store.Put(store.KeyUser, string(raw)); err != nil {
		logrus.WithError(err).Warn("session: persist identity")
	}
}

func (m *Manager) clearStoreLocked() {
	if m.store == nil {
		return
	}
	if err := m.store.Delete(store.KeyToken); err != nil {
		logrus.WithError(err).Warn("session: clear token")
	}
	if err := m.store.Delete(store.KeyUser); err != nil {
		logrus.WithError(err).Warn("session: clear identity")
	}
}
