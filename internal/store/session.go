package store

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/furniq/furniq-admin/internal/auth"
)

// SessionState is the persisted slice of a session: the bearer token and
// the profile cached alongside it.
type SessionState struct {
	Token   string       `json:"token"`
	Profile auth.Profile `json:"profile"`
}

// TokenVault persists session state across restarts. Implementations must
// tolerate Clear on an empty vault.
type TokenVault interface {
	Load() (SessionState, bool)
	Save(state SessionState) error
	Clear() error
}

// MemoryVault keeps session state in process memory. Useful in tests and
// for callers that do not want persistence.
type MemoryVault struct {
	mu    sync.Mutex
	state SessionState
	set   bool
}

func (v *MemoryVault) Load() (SessionState, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state, v.set
}

func (v *MemoryVault) Save(state SessionState) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = state
	v.set = true
	return nil
}

func (v *MemoryVault) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = SessionState{}
	v.set = false
	return nil
}

// Session is the auth store: it logs in, caches the token and profile,
// attaches the token to every API call, and tears itself down on logout
// or the first 401. It satisfies Credentials for the resource stores.
type Session struct {
	client *Client
	vault  TokenVault
	logger *slog.Logger

	mu      sync.Mutex
	state   SessionState
	authed  bool
	lastErr string
}

// NewSession builds a Session against the API at baseURL, restoring any
// state the vault still holds. The returned session owns a Client wired
// to its own token; use Client() to build resource stores that share it.
func NewSession(baseURL string, vault TokenVault, httpClient *http.Client, logger *slog.Logger) *Session {
	if vault == nil {
		vault = &MemoryVault{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{vault: vault, logger: logger}
	s.client = NewClient(baseURL, s, httpClient, logger)
	s.client.onUnauthorized = s.destroy

	if state, ok := vault.Load(); ok && state.Token != "" {
		s.state = state
		s.authed = true
	}
	return s
}

// Client returns the API client carrying this session's token.
func (s *Session) Client() *Client {
	return s.client
}

// Token implements Credentials.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed
}

// Profile returns the cached profile of the signed-in account.
func (s *Session) Profile() (auth.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Profile, s.authed
}

// Err returns the sticky error from the last failed session operation.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  auth.Profile `json:"user"`
}

// Login exchanges credentials for a token and caches the profile. On
// success the state is persisted through the vault.
func (s *Session) Login(ctx context.Context, email, password string) bool {
	var resp loginResponse
	err := s.client.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		s.fail("login", err)
		return false
	}

	state := SessionState{Token: resp.Token, Profile: resp.User}
	s.mu.Lock()
	s.state = state
	s.authed = true
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.vault.Save(state); err != nil {
		s.logger.Warn("persist session failed", slog.Any("error", err))
	}
	return true
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string       `json:"message"`
	User    auth.Profile `json:"user"`
}

// Register creates an account. It does not sign in; callers follow up
// with Login using the same credentials.
func (s *Session) Register(ctx context.Context, name, email, password string) (auth.Profile, bool) {
	var resp registerResponse
	err := s.client.do(ctx, http.MethodPost, "/api/auth/register", registerRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		s.fail("register", err)
		return auth.Profile{}, false
	}
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
	return resp.User, true
}

// Me refreshes the cached profile from the server. A 401 destroys the
// session through the client hook before this returns.
func (s *Session) Me(ctx context.Context) (auth.Profile, bool) {
	var profile auth.Profile
	if err := s.client.do(ctx, http.MethodGet, "/api/auth/me", nil, &profile); err != nil {
		s.fail("me", err)
		return auth.Profile{}, false
	}

	s.mu.Lock()
	s.state.Profile = profile
	s.lastErr = ""
	state := s.state
	s.mu.Unlock()

	if err := s.vault.Save(state); err != nil {
		s.logger.Warn("persist session failed", slog.Any("error", err))
	}
	return profile, true
}

// Logout revokes the token server-side and destroys local state either
// way. An unreachable server must not leave a client stuck signed in.
func (s *Session) Logout(ctx context.Context) {
	if err := s.client.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
			s.logger.Warn("logout request failed", slog.Any("error", err))
		}
	}
	s.destroy()
}

// destroy wipes local session state and the vault.
func (s *Session) destroy() {
	s.mu.Lock()
	s.state = SessionState{}
	s.authed = false
	s.mu.Unlock()
	if err := s.vault.Clear(); err != nil {
		s.logger.Warn("clear session vault failed", slog.Any("error", err))
	}
}

func (s *Session) fail(op string, err error) {
	msg := err.Error()
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	s.logger.Warn("session operation failed", slog.String("op", op), slog.Any("error", err))
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}
