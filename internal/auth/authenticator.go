package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/meridianvest/platform/internal/model"
)

// Auther drives the credential/session lifecycle: login, token re-issuance
// and logout. Handlers stay thin and delegate here.
type Auther struct {
	users   UserStore
	tokens  RefreshTokenStore
	access  *TokenService
	refresh *TokenService
	logger  Logger

	// strictPersist fails the login when the refresh token cannot be written
	// to the store. When off, login degrades to best-effort: the access token
	// is still returned and the refresh token is omitted.
	strictPersist bool
	// requireVerified gates login on a verified email address.
	requireVerified bool
}

// Option configures an Auther.
type Option func(*Auther)

// WithLogger overrides the default logger.
func WithLogger(logger Logger) Option {
	return func(a *Auther) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithStrictRefreshPersist toggles the strict persistence policy.
func WithStrictRefreshPersist(strict bool) Option {
	return func(a *Auther) { a.strictPersist = strict }
}

// WithRequireVerifiedEmail toggles the verified-email login gate.
func WithRequireVerifiedEmail(require bool) Option {
	return func(a *Auther) { a.requireVerified = require }
}

// NewAuther returns a new authenticator.
func NewAuther(users UserStore, tokens RefreshTokenStore, access, refresh *TokenService, opts ...Option) *Auther {
	a := &Auther{
		users:         users,
		tokens:        tokens,
		access:        access,
		refresh:       refresh,
		logger:        defLogger{},
		strictPersist: true,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// LoginResult carries everything the login response needs.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *model.SafeUser
}

// Login verifies credentials and issues an access/refresh token pair. The
// refresh token is persisted so it can be revoked later; the user record is
// stamped active/lastSeen. Both writes are independent, matching the
// best-effort dual write of the original flow, with strictness applied to the
// token write only.
func (a *Auther) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during login")
	}
	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if a.requireVerified && !user.IsVerified {
		a.logger.Warn("login rejected for unverified email", "email", email)
		return nil, ErrEmailNotVerified
	}

	if user.Blocked {
		a.logger.Warn("login rejected for blocked account", "user", user.ID.Hex())
		return nil, ErrAccountBlocked
	}

	if err := ComparePasswordAndHash(password, user.Password); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	safe := user.Safe()

	accessToken, err := a.access.Sign(safe)
	if err != nil {
		return nil, err
	}

	refreshToken, err := a.refresh.Sign(safe)
	if err != nil {
		return nil, err
	}

	type trackResult struct {
		user *model.User
		err  error
	}
	type persistResult struct {
		entry *model.RefreshTokenEntry
		err   error
	}

	trackCh := make(chan trackResult, 1)
	persistCh := make(chan persistResult, 1)

	go func() {
		updated, err := a.users.TrackLogin(ctx, user.ID, time.Now().UTC())
		trackCh <- trackResult{user: updated, err: err}
	}()

	go func() {
		entry, err := a.tokens.Create(ctx, refreshToken)
		persistCh <- persistResult{entry: entry, err: err}
	}()

	tracked := <-trackCh
	persisted := <-persistCh

	if tracked.err != nil {
		a.logger.Warn("failed to stamp login on user record", "user", user.ID.Hex(), "error", tracked.err)
	} else if tracked.user != nil {
		safe = tracked.user.Safe()
	}

	result := &LoginResult{
		AccessToken: accessToken,
		User:        safe,
	}

	switch {
	case persisted.err != nil && a.strictPersist:
		return nil, goerrors.Wrap(persisted.err, goerrors.CategoryInternal, "failed to persist refresh token")
	case persisted.err != nil:
		// best-effort policy: the login succeeds without a revocable session
		a.logger.Error("refresh token not persisted, returning access token only", "error", persisted.err)
	case persisted.entry != nil:
		result.RefreshToken = persisted.entry.Token
	}

	return result, nil
}

// Refresh exchanges a stored, signature-valid refresh token for a new access
// token. The store lookup runs before the signature check so a revoked token
// is rejected even while cryptographically valid. The refresh token itself is
// left untouched; there is no rotation.
func (a *Auther) Refresh(ctx context.Context, refreshToken string) (string, *model.SafeUser, error) {
	entry, err := a.tokens.Find(ctx, refreshToken)
	if err != nil {
		return "", nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up refresh token")
	}
	if entry == nil {
		return "", nil, ErrTokenRevoked
	}

	claims, err := a.refresh.Validate(refreshToken)
	if err != nil {
		a.logger.Warn("stored refresh token failed verification", "error", err)
		return "", nil, ErrTokenExpired
	}

	accessToken, err := a.access.Sign(claims.User)
	if err != nil {
		return "", nil, err
	}

	return accessToken, claims.User, nil
}

// Logout revokes a refresh token by deleting its store entry. A token with no
// entry and a failing delete both surface as errors so a second logout never
// reports silent success; the text codes keep them distinguishable in logs.
func (a *Auther) Logout(ctx context.Context, refreshToken string) error {
	deleted, err := a.tokens.Delete(ctx, refreshToken)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "logout failed, token not found or deletion failed").
			WithTextCode("LOGOUT_STORE_ERROR")
	}
	if !deleted {
		return goerrors.New("logout failed, token not found or deletion failed", goerrors.CategoryInternal).
			WithTextCode("LOGOUT_TOKEN_NOT_FOUND")
	}
	return nil
}

// AccessTokens exposes the access token service, used by the middleware.
func (a *Auther) AccessTokens() *TokenService {
	return a.access
}
