package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/meridianvest/platform/internal/auth"
	"github.com/meridianvest/platform/internal/model"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) TrackLogin(ctx context.Context, id primitive.ObjectID, at time.Time) (*model.User, error) {
	args := m.Called(ctx, id, at)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRefreshTokenStore struct {
	mock.Mock
}

func (m *MockRefreshTokenStore) Create(ctx context.Context, token string) (*model.RefreshTokenEntry, error) {
	args := m.Called(ctx, token)
	if e := args.Get(0); e != nil {
		return e.(*model.RefreshTokenEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRefreshTokenStore) Find(ctx context.Context, token string) (*model.RefreshTokenEntry, error) {
	args := m.Called(ctx, token)
	if e := args.Get(0); e != nil {
		return e.(*model.RefreshTokenEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRefreshTokenStore) Delete(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func newTokenServices(t *testing.T) (access, refresh *auth.TokenService) {
	t.Helper()
	access = auth.NewTokenService([]byte("access-signing-key"), time.Hour, "test-issuer", nil)
	refresh = auth.NewTokenService([]byte("refresh-signing-key"), 0, "test-issuer", nil)
	return access, refresh
}

func testUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		ID:         primitive.NewObjectID(),
		FullName:   "Test User",
		Email:      "test@example.com",
		Password:   hash,
		IsVerified: true,
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login returns both tokens and sanitized user", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		user := testUser(t, "password123")
		users.On("FindByEmail", ctx, "test@example.com").Return(user, nil).Once()
		users.On("TrackLogin", ctx, user.ID, mock.Anything).Return(user, nil).Once()
		tokens.On("Create", ctx, mock.Anything).Return(&model.RefreshTokenEntry{
			ID:        primitive.NewObjectID(),
			Token:     "stored-refresh-token",
			CreatedAt: time.Now(),
		}, nil).Once()

		auther := auth.NewAuther(users, tokens, access, refresh)

		result, err := auther.Login(ctx, "test@example.com", "password123")

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, "stored-refresh-token", result.RefreshToken)
		require.NotNil(t, result.User)
		assert.Equal(t, user.ID.Hex(), result.User.ID)
		assert.Equal(t, "test@example.com", result.User.Email)

		claims, err := access.Validate(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), claims.UserID())

		users.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		users.On("FindByEmail", ctx, "unknown@example.com").Return(nil, nil).Once()

		auther := auth.NewAuther(users, tokens, access, refresh)

		result, err := auther.Login(ctx, "unknown@example.com", "password123")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		users.On("FindByEmail", ctx, "test@example.com").Return(testUser(t, "password123"), nil).Once()

		auther := auth.NewAuther(users, tokens, access, refresh)

		result, err := auther.Login(ctx, "test@example.com", "not-the-password")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("blocked account", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		user := testUser(t, "password123")
		user.Blocked = true
		users.On("FindByEmail", ctx, "test@example.com").Return(user, nil).Once()

		auther := auth.NewAuther(users, tokens, access, refresh)

		result, err := auther.Login(ctx, "test@example.com", "password123")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, auth.ErrAccountBlocked)
	})

	t.Run("unverified email rejected only when policy is on", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		user := testUser(t, "password123")
		user.IsVerified = false
		users.On("FindByEmail", ctx, "test@example.com").Return(user, nil).Once()

		auther := auth.NewAuther(users, tokens, access, refresh,
			auth.WithRequireVerifiedEmail(true))

		result, err := auther.Login(ctx, "test@example.com", "password123")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, auth.ErrEmailNotVerified)
	})

	t.Run("strict policy fails login when refresh token persist fails", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		user := testUser(t, "password123")
		users.On("FindByEmail", ctx, "test@example.com").Return(user, nil).Once()
		users.On("TrackLogin", ctx, user.ID, mock.Anything).Return(user, nil).Once()
		tokens.On("Create", ctx, mock.Anything).Return(nil, errors.New("write concern failed")).Once()

		auther := auth.NewAuther(users, tokens, access, refresh,
			auth.WithStrictRefreshPersist(true))

		result, err := auther.Login(ctx, "test@example.com", "password123")

		assert.Nil(t, result)
		assert.Error(t, err)
	})

	t.Run("best-effort policy returns access token without refresh token", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		user := testUser(t, "password123")
		users.On("FindByEmail", ctx, "test@example.com").Return(user, nil).Once()
		users.On("TrackLogin", ctx, user.ID, mock.Anything).Return(user, nil).Once()
		tokens.On("Create", ctx, mock.Anything).Return(nil, errors.New("write concern failed")).Once()

		auther := auth.NewAuther(users, tokens, access, refresh,
			auth.WithStrictRefreshPersist(false))

		result, err := auther.Login(ctx, "test@example.com", "password123")

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Empty(t, result.RefreshToken)
	})

	t.Run("login stamp failure does not fail the login", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		user := testUser(t, "password123")
		users.On("FindByEmail", ctx, "test@example.com").Return(user, nil).Once()
		users.On("TrackLogin", ctx, user.ID, mock.Anything).Return(nil, errors.New("update failed")).Once()
		tokens.On("Create", ctx, mock.Anything).Return(&model.RefreshTokenEntry{Token: "rt"}, nil).Once()

		auther := auth.NewAuther(users, tokens, access, refresh)

		result, err := auther.Login(ctx, "test@example.com", "password123")

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, "rt", result.RefreshToken)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("stored token yields a new access token", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		user := testUser(t, "password123")
		refreshToken, err := refresh.Sign(user.Safe())
		require.NoError(t, err)

		tokens.On("Find", ctx, refreshToken).Return(&model.RefreshTokenEntry{Token: refreshToken}, nil).Once()

		auther := auth.NewAuther(users, tokens, access, refresh)

		accessToken, safe, err := auther.Refresh(ctx, refreshToken)

		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		require.NotNil(t, safe)
		assert.Equal(t, user.ID.Hex(), safe.ID)

		claims, err := access.Validate(accessToken)
		require.NoError(t, err)
		assert.Equal(t, user.Email, claims.Email())
	})

	t.Run("revoked token is rejected before signature verification", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		user := testUser(t, "password123")
		refreshToken, err := refresh.Sign(user.Safe())
		require.NoError(t, err)

		// cryptographically valid, but no longer in the store
		tokens.On("Find", ctx, refreshToken).Return(nil, nil).Once()

		auther := auth.NewAuther(users, tokens, access, refresh)

		accessToken, safe, err := auther.Refresh(ctx, refreshToken)

		assert.Empty(t, accessToken)
		assert.Nil(t, safe)
		assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	})

	t.Run("token signed with the wrong secret fails verification", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		user := testUser(t, "password123")
		// signed with the access secret, presented as a refresh token
		forged, err := access.Sign(user.Safe())
		require.NoError(t, err)

		tokens.On("Find", ctx, forged).Return(&model.RefreshTokenEntry{Token: forged}, nil).Once()

		auther := auth.NewAuther(users, tokens, access, refresh)

		_, _, err = auther.Refresh(ctx, forged)

		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the stored token", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		tokens.On("Delete", ctx, "refresh-token").Return(true, nil).Once()

		auther := auth.NewAuther(users, tokens, access, refresh)

		err := auther.Logout(ctx, "refresh-token")
		assert.NoError(t, err)
		tokens.AssertExpectations(t)
	})

	t.Run("second logout with the same token fails", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		tokens.On("Delete", ctx, "refresh-token").Return(false, nil).Once()

		auther := auth.NewAuther(users, tokens, access, refresh)

		err := auther.Logout(ctx, "refresh-token")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "logout failed")
	})

	t.Run("store failure surfaces as an error", func(t *testing.T) {
		users := new(MockUserStore)
		tokens := new(MockRefreshTokenStore)
		access, refresh := newTokenServices(t)

		tokens.On("Delete", ctx, "refresh-token").Return(false, errors.New("connection reset")).Once()

		auther := auth.NewAuther(users, tokens, access, refresh)

		err := auther.Logout(ctx, "refresh-token")
		assert.Error(t, err)
	})
}
