// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-image-gen/internal/adapter"
	"github.com/MKhiriev/go-image-gen/internal/config"
	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/internal/mock"
	"github.com/MKhiriev/go-image-gen/internal/store"
	"github.com/MKhiriev/go-image-gen/internal/utils"
	"github.com/MKhiriev/go-image-gen/internal/validators"
	"github.com/MKhiriev/go-image-gen/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errDB = errors.New("db error")

var testAppConfig = config.App{
	TokenSignKey:  "test-sign-key",
	TokenIssuer:   "test-issuer",
	TokenDuration: time.Hour,
}

type authMocks struct {
	users    *mock.MockUserRepository
	identity *mock.MockIdentityVerifier
}

func newTestAuthService(t *testing.T) (AuthService, authMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := authMocks{
		users:    mock.NewMockUserRepository(ctrl),
		identity: mock.NewMockIdentityVerifier(ctrl),
	}
	svc := NewAuthService(m.users, m.identity, validators.NewRequestValidator(), testAppConfig, logger.Nop())
	return svc, m
}

func strPtr(s string) *string { return &s }

// ─────────────────────────────────────────────
// RegisterUser
// ─────────────────────────────────────────────

func TestAuthService_RegisterUser_Success(t *testing.T) {
	svc, m := newTestAuthService(t)
	ctx := context.Background()
	req := models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "s3cret"}

	m.users.EXPECT().ExistsByUsernameOrEmail(ctx, "alice", "alice@example.com").Return(false, nil)
	m.users.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
		require.NotNil(t, u.Username)
		assert.Equal(t, "alice", *u.Username)
		assert.Equal(t, "alice@example.com", u.Email)
		require.NotNil(t, u.PasswordHash)
		assert.NotEqual(t, "s3cret", *u.PasswordHash)
		assert.NoError(t, utils.ComparePassword(*u.PasswordHash, "s3cret"))
		u.UserID = 1
		return u, nil
	})

	user, err := svc.RegisterUser(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.UserID)
}

func TestAuthService_RegisterUser_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"no username", models.RegisterRequest{Email: "a@b.c", Password: "p"}},
		{"no email", models.RegisterRequest{Username: "a", Password: "p"}},
		{"no password", models.RegisterRequest{Username: "a", Email: "a@b.c"}},
		{"empty", models.RegisterRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuthService(t)

			_, err := svc.RegisterUser(context.Background(), tt.req)

			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestAuthService_RegisterUser_AlreadyExists(t *testing.T) {
	svc, m := newTestAuthService(t)
	m.users.EXPECT().ExistsByUsernameOrEmail(gomock.Any(), "alice", "alice@example.com").Return(true, nil)

	_, err := svc.RegisterUser(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "p",
	})

	assert.ErrorIs(t, err, store.ErrUserAlreadyExists)
}

func TestAuthService_RegisterUser_InsertRace(t *testing.T) {
	svc, m := newTestAuthService(t)
	m.users.EXPECT().ExistsByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	m.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserAlreadyExists)

	_, err := svc.RegisterUser(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "p",
	})

	assert.ErrorIs(t, err, store.ErrUserAlreadyExists)
}

func TestAuthService_RegisterUser_ExistsCheckFails(t *testing.T) {
	svc, m := newTestAuthService(t)
	m.users.EXPECT().ExistsByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errDB)

	_, err := svc.RegisterUser(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "p",
	})

	assert.ErrorIs(t, err, errDB)
}

// ─────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────

func TestAuthService_Login(t *testing.T) {
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)
	stored := models.User{UserID: 5, Username: strPtr("bob"), Email: "bob@example.com", PasswordHash: &hash}

	tests := []struct {
		name     string
		req      models.LoginRequest
		found    models.User
		findErr  error
		wantErr  error
		wantUser int64
	}{
		{
			name:     "correct password",
			req:      models.LoginRequest{Email: "bob@example.com", Password: "s3cret"},
			found:    stored,
			wantUser: 5,
		},
		{
			name:    "wrong password",
			req:     models.LoginRequest{Email: "bob@example.com", Password: "nope"},
			found:   stored,
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "unknown email",
			req:     models.LoginRequest{Email: "ghost@example.com", Password: "s3cret"},
			findErr: store.ErrNoUserWasFound,
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "federated account without password",
			req:     models.LoginRequest{Email: "sso@example.com", Password: "s3cret"},
			found:   models.User{UserID: 6, Email: "sso@example.com"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "database failure",
			req:     models.LoginRequest{Email: "bob@example.com", Password: "s3cret"},
			findErr: errDB,
			wantErr: errDB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestAuthService(t)
			m.users.EXPECT().FindUserByEmail(gomock.Any(), tt.req.Email).Return(tt.found, tt.findErr)

			user, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, user.UserID)
		})
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "bob@example.com"})

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ─────────────────────────────────────────────
// FederatedLogin
// ─────────────────────────────────────────────

func TestAuthService_FederatedLogin_ExistingUser(t *testing.T) {
	svc, m := newTestAuthService(t)
	existing := models.User{UserID: 3, Username: strPtr("carol"), Email: "carol@example.com"}

	m.identity.EXPECT().Verify(gomock.Any(), "id-token").Return(models.Identity{Email: "carol@example.com"}, nil)
	m.users.EXPECT().FindUserByEmail(gomock.Any(), "carol@example.com").Return(existing, nil)

	user, err := svc.FederatedLogin(context.Background(), models.FederatedLoginRequest{Token: "id-token"})

	require.NoError(t, err)
	assert.Equal(t, existing, user)
}

func TestAuthService_FederatedLogin_CreatesUser(t *testing.T) {
	svc, m := newTestAuthService(t)

	m.identity.EXPECT().Verify(gomock.Any(), "id-token").Return(models.Identity{Email: "dave@example.com"}, nil)
	m.users.EXPECT().FindUserByEmail(gomock.Any(), "dave@example.com").Return(models.User{}, store.ErrNoUserWasFound)
	m.users.EXPECT().CreateUser(gomock.Any(), models.User{Email: "dave@example.com"}).
		Return(models.User{UserID: 9, Email: "dave@example.com"}, nil)

	user, err := svc.FederatedLogin(context.Background(), models.FederatedLoginRequest{Token: "id-token"})

	require.NoError(t, err)
	assert.Equal(t, int64(9), user.UserID)
	assert.Nil(t, user.Username)
	assert.False(t, user.HasPassword())
}

func TestAuthService_FederatedLogin_ConcurrentCreate(t *testing.T) {
	svc, m := newTestAuthService(t)

	m.identity.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(models.Identity{Email: "eve@example.com"}, nil)
	gomock.InOrder(
		m.users.EXPECT().FindUserByEmail(gomock.Any(), "eve@example.com").Return(models.User{}, store.ErrNoUserWasFound),
		m.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserAlreadyExists),
		m.users.EXPECT().FindUserByEmail(gomock.Any(), "eve@example.com").Return(models.User{UserID: 11, Email: "eve@example.com"}, nil),
	)

	user, err := svc.FederatedLogin(context.Background(), models.FederatedLoginRequest{Token: "tok"})

	require.NoError(t, err)
	assert.Equal(t, int64(11), user.UserID)
}

func TestAuthService_FederatedLogin_Errors(t *testing.T) {
	tests := []struct {
		name      string
		verifyErr error
	}{
		{"invalid identity", adapter.ErrInvalidIdentity},
		{"no email claim", adapter.ErrNoEmailClaim},
		{"provider unreachable", &adapter.ProviderError{Provider: "identity provider", Err: errDB}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestAuthService(t)
			m.identity.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(models.Identity{}, tt.verifyErr)

			_, err := svc.FederatedLogin(context.Background(), models.FederatedLoginRequest{Token: "tok"})

			assert.ErrorIs(t, err, tt.verifyErr)
		})
	}
}

func TestAuthService_FederatedLogin_MissingToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.FederatedLogin(context.Background(), models.FederatedLoginRequest{})

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrMissingToken)
}

// ─────────────────────────────────────────────
// Tokens
// ─────────────────────────────────────────────

func TestAuthService_CreateAndParseToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, models.User{UserID: 42, Email: "t@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)

	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, "t@example.com", parsed.Email)
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	svc, _ := newTestAuthService(t)

	foreign, err := utils.GenerateJWTToken("test-issuer", 1, "", time.Hour, "other-key")
	require.NoError(t, err)
	expired, err := utils.GenerateJWTToken("test-issuer", 1, "", -time.Minute, "test-sign-key")
	require.NoError(t, err)
	wrongIssuer, err := utils.GenerateJWTToken("someone-else", 1, "", time.Hour, "test-sign-key")
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":      "not-a-jwt",
		"foreign key":  foreign.SignedString,
		"expired":      expired.SignedString,
		"wrong issuer": wrongIssuer.SignedString,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(context.Background(), tok)
			assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
		})
	}
}

func TestAuthService_CreateToken_Misconfigured(t *testing.T) {
	svc := NewAuthService(nil, nil, validators.NewRequestValidator(), config.App{}, logger.Nop())

	_, err := svc.CreateToken(context.Background(), models.User{UserID: 1})

	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

func TestAuthService_GetUser(t *testing.T) {
	svc, m := newTestAuthService(t)
	m.users.EXPECT().FindUserByID(gomock.Any(), int64(7)).Return(models.User{UserID: 7}, nil)
	m.users.EXPECT().FindUserByID(gomock.Any(), int64(8)).Return(models.User{}, store.ErrNoUserWasFound)

	user, err := svc.GetUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.UserID)

	_, err = svc.GetUser(context.Background(), 8)
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}
