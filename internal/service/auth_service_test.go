package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/service"
	"github.com/dom/kanban-board/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "testpassword123"

func loginFor(user *domain.User) service.LoginInput {
	return service.LoginInput{Email: user.Email, Password: testPassword}
}

// latestCode reads the newest verification code issued for email.
func latestCode(t *testing.T, env *testutil.Env, email string) string {
	t.Helper()
	var v domain.UserVerification
	require.NoError(t, env.DB.DB.Where("email = ?", email).Order("id DESC").First(&v).Error)
	return v.Code
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestAuthService_Register(t *testing.T) {
	env := testutil.NewEnv(t)
	s := env.Services
	ctx := context.Background()

	const email = "ada@example.com"
	require.NoError(t, s.Verification.GenerateAndSaveVerifyCode(ctx, "Ada@Example.com"))
	code := latestCode(t, env, email)

	mails := env.Mails()
	require.Len(t, mails, 1)
	assert.Equal(t, email, mails[0].To)
	assert.Contains(t, mails[0].HTMLBody, code)

	input := service.RegisterInput{FullName: "Ada Lovelace", Email: email, Password: "short", Code: code}
	_, err := s.Auth.Register(ctx, input)
	assert.ErrorIs(t, err, domain.ErrWeakPassword)

	input.Password = "correct horse"
	input.Code = wrongCode(code)
	_, err = s.Auth.Register(ctx, input)
	assert.ErrorIs(t, err, domain.ErrInvalidVerifyCode)

	// A wrong guess leaves the code usable.
	input.Code = code
	result, err := s.Auth.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, email, result.User.Email)
	assert.NotEmpty(t, result.AccessToken)

	_, err = s.Auth.Register(ctx, input)
	assert.ErrorIs(t, err, domain.ErrEmailExists)

	login, err := s.Auth.Login(ctx, service.LoginInput{Email: "ADA@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)
}

func TestAuthService_Login(t *testing.T) {
	env := testutil.NewEnv(t)
	auth := env.Services.Auth
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().Build(t, env.DB.DB)
	inactive, _ := testutil.NewUserBuilder().Inactive().Build(t, env.DB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{name: "valid", input: service.LoginInput{Email: user.Email, Password: password}},
		{name: "wrong password", input: service.LoginInput{Email: user.Email, Password: "nope-nope"}, wantErr: domain.ErrInvalidCredentials},
		{name: "unknown email", input: service.LoginInput{Email: "ghost@example.com", Password: password}, wantErr: domain.ErrInvalidCredentials},
		{name: "inactive account", input: service.LoginInput{Email: inactive.Email, Password: password}, wantErr: domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := auth.Login(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			claims, err := auth.ValidateToken(result.AccessToken)
			require.NoError(t, err)
			id, err := claims.UserID()
			require.NoError(t, err)
			assert.Equal(t, user.ID, id)
			assert.Equal(t, user.SecurityStamp, claims.Stamp)
		})
	}
}

func TestAuthService_TokenExpiry(t *testing.T) {
	env := testutil.NewEnv(t)
	auth := env.Services.Auth

	user, password := testutil.NewUserBuilder().Build(t, env.DB.DB)
	result, err := auth.Login(context.Background(), service.LoginInput{Email: user.Email, Password: password})
	require.NoError(t, err)

	env.Clock.Advance(time.Duration(env.Config.JWTExpirationHours)*time.Hour + time.Second)
	_, err = auth.ValidateToken(result.AccessToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestAuthService_ChangePasswordRevokesSessions(t *testing.T) {
	env := testutil.NewEnv(t)
	s := env.Services
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().Build(t, env.DB.DB)
	old, err := s.Auth.Login(ctx, service.LoginInput{Email: user.Email, Password: password})
	require.NoError(t, err)
	oldClaims, err := s.Auth.ValidateToken(old.AccessToken)
	require.NoError(t, err)
	require.True(t, s.Session.Validate(ctx, user.ID, oldClaims.Stamp))

	_, err = s.Auth.ChangePassword(ctx, user.ID, "wrong-password", "brand new secret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	fresh, err := s.Auth.ChangePassword(ctx, user.ID, password, "brand new secret")
	require.NoError(t, err)

	// The cached stamp is dropped, so the old token fails without waiting for the TTL.
	assert.False(t, s.Session.Validate(ctx, user.ID, oldClaims.Stamp))

	freshClaims, err := s.Auth.ValidateToken(fresh.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, oldClaims.Stamp, freshClaims.Stamp)
	assert.True(t, s.Session.Validate(ctx, user.ID, freshClaims.Stamp))

	_, err = s.Auth.Login(ctx, service.LoginInput{Email: user.Email, Password: password})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = s.Auth.Login(ctx, service.LoginInput{Email: user.Email, Password: "brand new secret"})
	require.NoError(t, err)
}
