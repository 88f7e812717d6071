package domain

import (
	"testing"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/model"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/testutil"
	"github.com/chance-app/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func newTestAuthDomain() AuthDomain {
	return NewAuthDomain(
		repository.NewUserRepository(),
		repository.NewRefreshTokenRepository(),
		repository.NewOAuth2Repository(),
		nil,
	)
}

func Test_authDomain_Signup(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestAuthDomain()

	resp, err := domain.Signup(ctx, &model.SignupRequest{
		Email:          "john@example.com",
		FirstName:      "John",
		LastName:       "Smith",
		WhatsappNumber: "+1 555 123 6789",
		Password:       "super-secret",
	})
	require.NoError(t, err)
	require.Equal(t, "johnsmith6789", resp.User.Username)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	var accessToken model.AccessToken
	err = xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &accessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, accessToken.ID)

	var result entity.User
	tx := xcontext.DB(ctx).Take(&result, "email", "john@example.com")
	require.NoError(t, tx.Error)
	require.Equal(t, "John", result.FirstName)
	require.NotEmpty(t, result.HashedPassword)
	require.NotEqual(t, "super-secret", result.HashedPassword)

	_, err = domain.Signup(ctx, &model.SignupRequest{
		Email:     "john@example.com",
		FirstName: "John",
		Password:  "super-secret",
	})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "This email has been registered before"), err)
}

func Test_authDomain_Signup_invalidRequest(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestAuthDomain()

	_, err := domain.Signup(ctx, &model.SignupRequest{
		Email:     "not-an-email",
		FirstName: "John",
		Password:  "super-secret",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid email address"), err)

	_, err = domain.Signup(ctx, &model.SignupRequest{
		Email:     "john@example.com",
		FirstName: "John",
		Password:  "short",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Password must contain at least 8 characters"), err)
}

func Test_authDomain_Signin(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestAuthDomain()

	_, err := domain.Signup(ctx, &model.SignupRequest{
		Email:     "john@example.com",
		FirstName: "John",
		Password:  "super-secret",
	})
	require.NoError(t, err)

	resp, err := domain.Signin(ctx, &model.SigninRequest{
		Email:    "john@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)
	require.Equal(t, "john@example.com", resp.User.Email)
	require.NotEmpty(t, resp.AccessToken)

	// Unknown emails and wrong passwords are indistinguishable.
	_, err = domain.Signin(ctx, &model.SigninRequest{
		Email:    "john@example.com",
		Password: "wrong-password",
	})
	require.Equal(t, errorx.New(errorx.Unauthenticated, "Invalid email or password"), err)

	_, err = domain.Signin(ctx, &model.SigninRequest{
		Email:    "nobody@example.com",
		Password: "super-secret",
	})
	require.Equal(t, errorx.New(errorx.Unauthenticated, "Invalid email or password"), err)
}

func Test_authDomain_Refresh(t *testing.T) {
	ctx := testutil.MockContext()
	domain := newTestAuthDomain()

	signupResp, err := domain.Signup(ctx, &model.SignupRequest{
		Email:     "john@example.com",
		FirstName: "John",
		Password:  "super-secret",
	})
	require.NoError(t, err)

	refreshResp, err := domain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: signupResp.RefreshToken,
	})
	require.NoError(t, err)
	require.NotEmpty(t, refreshResp.AccessToken)
	require.NotEqual(t, signupResp.RefreshToken, refreshResp.RefreshToken)

	// The old token is revoked after rotation.
	_, err = domain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: signupResp.RefreshToken,
	})
	require.Equal(t, errorx.New(errorx.TokenExpired, "Your refresh token is expired or revoked"), err)

	_, err = domain.Refresh(ctx, &model.RefreshTokenRequest{
		RefreshToken: refreshResp.RefreshToken,
	})
	require.NoError(t, err)
}
