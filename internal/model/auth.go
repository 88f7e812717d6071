package model

import (
	"context"
	"net/http"
	"time"

	"github.com/chance-app/backend/pkg/xcontext"
)

// AccessToken is the object embedded in every issued JWT access token.
type AccessToken struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type SignupRequest struct {
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	WhatsappNumber string `json:"whatsapp_number"`
	Password       string `json:"password"`
}

type SignupResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r SignupResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return tokenCookies(ctx, r.AccessToken, r.RefreshToken)
}

func (r SignupResponse) SessionInfo() map[string]any {
	return map[string]any{"user_id": r.User.ID}
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r SigninResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return tokenCookies(ctx, r.AccessToken, r.RefreshToken)
}

func (r SigninResponse) SessionInfo() map[string]any {
	return map[string]any{"user_id": r.User.ID}
}

type OAuth2VerifyRequest struct {
	Type string `json:"type"`

	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

type OAuth2VerifyResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r OAuth2VerifyResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return tokenCookies(ctx, r.AccessToken, r.RefreshToken)
}

func (r OAuth2VerifyResponse) SessionInfo() map[string]any {
	return map[string]any{"user_id": r.User.ID}
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshTokenResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return tokenCookies(ctx, r.AccessToken, r.RefreshToken)
}

func tokenCookies(ctx context.Context, accessToken, refreshToken string) []http.Cookie {
	cfg := xcontext.Configs(ctx).Auth
	return []http.Cookie{
		{
			Name:     cfg.AccessToken.Name,
			Value:    accessToken,
			Path:     "/",
			Expires:  time.Now().Add(cfg.AccessToken.Expiration),
			Secure:   true,
			HttpOnly: false,
		},
		{
			Name:     cfg.RefreshToken.Name,
			Value:    refreshToken,
			Path:     "/",
			Expires:  time.Now().Add(cfg.RefreshToken.Expiration),
			Secure:   true,
			HttpOnly: false,
		},
	}
}
