package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/chance-app/backend/internal/model"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/router"
	"github.com/chance-app/backend/pkg/xcontext"
	"github.com/golang-jwt/jwt/v4"
)

// AuthVerifier resolves the access token of a request into a user id. By
// default an invalid or missing token rejects the request; WithOptional
// lets anonymous requests through with an empty user id instead.
type AuthVerifier struct {
	optional bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithOptional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := getAccessToken(ctx)
		if token == "" {
			if userID := getSessionUserID(ctx); userID != "" {
				return xcontext.WithRequestUserID(ctx, userID), nil
			}

			if a.optional {
				return nil, nil
			}

			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, errorx.New(errorx.TokenExpired, "Your token is expired")
			}

			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func getAccessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if authHeader := req.Header.Get("Authorization"); authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}

func getSessionUserID(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	session, err := xcontext.SessionStore(ctx).Get(req, xcontext.Configs(ctx).Session.Name)
	if err != nil {
		return ""
	}

	userID, ok := session.Values["user_id"].(string)
	if !ok {
		return ""
	}

	return userID
}
