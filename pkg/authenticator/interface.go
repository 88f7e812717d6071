package authenticator

import (
	"context"
	"time"
)

// OAuth2User is the profile returned by an identity provider. The ID is
// namespaced with the service name so ids of different providers never
// collide.
type OAuth2User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

type IOAuth2Service interface {
	Service() string
	GetUserID(ctx context.Context, accessToken string) (OAuth2User, error)
	VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error)
}

type TokenEngine interface {
	Generate(expiration time.Duration, obj any) (string, error)
	Verify(token string, obj any) error
}
