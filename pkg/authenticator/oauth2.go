package authenticator

import (
	"context"
	"fmt"

	"github.com/chance-app/backend/config"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

type oauth2Service struct {
	provider *oidc.Provider

	name     string
	clientID string
	idField  string
}

func NewOAuth2Service(ctx context.Context, cfg config.OAuth2Config) (IOAuth2Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	return &oauth2Service{
		provider: provider,
		name:     cfg.Name,
		clientID: cfg.ClientID,
		idField:  cfg.IDField,
	}, nil
}

func (s *oauth2Service) Service() string {
	return s.name
}

func (s *oauth2Service) GetUserID(ctx context.Context, accessToken string) (OAuth2User, error) {
	userInfo, err := s.provider.UserInfo(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"},
	))
	if err != nil {
		return OAuth2User{}, err
	}

	var profile map[string]any
	if err := userInfo.Claims(&profile); err != nil {
		return OAuth2User{}, err
	}

	return s.userFromProfile(profile)
}

// VerifyIDToken verifies the raw id token issued by the provider and extracts
// the user profile from its claims.
func (s *oauth2Service) VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error) {
	idToken, err := s.provider.Verifier(&oidc.Config{ClientID: s.clientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return OAuth2User{}, err
	}

	var profile map[string]any
	if err := idToken.Claims(&profile); err != nil {
		return OAuth2User{}, err
	}

	return s.userFromProfile(profile)
}

func (s *oauth2Service) userFromProfile(profile map[string]any) (OAuth2User, error) {
	id, ok := profile[s.idField].(string)
	if !ok {
		return OAuth2User{}, fmt.Errorf("invalid id field %s", s.idField)
	}

	email, _ := profile["email"].(string)
	firstName, _ := profile["given_name"].(string)
	lastName, _ := profile["family_name"].(string)

	return OAuth2User{
		ID:        fmt.Sprintf("%s_%s", s.name, id),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}, nil
}
