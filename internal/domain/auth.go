package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/model"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/authenticator"
	"github.com/chance-app/backend/pkg/crypto"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Signup(context.Context, *model.SignupRequest) (*model.SignupResponse, error)
	Signin(context.Context, *model.SigninRequest) (*model.SigninResponse, error)
	OAuth2Verify(context.Context, *model.OAuth2VerifyRequest) (*model.OAuth2VerifyResponse, error)
	Refresh(context.Context, *model.RefreshTokenRequest) (*model.RefreshTokenResponse, error)
}

type authDomain struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	oauth2Repo       repository.OAuth2Repository
	oauth2Services   []authenticator.IOAuth2Service
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	oauth2Repo repository.OAuth2Repository,
	oauth2Services []authenticator.IOAuth2Service,
) AuthDomain {
	return &authDomain{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		oauth2Repo:       oauth2Repo,
		oauth2Services:   oauth2Services,
	}
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func (d *authDomain) Signup(
	ctx context.Context, req *model.SignupRequest,
) (*model.SignupResponse, error) {
	if !emailRegex.MatchString(req.Email) {
		return nil, errorx.New(errorx.BadRequest, "Invalid email address")
	}

	if req.FirstName == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty first name")
	}

	if len(req.Password) < 8 {
		return nil, errorx.New(errorx.BadRequest, "Password must contain at least 8 characters")
	}

	_, err := d.userRepo.GetByEmail(ctx, req.Email)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.AlreadyExists, "This email has been registered before")
	}

	hashedPassword, err := crypto.HashPassword(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	username, err := d.generateUsername(ctx, req.FirstName, req.LastName, req.WhatsappNumber)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Base:           entity.Base{ID: uuid.NewString()},
		Email:          req.Email,
		Username:       username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		WhatsappNumber: req.WhatsappNumber,
		HashedPassword: hashedPassword,
		Role:           entity.RoleUser,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	accessToken, refreshToken, err := d.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.SignupResponse{
		User:         model.ConvertUser(user, true),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (d *authDomain) Signin(
	ctx context.Context, req *model.SigninRequest,
) (*model.SigninResponse, error) {
	user, err := d.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	if user.HashedPassword == "" || !crypto.ComparePassword(user.HashedPassword, req.Password) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
	}

	accessToken, refreshToken, err := d.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.SigninResponse{
		User:         model.ConvertUser(user, true),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (d *authDomain) OAuth2Verify(
	ctx context.Context, req *model.OAuth2VerifyRequest,
) (*model.OAuth2VerifyResponse, error) {
	service, ok := d.getOAuth2Service(req.Type)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Unsupported type %s", req.Type)
	}

	var serviceUser authenticator.OAuth2User
	var err error
	var oauth2Method string
	if req.AccessToken != "" {
		oauth2Method = "access token"
		serviceUser, err = service.GetUserID(ctx, req.AccessToken)
	} else if req.IDToken != "" {
		oauth2Method = "id token"
		serviceUser, err = service.VerifyIDToken(ctx, req.IDToken)
	}

	if oauth2Method == "" {
		return nil, errorx.New(errorx.BadRequest, "Please provide at least one method to authorize")
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot verify %s: %v", oauth2Method, err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByServiceUserID(ctx, service.Service(), serviceUser.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user by service user id: %v", err)
			return nil, errorx.Unknown
		}

		user, err = d.createOAuth2User(ctx, service, serviceUser)
		if err != nil {
			return nil, err
		}
	}

	accessToken, refreshToken, err := d.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.OAuth2VerifyResponse{
		User:         model.ConvertUser(user, true),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (d *authDomain) Refresh(
	ctx context.Context, req *model.RefreshTokenRequest,
) (*model.RefreshTokenResponse, error) {
	hashedToken := crypto.SHA256([]byte(req.RefreshToken))
	storageToken, err := d.refreshTokenRepo.Get(ctx, hashedToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.TokenExpired, "Your refresh token is expired or revoked")
		}

		xcontext.Logger(ctx).Errorf("Cannot get refresh token: %v", err)
		return nil, errorx.Unknown
	}

	if storageToken.Expiration.Before(time.Now()) {
		return nil, errorx.New(errorx.TokenExpired, "Your refresh token is expired")
	}

	user, err := d.userRepo.GetByID(ctx, storageToken.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	// Rotate the refresh token. The delete and create queries are
	// independent, no transaction here.
	if err := d.refreshTokenRepo.Delete(ctx, hashedToken); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete refresh token: %v", err)
		return nil, errorx.Unknown
	}

	accessToken, refreshToken, err := d.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (d *authDomain) getOAuth2Service(service string) (authenticator.IOAuth2Service, bool) {
	for i := range d.oauth2Services {
		if d.oauth2Services[i].Service() == service {
			return d.oauth2Services[i], true
		}
	}
	return nil, false
}

func (d *authDomain) createOAuth2User(
	ctx context.Context, service authenticator.IOAuth2Service, serviceUser authenticator.OAuth2User,
) (*entity.User, error) {
	if serviceUser.Email != "" {
		_, err := d.userRepo.GetByEmail(ctx, serviceUser.Email)
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
				return nil, errorx.Unknown
			}

			return nil, errorx.New(errorx.AlreadyExists,
				"This email has been registered with another method")
		}
	}

	username, err := d.generateUsername(ctx, serviceUser.FirstName, serviceUser.LastName, "")
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Base:       entity.Base{ID: uuid.NewString()},
		Email:      serviceUser.Email,
		Username:   username,
		FirstName:  serviceUser.FirstName,
		LastName:   serviceUser.LastName,
		Role:       entity.RoleUser,
		IsVerified: true,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	err = d.oauth2Repo.Create(ctx, &entity.OAuth2{
		UserID:        user.ID,
		Service:       service.Service(),
		ServiceUserID: serviceUser.ID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot link user with %s: %v", service.Service(), err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return user, nil
}

// generateUsername derives a username from the user's name and the last
// four digits of their whatsapp number. If the result is taken, a random
// suffix is appended until a free one is found.
func (d *authDomain) generateUsername(ctx context.Context, firstName, lastName, phone string) (string, error) {
	origin := sanitizeUsername(firstName + lastName)
	if origin == "" {
		origin = "user"
	}

	if digits := phoneDigits(phone); len(digits) >= 4 {
		origin = origin + digits[len(digits)-4:]
	} else {
		origin = origin + fmt.Sprintf("%04d", crypto.RandIntn(10000))
	}

	username := origin
	power := 2
	for {
		count, err := d.userRepo.CountByUsername(ctx, username)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check username: %v", err)
			return "", errorx.Unknown
		}

		if count == 0 {
			return username, nil
		}

		suffix := crypto.RandIntn(int(math.Pow10(power)))
		username = fmt.Sprintf("%s_%s", origin, strconv.Itoa(suffix))
		power++
	}
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func (d *authDomain) generateTokens(ctx context.Context, user *entity.User) (string, string, error) {
	accessToken, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.AccessToken.Expiration,
		model.AccessToken{
			ID:       user.ID,
			Username: user.Username,
			Role:     string(user.Role),
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return "", "", errorx.Unknown
	}

	refreshToken, err := crypto.GenerateRandomString()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate refresh token: %v", err)
		return "", "", errorx.Unknown
	}

	err = d.refreshTokenRepo.Create(ctx, &entity.RefreshToken{
		ID:         crypto.SHA256([]byte(refreshToken)),
		UserID:     user.ID,
		Expiration: time.Now().Add(xcontext.Configs(ctx).Auth.RefreshToken.Expiration),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store refresh token: %v", err)
		return "", "", errorx.Unknown
	}

	return accessToken, refreshToken, nil
}
