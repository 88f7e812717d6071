package main

import (
	"context"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bwmarrin/snowflake"
	"github.com/chance-app/backend/config"
	"github.com/chance-app/backend/internal/domain"
	"github.com/chance-app/backend/internal/domain/spotlight"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/migration"
	"github.com/chance-app/backend/pkg/authenticator"
	"github.com/chance-app/backend/pkg/logger"
	"github.com/chance-app/backend/pkg/router"
	"github.com/chance-app/backend/pkg/storage"
	"github.com/chance-app/backend/pkg/xcontext"
	"github.com/chance-app/backend/pkg/xredis"
	"github.com/gorilla/sessions"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs

	userRepo          repository.UserRepository
	oauth2Repo        repository.OAuth2Repository
	refreshTokenRepo  repository.RefreshTokenRepository
	projectRepo       repository.ProjectRepository
	projectMemberRepo repository.ProjectMemberRepository
	completionRepo    repository.ProjectCompletionRepository
	heartbeatRepo     repository.HeartbeatRepository
	commentRepo       repository.HeartbeatCommentRepository
	sharingLogRepo    repository.SharingLogRepository

	authDomain      domain.AuthDomain
	userDomain      domain.UserDomain
	projectDomain   domain.ProjectDomain
	heartbeatDomain domain.HeartbeatDomain
	spotlightDomain domain.SpotlightDomain

	fileStorage    storage.Storage
	redisClient    xredis.Client
	leaderboard    spotlight.Leaderboard
	oauth2Services []authenticator.IOAuth2Service

	router *router.Router
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	if path := cctx.String("config"); path != "" {
		if _, err := toml.DecodeFile(path, &s.configs); err != nil {
			return err
		}
	}

	// Secrets can always be overridden from environment, so the
	// configuration file never needs to contain them.
	s.configs.Env = getEnv("ENV", s.configs.Env)
	s.configs.Database.Password = getEnv("DATABASE_PASSWORD", s.configs.Database.Password)
	s.configs.Auth.TokenSecret = getEnv("TOKEN_SECRET", s.configs.Auth.TokenSecret)
	s.configs.Session.Secret = getEnv("SESSION_SECRET", s.configs.Session.Secret)
	s.configs.Storage.AccessKey = getEnv("STORAGE_ACCESS_KEY", s.configs.Storage.AccessKey)
	s.configs.Storage.SecretKey = getEnv("STORAGE_SECRET_KEY", s.configs.Storage.SecretKey)
	s.configs.Redis.Addr = getEnv("REDIS_ADDR", s.configs.Redis.Addr)

	if s.configs.ApiServer.DefaultLimit == 0 {
		s.configs.ApiServer.DefaultLimit = 20
	}

	if s.configs.ApiServer.MaxLimit == 0 {
		s.configs.ApiServer.MaxLimit = 50
	}

	if s.configs.Auth.AccessToken.Name == "" {
		s.configs.Auth.AccessToken.Name = "access_token"
	}

	if s.configs.Auth.AccessToken.Expiration == 0 {
		s.configs.Auth.AccessToken.Expiration = time.Hour
	}

	if s.configs.Auth.RefreshToken.Name == "" {
		s.configs.Auth.RefreshToken.Name = "refresh_token"
	}

	if s.configs.Auth.RefreshToken.Expiration == 0 {
		s.configs.Auth.RefreshToken.Expiration = 30 * 24 * time.Hour
	}

	if s.configs.File.MaxSize == 0 {
		s.configs.File.MaxSize = 2 << 20
	}

	s.ctx = xcontext.WithConfigs(context.Background(), s.configs)
	return nil
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" || s.configs.Env == "dev" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() error {
	logLevel := gormlogger.Warn
	switch s.configs.Database.LogLevel {
	case "silent":
		logLevel = gormlogger.Silent
	case "error":
		logLevel = gormlogger.Error
	case "info":
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) loadStorage() {
	s.fileStorage = storage.NewS3Storage(s.configs.Storage)
}

func (s *srv) loadRedis() {
	if s.configs.Redis.Addr == "" {
		return
	}

	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		// Spotlight rankings fall back to database queries when redis
		// is not reachable.
		xcontext.Logger(s.ctx).Warnf("Cannot connect to redis: %v", err)
		return
	}

	s.redisClient = redisClient
}

func (s *srv) loadAuthenticator() error {
	s.ctx = xcontext.WithTokenEngine(s.ctx,
		authenticator.NewTokenEngine(s.configs.Auth.TokenSecret))
	s.ctx = xcontext.WithSessionStore(s.ctx,
		sessions.NewCookieStore([]byte(s.configs.Session.Secret)))

	snowflakeNode, err := snowflake.NewNode(0)
	if err != nil {
		return err
	}
	s.ctx = xcontext.WithSnowFlake(s.ctx, snowflakeNode)

	if s.configs.Auth.Google.ClientID != "" {
		google, err := authenticator.NewOAuth2Service(s.ctx, s.configs.Auth.Google)
		if err != nil {
			return err
		}

		s.oauth2Services = append(s.oauth2Services, google)
	}

	return nil
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.oauth2Repo = repository.NewOAuth2Repository()
	s.refreshTokenRepo = repository.NewRefreshTokenRepository()
	s.projectRepo = repository.NewProjectRepository()
	s.projectMemberRepo = repository.NewProjectMemberRepository()
	s.completionRepo = repository.NewProjectCompletionRepository()
	s.heartbeatRepo = repository.NewHeartbeatRepository()
	s.commentRepo = repository.NewHeartbeatCommentRepository()
	s.sharingLogRepo = repository.NewSharingLogRepository()
}

func (s *srv) loadDomains() {
	s.leaderboard = spotlight.New(s.completionRepo, s.userRepo, s.redisClient)

	s.authDomain = domain.NewAuthDomain(
		s.userRepo, s.refreshTokenRepo, s.oauth2Repo, s.oauth2Services)
	s.userDomain = domain.NewUserDomain(
		s.userRepo, s.projectRepo, s.projectMemberRepo, s.heartbeatRepo, s.fileStorage)
	s.projectDomain = domain.NewProjectDomain(
		s.projectRepo, s.projectMemberRepo, s.completionRepo, s.userRepo, s.leaderboard)
	s.heartbeatDomain = domain.NewHeartbeatDomain(
		s.heartbeatRepo, s.commentRepo, s.sharingLogRepo, s.userRepo, s.fileStorage)
	s.spotlightDomain = domain.NewSpotlightDomain(
		s.userRepo, s.completionRepo, s.heartbeatRepo, s.leaderboard)
}

func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	s.loadLogger()
	if err := s.loadDatabase(); err != nil {
		return err
	}

	return migration.AutoMigrate(s.ctx)
}
