package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/chance-app/backend/config"
	"github.com/chance-app/backend/migration"
	"github.com/chance-app/backend/pkg/authenticator"
	"github.com/chance-app/backend/pkg/logger"
	"github.com/chance-app/backend/pkg/xcontext"
	"github.com/gorilla/sessions"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		ApiServer: config.ServerConfigs{
			PublicURL:    "http://localhost:8080",
			MaxLimit:     50,
			DefaultLimit: 1,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "auth_session",
		},
		File: config.FileConfigs{
			MaxSize: 2 << 20,
		},
	}

	snowflakeNode, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	ctx = xcontext.WithSnowFlake(ctx, snowflakeNode)
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
