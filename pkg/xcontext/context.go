package xcontext

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/chance-app/backend/config"
	"github.com/chance-app/backend/pkg/authenticator"
	"github.com/chance-app/backend/pkg/logger"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"
)

type (
	configsKey      struct{}
	loggerKey       struct{}
	dbKey           struct{}
	dbTxKey         struct{}
	tokenEngineKey  struct{}
	sessionStoreKey struct{}
	snowflakeKey    struct{}
	httpRequestKey  struct{}
	httpWriterKey   struct{}
	userIDKey       struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return ctx.Value(configsKey{}).(config.Configs)
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey{}).(logger.Logger); ok {
		return l
	}

	return logger.NewLogger(logger.INFO)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current database handle. If a transaction was started on
// this context with WithDBTransaction and is still in flight, the
// transaction is returned instead of the root handle.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(dbTxKey{}).(*dbTx); ok && !tx.done {
		return tx.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

type dbTx struct {
	tx   *gorm.DB
	done bool
}

func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, dbTxKey{}, &dbTx{tx: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) {
	if tx, ok := ctx.Value(dbTxKey{}).(*dbTx); ok && !tx.done {
		tx.tx.Commit()
		tx.done = true
	}
}

// WithRollbackDBTransaction is a no-op if the transaction has already been
// committed, so it is safe to defer right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) {
	if tx, ok := ctx.Value(dbTxKey{}).(*dbTx); ok && !tx.done {
		tx.tx.Rollback()
		tx.done = true
	}
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	return ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine)
}

func WithSessionStore(ctx context.Context, store sessions.Store) context.Context {
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

func SessionStore(ctx context.Context) sessions.Store {
	return ctx.Value(sessionStoreKey{}).(sessions.Store)
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	return ctx.Value(snowflakeKey{}).(*snowflake.Node)
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	return ctx.Value(httpRequestKey{}).(*http.Request)
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	return ctx.Value(httpWriterKey{}).(http.ResponseWriter)
}

func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// RequestUserID returns the authenticated user id of this request, or an
// empty string for anonymous requests.
func RequestUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}

	return ""
}
