package migration

import (
	"context"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/pkg/xcontext"
)

// AutoMigrate creates or updates every table of the application. It is run
// at startup and by the test fixtures.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.OAuth2{},
		&entity.RefreshToken{},
		&entity.Project{},
		&entity.ProjectMember{},
		&entity.ProjectVote{},
		&entity.ProjectCompletion{},
		&entity.Heartbeat{},
		&entity.HeartbeatLike{},
		&entity.HeartbeatComment{},
		&entity.CommentLike{},
		&entity.SharingLog{},
	)
}
