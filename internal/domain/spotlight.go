package domain

import (
	"context"
	"errors"

	"github.com/chance-app/backend/internal/domain/spotlight"
	"github.com/chance-app/backend/internal/model"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type SpotlightDomain interface {
	GetRankings(context.Context, *model.GetRankingsRequest) (*model.GetRankingsResponse, error)
	GetUserProfile(context.Context, *model.GetSpotlightProfileRequest) (*model.GetSpotlightProfileResponse, error)
}

type spotlightDomain struct {
	userRepo       repository.UserRepository
	completionRepo repository.ProjectCompletionRepository
	heartbeatRepo  repository.HeartbeatRepository
	leaderboard    spotlight.Leaderboard
}

func NewSpotlightDomain(
	userRepo repository.UserRepository,
	completionRepo repository.ProjectCompletionRepository,
	heartbeatRepo repository.HeartbeatRepository,
	leaderboard spotlight.Leaderboard,
) SpotlightDomain {
	return &spotlightDomain{
		userRepo:       userRepo,
		completionRepo: completionRepo,
		heartbeatRepo:  heartbeatRepo,
		leaderboard:    leaderboard,
	}
}

func (d *spotlightDomain) GetRankings(
	ctx context.Context, req *model.GetRankingsRequest,
) (*model.GetRankingsResponse, error) {
	limit, err := checkPaginationLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	period, err := spotlight.ToPeriod(req.Timeframe)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid timeframe: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid timeframe %s", req.Timeframe)
	}

	scores, err := d.leaderboard.GetSpotlight(ctx, period, 0, limit)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(scores))
	for _, s := range scores {
		userIDs = append(userIDs, s.UserID)
	}

	users, err := usersByID(ctx, d.userRepo, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get spotlight users: %v", err)
		return nil, errorx.Unknown
	}

	completions, err := d.completionRepo.CountByUserIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count completions: %v", err)
		return nil, errorx.Unknown
	}

	heartbeats, err := d.heartbeatRepo.CountByUserIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count heartbeats: %v", err)
		return nil, errorx.Unknown
	}

	rankings := make([]model.SpotlightUser, 0, len(scores))
	for _, s := range scores {
		user, ok := users[s.UserID]
		if !ok {
			continue
		}

		rankings = append(rankings, model.SpotlightUser{
			User:              model.ConvertShortUser(&user),
			CreatedAt:         user.CreatedAt.Format(model.DefaultTimeLayout),
			Influence:         s.Influence,
			Rank:              s.Rank,
			CompletedProjects: int(completions[s.UserID]),
			Heartbeats:        int(heartbeats[s.UserID]),
		})
	}

	return &model.GetRankingsResponse{Rankings: rankings}, nil
}

func (d *spotlightDomain) GetUserProfile(
	ctx context.Context, req *model.GetSpotlightProfileRequest,
) (*model.GetSpotlightProfileResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	period, err := spotlight.ToPeriod(model.TimeframeAllTime)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid timeframe: %v", err)
		return nil, errorx.Unknown
	}

	rank, err := d.leaderboard.GetRank(ctx, user.ID, period)
	if err != nil {
		return nil, err
	}

	completedProjects, err := d.completionRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count completions: %v", err)
		return nil, errorx.Unknown
	}

	heartbeats, err := d.heartbeatRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count heartbeats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetSpotlightProfileResponse{
		Profile: model.SpotlightUser{
			User:              model.ConvertShortUser(user),
			CreatedAt:         user.CreatedAt.Format(model.DefaultTimeLayout),
			Influence:         user.Influence,
			Rank:              int(rank),
			CompletedProjects: int(completedProjects),
			Heartbeats:        int(heartbeats),
		},
	}, nil
}
