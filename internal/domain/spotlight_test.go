package domain

import (
	"context"
	"testing"
	"time"

	"github.com/chance-app/backend/internal/domain/spotlight"
	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/model"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/dateutil"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/testutil"
	"github.com/chance-app/backend/pkg/xcontext"
	"github.com/redis/go-redis/v9"

	"github.com/stretchr/testify/require"
)

func newTestSpotlightDomain(leaderboard spotlight.Leaderboard) SpotlightDomain {
	return NewSpotlightDomain(
		repository.NewUserRepository(),
		repository.NewProjectCompletionRepository(),
		repository.NewHeartbeatRepository(),
		leaderboard,
	)
}

func completeFixtureProject(t *testing.T, ctx context.Context, leaderboard spotlight.Leaderboard) {
	t.Helper()

	completionRepo := repository.NewProjectCompletionRepository()
	projectDomain := NewProjectDomain(
		repository.NewProjectRepository(),
		repository.NewProjectMemberRepository(),
		completionRepo,
		repository.NewUserRepository(),
		leaderboard,
	)

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := projectDomain.CompleteAndAward(adminCtx, &model.CompleteProjectRequest{
		ProjectID: testutil.Project1.ID,
		Awards: []model.ProjectAward{
			{UserID: testutil.User2.ID, Points: 50},
			{UserID: testutil.User3.ID, Points: 30},
		},
	})
	require.NoError(t, err)
}

func Test_spotlightDomain_GetRankings(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	completionRepo := repository.NewProjectCompletionRepository()
	leaderboard := spotlight.New(completionRepo, repository.NewUserRepository(), nil)
	completeFixtureProject(t, ctx, leaderboard)
	domain := newTestSpotlightDomain(leaderboard)

	resp, err := domain.GetRankings(ctx, &model.GetRankingsRequest{
		Timeframe: model.TimeframeAllTime,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Rankings, 2)

	require.Equal(t, testutil.User2.ID, resp.Rankings[0].User.ID)
	require.Equal(t, 50, resp.Rankings[0].Influence)
	require.Equal(t, 1, resp.Rankings[0].Rank)
	require.Equal(t, 1, resp.Rankings[0].CompletedProjects)
	require.Equal(t, 1, resp.Rankings[0].Heartbeats)

	require.Equal(t, testutil.User3.ID, resp.Rankings[1].User.ID)
	require.Equal(t, 30, resp.Rankings[1].Influence)
	require.Equal(t, 2, resp.Rankings[1].Rank)

	_, err = domain.GetRankings(ctx, &model.GetRankingsRequest{
		Timeframe: "fortnightly",
		Limit:     10,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid timeframe %s", "fortnightly"), err)
}

func Test_spotlightDomain_GetRankings_weekly(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	completionRepo := repository.NewProjectCompletionRepository()
	leaderboard := spotlight.New(completionRepo, repository.NewUserRepository(), nil)
	completeFixtureProject(t, ctx, leaderboard)
	domain := newTestSpotlightDomain(leaderboard)

	// Awards were granted just now, so they fall into the current week.
	resp, err := domain.GetRankings(ctx, &model.GetRankingsRequest{
		Timeframe: model.TimeframeWeekly,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Rankings, 2)
	require.Equal(t, testutil.User2.ID, resp.Rankings[0].User.ID)
}

func Test_spotlightDomain_GetRankings_lifetimeInfluence(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	completionRepo := repository.NewProjectCompletionRepository()
	userRepo := repository.NewUserRepository()
	leaderboard := spotlight.New(completionRepo, userRepo, nil)
	completeFixtureProject(t, ctx, leaderboard)
	domain := newTestSpotlightDomain(leaderboard)

	// Influence earned outside the completion records only shows up in
	// the all-time ranking, which reads the lifetime column.
	require.NoError(t, userRepo.IncreaseInfluence(ctx, testutil.User3.ID, 40))

	resp, err := domain.GetRankings(ctx, &model.GetRankingsRequest{
		Timeframe: model.TimeframeAllTime,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Rankings, 2)
	require.Equal(t, testutil.User3.ID, resp.Rankings[0].User.ID)
	require.Equal(t, 70, resp.Rankings[0].Influence)
	require.Equal(t, testutil.User2.ID, resp.Rankings[1].User.ID)

	// The weekly window still reflects only the awards inside it.
	weekly, err := domain.GetRankings(ctx, &model.GetRankingsRequest{
		Timeframe: model.TimeframeWeekly,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, weekly.Rankings[0].User.ID)
	require.Equal(t, 50, weekly.Rankings[0].Influence)
}

func Test_spotlightDomain_GetRankings_redisCache(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	// The leaderboard must rebuild the missing key from database, then
	// serve the ranking from redis.
	cache := map[string][]redis.Z{}
	redisClient := &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			_, ok := cache[key]
			return ok, nil
		},
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			cache[key] = append(cache[key], z)
			return nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			return cache[key], nil
		},
	}

	completionRepo := repository.NewProjectCompletionRepository()
	leaderboard := spotlight.New(completionRepo, repository.NewUserRepository(), redisClient)
	completeFixtureProject(t, ctx, leaderboard)
	domain := newTestSpotlightDomain(leaderboard)

	resp, err := domain.GetRankings(ctx, &model.GetRankingsRequest{
		Timeframe: model.TimeframeAllTime,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Rankings, 2)
	require.Equal(t, testutil.User2.ID, resp.Rankings[0].User.ID)
	require.Equal(t, 50, resp.Rankings[0].Influence)
}

func Test_spotlightDomain_GetRankings_staleWeekKey(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	cache := map[string][]redis.Z{}
	deleted := []string{}
	redisClient := &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			_, ok := cache[key]
			return ok, nil
		},
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			cache[key] = append(cache[key], z)
			return nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			return cache[key], nil
		},
		DelFunc: func(ctx context.Context, keys ...string) error {
			deleted = append(deleted, keys...)
			return nil
		},
	}

	completionRepo := repository.NewProjectCompletionRepository()
	leaderboard := spotlight.New(completionRepo, repository.NewUserRepository(), redisClient)
	completeFixtureProject(t, ctx, leaderboard)
	domain := newTestSpotlightDomain(leaderboard)

	// Rebuilding the weekly key drops the previous week's key, which will
	// never be served again.
	_, err := domain.GetRankings(ctx, &model.GetRankingsRequest{
		Timeframe: model.TimeframeWeekly,
		Limit:     10,
	})
	require.NoError(t, err)

	lastWeek := entity.NewSpotlightPeriodWeek(dateutil.LastWeek(time.Now()))
	require.Equal(t, []string{"spotlight:influence:" + lastWeek.Period()}, deleted)
}

func Test_spotlightDomain_GetUserProfile(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	completionRepo := repository.NewProjectCompletionRepository()
	leaderboard := spotlight.New(completionRepo, repository.NewUserRepository(), nil)
	completeFixtureProject(t, ctx, leaderboard)
	domain := newTestSpotlightDomain(leaderboard)

	resp, err := domain.GetUserProfile(ctx, &model.GetSpotlightProfileRequest{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, resp.Profile.User.ID)
	require.Equal(t, 50, resp.Profile.Influence)
	require.Equal(t, 1, resp.Profile.Rank)
	require.Equal(t, 1, resp.Profile.CompletedProjects)
	require.Equal(t, 1, resp.Profile.Heartbeats)

	_, err = domain.GetUserProfile(ctx, &model.GetSpotlightProfileRequest{UserID: "not-exist"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found user"), err)
}
