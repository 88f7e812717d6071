package spotlight

import (
	"context"
	"time"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/dateutil"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/xcontext"
	"github.com/chance-app/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

// UserScore is one row of the influence leaderboard.
type UserScore struct {
	UserID    string
	Influence int
	Rank      int
}

type Leaderboard interface {
	GetSpotlight(ctx context.Context, period entity.SpotlightPeriodType, offset, limit int) ([]UserScore, error)
	GetRank(ctx context.Context, userID string, period entity.SpotlightPeriodType) (uint64, error)
	ChangeInfluence(ctx context.Context, userID string, value int64, awardedAt time.Time) error
}

type leaderboard struct {
	completionRepo repository.ProjectCompletionRepository
	userRepo       repository.UserRepository
	redisClient    xredis.Client
}

func New(
	completionRepo repository.ProjectCompletionRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{
		completionRepo: completionRepo,
		userRepo:       userRepo,
		redisClient:    redisClient,
	}
}

func (l *leaderboard) GetSpotlight(
	ctx context.Context, period entity.SpotlightPeriodType, offset, limit int,
) ([]UserScore, error) {
	if l.redisClient == nil {
		return l.getSpotlightFromDB(ctx, period, offset, limit)
	}

	key := redisKeySpotlight(period)
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot call exist redis, fallback to database: %v", err)
		return l.getSpotlightFromDB(ctx, period, offset, limit)
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		if err := l.loadSpotlightFromDB(ctx, period); err != nil {
			return nil, err
		}
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	spotlight := []UserScore{}
	for i, z := range results {
		spotlight = append(spotlight, UserScore{
			UserID:    z.Member.(string),
			Influence: int(z.Score),
			Rank:      offset + i + 1,
		})
	}

	return spotlight, nil
}

func (l *leaderboard) GetRank(
	ctx context.Context, userID string, period entity.SpotlightPeriodType,
) (uint64, error) {
	if l.redisClient == nil {
		return l.getRankFromDB(ctx, userID, period)
	}

	key := redisKeySpotlight(period)
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot call exist redis, fallback to database: %v", err)
		return l.getRankFromDB(ctx, userID, period)
	}

	if !ok {
		if err := l.loadSpotlightFromDB(ctx, period); err != nil {
			return 0, err
		}
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		return 0, nil
	}

	return rank + 1, nil
}

// ChangeInfluence updates the cached scores of every period containing
// awardedAt. Periods not yet cached are skipped, they will be rebuilt from
// database on the next read.
func (l *leaderboard) ChangeInfluence(
	ctx context.Context, userID string, value int64, awardedAt time.Time,
) error {
	if l.redisClient == nil {
		return nil
	}

	periods := []entity.SpotlightPeriodType{
		entity.NewSpotlightPeriodWeek(awardedAt),
		entity.NewSpotlightPeriodMonth(awardedAt),
		entity.NewSpotlightPeriodAllTime(),
	}

	for _, period := range periods {
		key := redisKeySpotlight(period)
		ok, err := l.redisClient.Exist(ctx, key)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot call exist redis: %v", err)
			return err
		}

		if !ok {
			continue
		}

		if err := l.redisClient.ZIncrBy(ctx, key, value, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
			return err
		}
	}

	return nil
}

// periodScores returns the ordered influence scores of a period. The
// all-time ranking reads the lifetime influence column of users, rolling
// periods re-derive it from the completion awards inside the window.
func (l *leaderboard) periodScores(
	ctx context.Context, period entity.SpotlightPeriodType,
) ([]repository.UserInfluence, error) {
	if _, ok := period.(entity.SpotlightPeriodAllTime); ok {
		users, err := l.userRepo.GetTopByInfluence(ctx, 0)
		if err != nil {
			return nil, err
		}

		scores := make([]repository.UserInfluence, 0, len(users))
		for _, user := range users {
			scores = append(scores, repository.UserInfluence{
				UserID: user.ID,
				Points: int64(user.Influence),
			})
		}

		return scores, nil
	}

	return l.completionRepo.Statistic(ctx, repository.CompletionStatisticFilter{
		Start: period.Start(),
		End:   period.End(),
	})
}

func (l *leaderboard) loadSpotlightFromDB(ctx context.Context, period entity.SpotlightPeriodType) error {
	scores, err := l.periodScores(ctx, period)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load spotlight statistic: %v", err)
		return errorx.Unknown
	}

	key := redisKeySpotlight(period)
	for _, score := range scores {
		z := redis.Z{Member: score.UserID, Score: float64(score.Points)}
		if err := l.redisClient.ZAdd(ctx, key, z); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call ZAdd redis: %v", err)
			return errorx.Unknown
		}
	}

	// A rebuild means the period rolled over, the previous period key
	// will never be served again.
	var staleKey string
	switch period.(type) {
	case entity.SpotlightPeriodWeek:
		staleKey = redisKeySpotlight(entity.NewSpotlightPeriodWeek(dateutil.LastWeek(time.Now())))
	case entity.SpotlightPeriodMonth:
		staleKey = redisKeySpotlight(entity.NewSpotlightPeriodMonth(dateutil.LastMonth(time.Now())))
	}

	if staleKey != "" && staleKey != key {
		if err := l.redisClient.Del(ctx, staleKey); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot delete stale spotlight key %s: %v", staleKey, err)
		}
	}

	return nil
}

func (l *leaderboard) getSpotlightFromDB(
	ctx context.Context, period entity.SpotlightPeriodType, offset, limit int,
) ([]UserScore, error) {
	scores, err := l.periodScores(ctx, period)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load spotlight statistic: %v", err)
		return nil, errorx.Unknown
	}

	spotlight := []UserScore{}
	for i := offset; i < len(scores) && i < offset+limit; i++ {
		spotlight = append(spotlight, UserScore{
			UserID:    scores[i].UserID,
			Influence: int(scores[i].Points),
			Rank:      i + 1,
		})
	}

	return spotlight, nil
}

func (l *leaderboard) getRankFromDB(
	ctx context.Context, userID string, period entity.SpotlightPeriodType,
) (uint64, error) {
	scores, err := l.periodScores(ctx, period)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load spotlight statistic: %v", err)
		return 0, errorx.Unknown
	}

	for i, score := range scores {
		if score.UserID == userID {
			return uint64(i + 1), nil
		}
	}

	return 0, nil
}
