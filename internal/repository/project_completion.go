package repository

import (
	"context"
	"time"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/pkg/xcontext"
)

// UserInfluence is an aggregated influence score over a period of time.
type UserInfluence struct {
	UserID string
	Points int64
}

type CompletionStatisticFilter struct {
	Start time.Time
	End   time.Time
}

type ProjectCompletionRepository interface {
	Create(ctx context.Context, data *entity.ProjectCompletion) error
	CountByUserID(ctx context.Context, userID string) (int64, error)
	CountByUserIDs(ctx context.Context, userIDs []string) (map[string]int64, error)
	Statistic(ctx context.Context, filter CompletionStatisticFilter) ([]UserInfluence, error)
	DeleteByProjectID(ctx context.Context, projectID string) error
}

type projectCompletionRepository struct{}

func NewProjectCompletionRepository() *projectCompletionRepository {
	return &projectCompletionRepository{}
}

func (r *projectCompletionRepository) Create(ctx context.Context, data *entity.ProjectCompletion) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *projectCompletionRepository) DeleteByProjectID(ctx context.Context, projectID string) error {
	return xcontext.DB(ctx).Delete(&entity.ProjectCompletion{}, "project_id=?", projectID).Error
}

func (r *projectCompletionRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.ProjectCompletion{}).
		Where("user_id=?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *projectCompletionRepository) Statistic(
	ctx context.Context, filter CompletionStatisticFilter,
) ([]UserInfluence, error) {
	tx := xcontext.DB(ctx).Model(&entity.ProjectCompletion{}).
		Select("user_id, SUM(points) as points").
		Group("user_id").
		Order("points DESC")

	if !filter.Start.IsZero() {
		tx = tx.Where("created_at >= ? AND created_at < ?", filter.Start, filter.End)
	}

	var result []UserInfluence
	if err := tx.Scan(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *projectCompletionRepository) CountByUserIDs(
	ctx context.Context, userIDs []string,
) (map[string]int64, error) {
	if len(userIDs) == 0 {
		return map[string]int64{}, nil
	}

	var rows []struct {
		UserID string
		Count  int64
	}

	err := xcontext.DB(ctx).Model(&entity.ProjectCompletion{}).
		Select("user_id, COUNT(*) as count").
		Where("user_id IN (?)", userIDs).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := map[string]int64{}
	for _, row := range rows {
		result[row.UserID] = row.Count
	}

	return result, nil
}
