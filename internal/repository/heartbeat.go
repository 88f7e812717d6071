package repository

import (
	"context"
	"errors"
	"time"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HeartbeatFilter selects a page of heartbeats, newest first. Before is
// the created_at of the last heartbeat of the previous page; the zero
// value returns the first page. An empty Visibility returns heartbeats
// of every visibility.
type HeartbeatFilter struct {
	UserID     string
	Visibility entity.VisibilityType
	Limit      int
	Before     time.Time
}

type HeartbeatRepository interface {
	Create(ctx context.Context, data *entity.Heartbeat) error
	GetByID(ctx context.Context, id string) (*entity.Heartbeat, error)
	GetList(ctx context.Context, filter HeartbeatFilter) ([]entity.Heartbeat, error)
	DeleteByID(ctx context.Context, id string) error
	CreateLike(ctx context.Context, data *entity.HeartbeatLike) (bool, error)
	DeleteLike(ctx context.Context, heartbeatID, userID string) (bool, error)
	DeleteLikesByHeartbeatID(ctx context.Context, heartbeatID string) error
	ChangeLikes(ctx context.Context, id string, delta int) error
	ChangeComments(ctx context.Context, id string, delta int) error
	CountByUserID(ctx context.Context, userID string) (int64, error)
	CountByUserIDs(ctx context.Context, userIDs []string) (map[string]int64, error)
}

type heartbeatRepository struct{}

func NewHeartbeatRepository() *heartbeatRepository {
	return &heartbeatRepository{}
}

func (r *heartbeatRepository) Create(ctx context.Context, data *entity.Heartbeat) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *heartbeatRepository) GetByID(ctx context.Context, id string) (*entity.Heartbeat, error) {
	var result entity.Heartbeat
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *heartbeatRepository) GetList(ctx context.Context, filter HeartbeatFilter) ([]entity.Heartbeat, error) {
	tx := xcontext.DB(ctx).Model(&entity.Heartbeat{}).
		Order("created_at DESC").
		Limit(filter.Limit)

	if filter.UserID != "" {
		tx = tx.Where("user_id=?", filter.UserID)
	}

	if filter.Visibility != "" {
		tx = tx.Where("visibility=?", filter.Visibility)
	}

	if !filter.Before.IsZero() {
		tx = tx.Where("created_at < ?", filter.Before)
	}

	var result []entity.Heartbeat
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *heartbeatRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Heartbeat{}, "id=?", id).Error
}

// CreateLike inserts a like row, doing nothing if the user already liked
// the heartbeat. It reports whether a new row was inserted.
func (r *heartbeatRepository) CreateLike(ctx context.Context, data *entity.HeartbeatLike) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

// DeleteLike removes a like row. It reports whether a row was removed.
func (r *heartbeatRepository) DeleteLike(ctx context.Context, heartbeatID, userID string) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("heartbeat_id=? AND user_id=?", heartbeatID, userID).
		Delete(&entity.HeartbeatLike{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *heartbeatRepository) ChangeLikes(ctx context.Context, id string, delta int) error {
	return r.changeCounter(ctx, id, "likes", delta)
}

func (r *heartbeatRepository) ChangeComments(ctx context.Context, id string, delta int) error {
	return r.changeCounter(ctx, id, "comments", delta)
}

func (r *heartbeatRepository) DeleteLikesByHeartbeatID(ctx context.Context, heartbeatID string) error {
	return xcontext.DB(ctx).Delete(&entity.HeartbeatLike{}, "heartbeat_id=?", heartbeatID).Error
}

func (r *heartbeatRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Heartbeat{}).
		Where("user_id=?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *heartbeatRepository) CountByUserIDs(
	ctx context.Context, userIDs []string,
) (map[string]int64, error) {
	if len(userIDs) == 0 {
		return map[string]int64{}, nil
	}

	var rows []struct {
		UserID string
		Count  int64
	}

	err := xcontext.DB(ctx).Model(&entity.Heartbeat{}).
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

func (r *heartbeatRepository) changeCounter(ctx context.Context, id, column string, delta int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Heartbeat{}).
		Where("id=?", id).
		Update(column, gorm.Expr(column+"+?", delta))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of rows effected is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
