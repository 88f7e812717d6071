package repository

import (
	"context"
	"errors"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HeartbeatCommentRepository interface {
	Create(ctx context.Context, data *entity.HeartbeatComment) error
	GetByID(ctx context.Context, id string) (*entity.HeartbeatComment, error)
	GetListByHeartbeatID(ctx context.Context, heartbeatID string) ([]entity.HeartbeatComment, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByHeartbeatID(ctx context.Context, heartbeatID string) error
	CreateLike(ctx context.Context, data *entity.CommentLike) (bool, error)
	DeleteLike(ctx context.Context, commentID, userID string) (bool, error)
	ChangeLikes(ctx context.Context, id string, delta int) error
	DeleteLikesByCommentID(ctx context.Context, commentID string) error
	DeleteLikesByHeartbeatID(ctx context.Context, heartbeatID string) error
}

type heartbeatCommentRepository struct{}

func NewHeartbeatCommentRepository() *heartbeatCommentRepository {
	return &heartbeatCommentRepository{}
}

func (r *heartbeatCommentRepository) Create(ctx context.Context, data *entity.HeartbeatComment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *heartbeatCommentRepository) GetByID(ctx context.Context, id string) (*entity.HeartbeatComment, error) {
	var result entity.HeartbeatComment
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *heartbeatCommentRepository) GetListByHeartbeatID(
	ctx context.Context, heartbeatID string,
) ([]entity.HeartbeatComment, error) {
	var result []entity.HeartbeatComment
	err := xcontext.DB(ctx).
		Where("heartbeat_id=?", heartbeatID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *heartbeatCommentRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.HeartbeatComment{}, "id=?", id).Error
}

func (r *heartbeatCommentRepository) DeleteByHeartbeatID(ctx context.Context, heartbeatID string) error {
	return xcontext.DB(ctx).Delete(&entity.HeartbeatComment{}, "heartbeat_id=?", heartbeatID).Error
}

// CreateLike inserts a comment like row, doing nothing if the user already
// liked the comment. It reports whether a new row was inserted.
func (r *heartbeatCommentRepository) CreateLike(ctx context.Context, data *entity.CommentLike) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

// DeleteLike removes a comment like row. It reports whether a row was
// removed.
func (r *heartbeatCommentRepository) DeleteLike(ctx context.Context, commentID, userID string) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("comment_id=? AND user_id=?", commentID, userID).
		Delete(&entity.CommentLike{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *heartbeatCommentRepository) ChangeLikes(ctx context.Context, id string, delta int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.HeartbeatComment{}).
		Where("id=?", id).
		Update("likes", gorm.Expr("likes+?", delta))

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

func (r *heartbeatCommentRepository) DeleteLikesByCommentID(ctx context.Context, commentID string) error {
	return xcontext.DB(ctx).Delete(&entity.CommentLike{}, "comment_id=?", commentID).Error
}

func (r *heartbeatCommentRepository) DeleteLikesByHeartbeatID(ctx context.Context, heartbeatID string) error {
	return xcontext.DB(ctx).
		Where("comment_id IN (?)",
			xcontext.DB(ctx).Model(&entity.HeartbeatComment{}).
				Select("id").
				Where("heartbeat_id=?", heartbeatID),
		).
		Delete(&entity.CommentLike{}).Error
}
