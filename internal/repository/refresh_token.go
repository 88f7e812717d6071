package repository

import (
	"context"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/pkg/xcontext"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, data *entity.RefreshToken) error
	Get(ctx context.Context, id string) (*entity.RefreshToken, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type refreshTokenRepository struct{}

func NewRefreshTokenRepository() *refreshTokenRepository {
	return &refreshTokenRepository{}
}

func (r *refreshTokenRepository) Create(ctx context.Context, data *entity.RefreshToken) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *refreshTokenRepository) Get(ctx context.Context, id string) (*entity.RefreshToken, error) {
	var result entity.RefreshToken
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *refreshTokenRepository) Delete(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.RefreshToken{}, "id=?", id).Error
}

func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Delete(&entity.RefreshToken{}, "user_id=?", userID).Error
}
