package repository

import (
	"context"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/pkg/xcontext"
)

type SharingLogRepository interface {
	Create(ctx context.Context, data *entity.SharingLog) error
	CountByHeartbeatID(ctx context.Context, heartbeatID string) (int64, error)
}

type sharingLogRepository struct{}

func NewSharingLogRepository() *sharingLogRepository {
	return &sharingLogRepository{}
}

func (r *sharingLogRepository) Create(ctx context.Context, data *entity.SharingLog) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *sharingLogRepository) CountByHeartbeatID(ctx context.Context, heartbeatID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.SharingLog{}).
		Where("heartbeat_id=?", heartbeatID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
