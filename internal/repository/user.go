package repository

import (
	"context"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByServiceUserID(ctx context.Context, service, serviceUserID string) (*entity.User, error)
	UpdateByID(ctx context.Context, id string, data *entity.User) error
	UpdateProfilePicture(ctx context.Context, id, url string) error
	IncreaseInfluence(ctx context.Context, id string, points int) error
	CountByUsername(ctx context.Context, username string) (int64, error)
	GetTopByInfluence(ctx context.Context, limit int) ([]entity.User, error)
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var record []entity.User
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&record).Error; err != nil {
		return nil, err
	}

	return record, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("email=?", email).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("username=?", username).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByServiceUserID(
	ctx context.Context, service, serviceUserID string,
) (*entity.User, error) {
	var record entity.User
	err := xcontext.DB(ctx).
		Model(&entity.User{}).
		Joins("join oauth2 on users.id=oauth2.user_id").
		Where("oauth2.service=? AND oauth2.service_user_id=?", service, serviceUserID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id string, data *entity.User) error {
	updateMap := map[string]any{}
	if data.FirstName != "" {
		updateMap["first_name"] = data.FirstName
	}

	if data.LastName != "" {
		updateMap["last_name"] = data.LastName
	}

	if data.Bio != "" {
		updateMap["bio"] = data.Bio
	}

	if data.School != "" {
		updateMap["school"] = data.School
	}

	if data.Instagram != "" {
		updateMap["instagram"] = data.Instagram
	}

	if data.WhatsappNumber != "" {
		updateMap["whatsapp_number"] = data.WhatsappNumber
	}

	if len(updateMap) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updateMap).Error
}

func (r *userRepository) UpdateProfilePicture(ctx context.Context, id, url string) error {
	return xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Update("profile_picture", url).Error
}

func (r *userRepository) IncreaseInfluence(ctx context.Context, id string, points int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", id).
		Update("influence", gorm.Expr("influence+?", points))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.User{}).
		Where("username=?", username).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// GetTopByInfluence returns ranked users ordered by lifetime influence.
// Users who never received influence are not ranked. A non positive
// limit returns every ranked user.
func (r *userRepository) GetTopByInfluence(ctx context.Context, limit int) ([]entity.User, error) {
	tx := xcontext.DB(ctx).
		Where("influence > 0").
		Order("influence DESC, created_at ASC")

	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var result []entity.User
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
