package repository

import (
	"context"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectMemberRepository interface {
	Upsert(ctx context.Context, data *entity.ProjectMember) error
	Get(ctx context.Context, projectID, userID string) (*entity.ProjectMember, error)
	GetListByProjectID(ctx context.Context, projectID string) ([]entity.ProjectMember, error)
	GetProjectsByUserID(ctx context.Context, userID string, limit int, after *entity.Project) ([]entity.Project, error)
	Delete(ctx context.Context, projectID, userID string) error
	DeleteByProjectID(ctx context.Context, projectID string) error
}

type projectMemberRepository struct{}

func NewProjectMemberRepository() *projectMemberRepository {
	return &projectMemberRepository{}
}

// Upsert creates a membership row or revives a soft-deleted one. Joining a
// project the user is already a member of is a no-op.
func (r *projectMemberRepository) Upsert(ctx context.Context, data *entity.ProjectMember) error {
	return xcontext.DB(ctx).Unscoped().
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"deleted_at": nil,
				"updated_at": data.UpdatedAt,
			}),
		}).
		Create(data).Error
}

func (r *projectMemberRepository) Get(ctx context.Context, projectID, userID string) (*entity.ProjectMember, error) {
	var result entity.ProjectMember
	err := xcontext.DB(ctx).
		Where("project_id=? AND user_id=?", projectID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *projectMemberRepository) GetListByProjectID(ctx context.Context, projectID string) ([]entity.ProjectMember, error) {
	var result []entity.ProjectMember
	err := xcontext.DB(ctx).
		Where("project_id=?", projectID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *projectMemberRepository) GetProjectsByUserID(
	ctx context.Context, userID string, limit int, after *entity.Project,
) ([]entity.Project, error) {
	tx := xcontext.DB(ctx).Model(&entity.Project{}).
		Joins("join project_members on project_members.project_id=projects.id").
		Where("project_members.user_id=? AND project_members.deleted_at IS NULL", userID).
		Order("projects.created_at DESC, projects.id DESC").
		Limit(limit)

	if after != nil {
		tx = tx.Where(
			"projects.created_at < ? OR (projects.created_at=? AND projects.id < ?)",
			after.CreatedAt, after.CreatedAt, after.ID,
		)
	}

	var result []entity.Project
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *projectMemberRepository) Delete(ctx context.Context, projectID, userID string) error {
	tx := xcontext.DB(ctx).
		Where("project_id=? AND user_id=?", projectID, userID).
		Delete(&entity.ProjectMember{})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *projectMemberRepository) DeleteByProjectID(ctx context.Context, projectID string) error {
	return xcontext.DB(ctx).
		Where("project_id=?", projectID).
		Delete(&entity.ProjectMember{}).Error
}
