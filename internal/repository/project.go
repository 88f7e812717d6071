package repository

import (
	"context"
	"errors"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ProjectOrderByNewest  = "newest"
	ProjectOrderByUpvotes = "upvotes"
)

// ProjectFilter selects a page of projects. After is the last project of
// the previous page and anchors keyset pagination; a nil After returns the
// first page.
type ProjectFilter struct {
	Category   string
	Status     entity.ProjectStatusType
	Visibility entity.VisibilityType
	OrderBy    string
	Limit      int
	After      *entity.Project
}

type ProjectRepository interface {
	Create(ctx context.Context, data *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	GetList(ctx context.Context, filter ProjectFilter) ([]entity.Project, error)
	UpdateByID(ctx context.Context, id string, updateMap map[string]any) error
	DeleteByID(ctx context.Context, id string) error
	CreateVote(ctx context.Context, data *entity.ProjectVote) (bool, error)
	IncreaseLikes(ctx context.Context, id string) error
	DeleteVotesByProjectID(ctx context.Context, projectID string) error
}

type projectRepository struct{}

func NewProjectRepository() *projectRepository {
	return &projectRepository{}
}

func (r *projectRepository) Create(ctx context.Context, data *entity.Project) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	var result entity.Project
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *projectRepository) GetList(ctx context.Context, filter ProjectFilter) ([]entity.Project, error) {
	tx := xcontext.DB(ctx).Model(&entity.Project{}).Limit(filter.Limit)

	if filter.Category != "" {
		tx = tx.Where("category=?", filter.Category)
	}

	if filter.Status != "" {
		tx = tx.Where("status=?", filter.Status)
	}

	if filter.Visibility != "" {
		tx = tx.Where("visibility=?", filter.Visibility)
	}

	switch filter.OrderBy {
	case ProjectOrderByUpvotes:
		tx = tx.Order("likes DESC, created_at DESC, id DESC")
		if filter.After != nil {
			tx = tx.Where(
				"likes < ? OR (likes=? AND created_at < ?) OR (likes=? AND created_at=? AND id < ?)",
				filter.After.Likes,
				filter.After.Likes, filter.After.CreatedAt,
				filter.After.Likes, filter.After.CreatedAt, filter.After.ID,
			)
		}

	default:
		tx = tx.Order("created_at DESC, id DESC")
		if filter.After != nil {
			tx = tx.Where(
				"created_at < ? OR (created_at=? AND id < ?)",
				filter.After.CreatedAt,
				filter.After.CreatedAt, filter.After.ID,
			)
		}
	}

	var result []entity.Project
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *projectRepository) UpdateByID(ctx context.Context, id string, updateMap map[string]any) error {
	if len(updateMap) == 0 {
		return nil
	}

	tx := xcontext.DB(ctx).Model(&entity.Project{}).Where("id=?", id).Updates(updateMap)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *projectRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Project{}, "id=?", id).Error
}

// CreateVote inserts a vote row, doing nothing if the user already voted.
// It reports whether a new row was inserted.
func (r *projectRepository) CreateVote(ctx context.Context, data *entity.ProjectVote) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *projectRepository) IncreaseLikes(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Project{}).
		Where("id=?", id).
		Update("likes", gorm.Expr("likes+1"))

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

func (r *projectRepository) DeleteVotesByProjectID(ctx context.Context, projectID string) error {
	return xcontext.DB(ctx).
		Where("project_id=?", projectID).
		Delete(&entity.ProjectVote{}).Error
}
