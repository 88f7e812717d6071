package domain

import (
	"context"
	"errors"
	"time"

	"github.com/chance-app/backend/internal/common"
	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/model"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/storage"
	"github.com/chance-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	UpdateMe(context.Context, *model.UpdateMeRequest) (*model.UpdateMeResponse, error)
	GetMyProjects(context.Context, *model.GetMyProjectsRequest) (*model.GetMyProjectsResponse, error)
	GetMyHeartbeats(context.Context, *model.GetMyHeartbeatsRequest) (*model.GetMyHeartbeatsResponse, error)
	UploadAvatar(context.Context, *model.UploadAvatarRequest) (*model.UploadAvatarResponse, error)
}

type userDomain struct {
	userRepo          repository.UserRepository
	projectRepo       repository.ProjectRepository
	projectMemberRepo repository.ProjectMemberRepository
	heartbeatRepo     repository.HeartbeatRepository
	storage           storage.Storage
}

func NewUserDomain(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	projectMemberRepo repository.ProjectMemberRepository,
	heartbeatRepo repository.HeartbeatRepository,
	storage storage.Storage,
) UserDomain {
	return &userDomain{
		userRepo:          userRepo,
		projectRepo:       projectRepo,
		projectMemberRepo: projectMemberRepo,
		heartbeatRepo:     heartbeatRepo,
		storage:           storage,
	}
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	includeSensitive := true
	if req.UserID != "" && req.UserID != userID {
		userID = req.UserID
		includeSensitive = false
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user, includeSensitive)}, nil
}

func (d *userDomain) UpdateMe(
	ctx context.Context, req *model.UpdateMeRequest,
) (*model.UpdateMeResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	err := d.userRepo.UpdateByID(ctx, userID, &entity.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Bio:            req.Bio,
		School:         req.School,
		Instagram:      req.Instagram,
		WhatsappNumber: req.WhatsappNumber,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateMeResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *userDomain) GetMyProjects(
	ctx context.Context, req *model.GetMyProjectsRequest,
) (*model.GetMyProjectsResponse, error) {
	limit, err := checkPaginationLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	var after *entity.Project
	if req.Cursor != "" {
		after, err = d.projectRepo.GetByID(ctx, req.Cursor)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.BadRequest, "Invalid cursor")
			}

			xcontext.Logger(ctx).Errorf("Cannot get cursor project: %v", err)
			return nil, errorx.Unknown
		}
	}

	userID := xcontext.RequestUserID(ctx)
	projects, err := d.projectMemberRepo.GetProjectsByUserID(ctx, userID, limit, after)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get projects of user: %v", err)
		return nil, errorx.Unknown
	}

	creatorIDs := make([]string, 0, len(projects))
	for _, p := range projects {
		creatorIDs = append(creatorIDs, p.CreatedBy)
	}

	creators, err := usersByID(ctx, d.userRepo, creatorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get creators: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		creator, ok := creators[p.CreatedBy]
		var creatorPtr *entity.User
		if ok {
			creatorPtr = &creator
		}

		converted := model.ConvertProject(&p, creatorPtr)
		converted.IsMember = true
		converted.IsCreator = p.CreatedBy == userID
		result = append(result, converted)
	}

	nextCursor := ""
	if len(projects) == limit {
		nextCursor = projects[len(projects)-1].ID
	}

	return &model.GetMyProjectsResponse{Projects: result, NextCursor: nextCursor}, nil
}

func (d *userDomain) GetMyHeartbeats(
	ctx context.Context, req *model.GetMyHeartbeatsRequest,
) (*model.GetMyHeartbeatsResponse, error) {
	limit, err := checkPaginationLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	var before time.Time
	if req.Cursor != "" {
		before, err = time.Parse(model.DefaultTimeLayout, req.Cursor)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid cursor")
		}
	}

	userID := xcontext.RequestUserID(ctx)
	heartbeats, err := d.heartbeatRepo.GetList(ctx, repository.HeartbeatFilter{
		UserID: userID,
		Limit:  limit,
		Before: before,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get heartbeats of user: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.Heartbeat, 0, len(heartbeats))
	for _, hb := range heartbeats {
		result = append(result, model.ConvertHeartbeat(&hb, user))
	}

	nextCursor := ""
	if len(heartbeats) == limit {
		nextCursor = heartbeats[len(heartbeats)-1].CreatedAt.Format(model.DefaultTimeLayout)
	}

	return &model.GetMyHeartbeatsResponse{Heartbeats: result, NextCursor: nextCursor}, nil
}

func (d *userDomain) UploadAvatar(
	ctx context.Context, req *model.UploadAvatarRequest,
) (*model.UploadAvatarResponse, error) {
	uploaded, err := common.ProcessImage(ctx, d.storage, "avatar")
	if err != nil {
		return nil, err
	}

	if len(uploaded) == 0 {
		xcontext.Logger(ctx).Errorf("No image was uploaded")
		return nil, errorx.Unknown
	}

	url := uploaded[0].Url
	if err := d.userRepo.UpdateProfilePicture(ctx, xcontext.RequestUserID(ctx), url); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update profile picture: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UploadAvatarResponse{ProfilePicture: url}, nil
}
