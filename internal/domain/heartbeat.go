package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/model"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/enum"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/storage"
	"github.com/chance-app/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxHeartbeatContentLength = 500

type HeartbeatDomain interface {
	GetList(context.Context, *model.GetHeartbeatsRequest) (*model.GetHeartbeatsResponse, error)
	Create(context.Context, *model.CreateHeartbeatRequest) (*model.CreateHeartbeatResponse, error)
	Delete(context.Context, *model.DeleteHeartbeatRequest) (*model.DeleteHeartbeatResponse, error)
	Like(context.Context, *model.LikeHeartbeatRequest) (*model.LikeHeartbeatResponse, error)
	Comment(context.Context, *model.CommentHeartbeatRequest) (*model.CommentHeartbeatResponse, error)
	DeleteComment(context.Context, *model.DeleteCommentRequest) (*model.DeleteCommentResponse, error)
	LikeComment(context.Context, *model.LikeCommentRequest) (*model.LikeCommentResponse, error)
	GetComments(context.Context, *model.GetCommentsRequest) (*model.GetCommentsResponse, error)
	Share(context.Context, *model.ShareHeartbeatRequest) (*model.ShareHeartbeatResponse, error)
}

type heartbeatDomain struct {
	heartbeatRepo  repository.HeartbeatRepository
	commentRepo    repository.HeartbeatCommentRepository
	sharingLogRepo repository.SharingLogRepository
	userRepo       repository.UserRepository
	storage        storage.Storage
}

func NewHeartbeatDomain(
	heartbeatRepo repository.HeartbeatRepository,
	commentRepo repository.HeartbeatCommentRepository,
	sharingLogRepo repository.SharingLogRepository,
	userRepo repository.UserRepository,
	storage storage.Storage,
) HeartbeatDomain {
	return &heartbeatDomain{
		heartbeatRepo:  heartbeatRepo,
		commentRepo:    commentRepo,
		sharingLogRepo: sharingLogRepo,
		userRepo:       userRepo,
		storage:        storage,
	}
}

func (d *heartbeatDomain) GetList(
	ctx context.Context, req *model.GetHeartbeatsRequest,
) (*model.GetHeartbeatsResponse, error) {
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

	heartbeats, err := d.heartbeatRepo.GetList(ctx, repository.HeartbeatFilter{
		Visibility: entity.VisibilityPublic,
		Limit:      limit,
		Before:     before,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get heartbeat list: %v", err)
		return nil, errorx.Unknown
	}

	authorIDs := make([]string, 0, len(heartbeats))
	for _, hb := range heartbeats {
		authorIDs = append(authorIDs, hb.UserID)
	}

	authors, err := usersByID(ctx, d.userRepo, authorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get authors: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.Heartbeat, 0, len(heartbeats))
	for _, hb := range heartbeats {
		var authorPtr *entity.User
		if author, ok := authors[hb.UserID]; ok {
			authorPtr = &author
		}

		result = append(result, model.ConvertHeartbeat(&hb, authorPtr))
	}

	nextCursor := ""
	if len(heartbeats) == limit {
		nextCursor = heartbeats[len(heartbeats)-1].CreatedAt.Format(model.DefaultTimeLayout)
	}

	return &model.GetHeartbeatsResponse{Heartbeats: result, NextCursor: nextCursor}, nil
}

func (d *heartbeatDomain) Create(
	ctx context.Context, req *model.CreateHeartbeatRequest,
) (*model.CreateHeartbeatResponse, error) {
	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty content")
	}

	if utf8.RuneCountInString(req.Content) > maxHeartbeatContentLength {
		return nil, errorx.New(errorx.BadRequest,
			"Content must not exceed %d characters", maxHeartbeatContentLength)
	}

	visibility := entity.VisibilityPublic
	if req.Visibility != "" {
		var err error
		visibility, err = enum.ToEnum[entity.VisibilityType](req.Visibility)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid visibility %s", req.Visibility)
		}
	}

	userID := xcontext.RequestUserID(ctx)
	heartbeat := &entity.Heartbeat{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     userID,
		Content:    req.Content,
		Image:      req.Image,
		Video:      req.Video,
		Visibility: visibility,
	}

	if err := d.heartbeatRepo.Create(ctx, heartbeat); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create heartbeat: %v", err)
		return nil, errorx.Unknown
	}

	author, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get author: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateHeartbeatResponse{Heartbeat: model.ConvertHeartbeat(heartbeat, author)}, nil
}

func (d *heartbeatDomain) Delete(
	ctx context.Context, req *model.DeleteHeartbeatRequest,
) (*model.DeleteHeartbeatResponse, error) {
	heartbeat, err := d.heartbeatRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found heartbeat")
		}

		xcontext.Logger(ctx).Errorf("Cannot get heartbeat: %v", err)
		return nil, errorx.Unknown
	}

	if heartbeat.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete the heartbeat")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.commentRepo.DeleteLikesByHeartbeatID(ctx, heartbeat.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment likes: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.commentRepo.DeleteByHeartbeatID(ctx, heartbeat.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comments: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.heartbeatRepo.DeleteLikesByHeartbeatID(ctx, heartbeat.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete likes: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.heartbeatRepo.DeleteByID(ctx, heartbeat.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete heartbeat: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	// Media removal is best-effort, a dangling object must not fail the
	// request after the rows are gone.
	for _, url := range []string{heartbeat.Image, heartbeat.Video} {
		if url == "" {
			continue
		}

		if err := d.storage.Delete(ctx, url); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot delete media %s: %v", url, err)
		}
	}

	return &model.DeleteHeartbeatResponse{}, nil
}

func (d *heartbeatDomain) Like(
	ctx context.Context, req *model.LikeHeartbeatRequest,
) (*model.LikeHeartbeatResponse, error) {
	heartbeat, err := d.heartbeatRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found heartbeat")
		}

		xcontext.Logger(ctx).Errorf("Cannot get heartbeat: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	deleted, err := d.heartbeatRepo.DeleteLike(ctx, heartbeat.ID, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete like: %v", err)
		return nil, errorx.Unknown
	}

	liked := false
	if deleted {
		if err := d.heartbeatRepo.ChangeLikes(ctx, heartbeat.ID, -1); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot decrease likes: %v", err)
			return nil, errorx.Unknown
		}
	} else {
		inserted, err := d.heartbeatRepo.CreateLike(ctx, &entity.HeartbeatLike{
			HeartbeatID: heartbeat.ID,
			UserID:      userID,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create like: %v", err)
			return nil, errorx.Unknown
		}

		if inserted {
			if err := d.heartbeatRepo.ChangeLikes(ctx, heartbeat.ID, 1); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot increase likes: %v", err)
				return nil, errorx.Unknown
			}
		}

		liked = true
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.LikeHeartbeatResponse{Liked: liked}, nil
}

func (d *heartbeatDomain) Comment(
	ctx context.Context, req *model.CommentHeartbeatRequest,
) (*model.CommentHeartbeatResponse, error) {
	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty content")
	}

	if utf8.RuneCountInString(req.Content) > maxHeartbeatContentLength {
		return nil, errorx.New(errorx.BadRequest,
			"Content must not exceed %d characters", maxHeartbeatContentLength)
	}

	heartbeat, err := d.heartbeatRepo.GetByID(ctx, req.HeartbeatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found heartbeat")
		}

		xcontext.Logger(ctx).Errorf("Cannot get heartbeat: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	comment := &entity.HeartbeatComment{
		Base:        entity.Base{ID: uuid.NewString()},
		HeartbeatID: heartbeat.ID,
		UserID:      userID,
		Content:     req.Content,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.commentRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create comment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.heartbeatRepo.ChangeComments(ctx, heartbeat.ID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase comments: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	author, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get author: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CommentHeartbeatResponse{
		Comment: model.ConvertHeartbeatComment(comment, author),
	}, nil
}

func (d *heartbeatDomain) DeleteComment(
	ctx context.Context, req *model.DeleteCommentRequest,
) (*model.DeleteCommentResponse, error) {
	comment, err := d.commentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found comment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	if comment.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete the comment")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.commentRepo.DeleteLikesByCommentID(ctx, comment.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment likes: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.commentRepo.DeleteByID(ctx, comment.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.heartbeatRepo.ChangeComments(ctx, comment.HeartbeatID, -1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decrease comments: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteCommentResponse{}, nil
}

func (d *heartbeatDomain) LikeComment(
	ctx context.Context, req *model.LikeCommentRequest,
) (*model.LikeCommentResponse, error) {
	comment, err := d.commentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found comment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	deleted, err := d.commentRepo.DeleteLike(ctx, comment.ID, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment like: %v", err)
		return nil, errorx.Unknown
	}

	liked := false
	if deleted {
		if err := d.commentRepo.ChangeLikes(ctx, comment.ID, -1); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot decrease comment likes: %v", err)
			return nil, errorx.Unknown
		}
	} else {
		inserted, err := d.commentRepo.CreateLike(ctx, &entity.CommentLike{
			CommentID: comment.ID,
			UserID:    userID,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create comment like: %v", err)
			return nil, errorx.Unknown
		}

		if inserted {
			if err := d.commentRepo.ChangeLikes(ctx, comment.ID, 1); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot increase comment likes: %v", err)
				return nil, errorx.Unknown
			}
		}

		liked = true
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.LikeCommentResponse{Liked: liked}, nil
}

func (d *heartbeatDomain) GetComments(
	ctx context.Context, req *model.GetCommentsRequest,
) (*model.GetCommentsResponse, error) {
	if _, err := d.heartbeatRepo.GetByID(ctx, req.HeartbeatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found heartbeat")
		}

		xcontext.Logger(ctx).Errorf("Cannot get heartbeat: %v", err)
		return nil, errorx.Unknown
	}

	comments, err := d.commentRepo.GetListByHeartbeatID(ctx, req.HeartbeatID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comments: %v", err)
		return nil, errorx.Unknown
	}

	authorIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.UserID)
	}

	authors, err := usersByID(ctx, d.userRepo, authorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get authors: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.HeartbeatComment, 0, len(comments))
	for _, c := range comments {
		var authorPtr *entity.User
		if author, ok := authors[c.UserID]; ok {
			authorPtr = &author
		}

		result = append(result, model.ConvertHeartbeatComment(&c, authorPtr))
	}

	return &model.GetCommentsResponse{Comments: result}, nil
}

func (d *heartbeatDomain) Share(
	ctx context.Context, req *model.ShareHeartbeatRequest,
) (*model.ShareHeartbeatResponse, error) {
	shareType, err := enum.ToEnum[entity.ShareType](req.ShareType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid share type %s", req.ShareType)
	}

	heartbeat, err := d.heartbeatRepo.GetByID(ctx, req.HeartbeatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found heartbeat")
		}

		xcontext.Logger(ctx).Errorf("Cannot get heartbeat: %v", err)
		return nil, errorx.Unknown
	}

	err = d.sharingLogRepo.Create(ctx, &entity.SharingLog{
		ID:          xcontext.SnowFlake(ctx).Generate().Int64(),
		HeartbeatID: heartbeat.ID,
		UserID:      xcontext.RequestUserID(ctx),
		ShareType:   shareType,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create sharing log: %v", err)
		return nil, errorx.Unknown
	}

	shareURL := fmt.Sprintf("%s/heartbeats/%s",
		xcontext.Configs(ctx).ApiServer.PublicURL, heartbeat.ID)
	return &model.ShareHeartbeatResponse{ShareURL: shareURL}, nil
}
