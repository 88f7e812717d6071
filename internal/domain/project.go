package domain

import (
	"context"
	"errors"
	"time"

	"github.com/chance-app/backend/internal/common"
	"github.com/chance-app/backend/internal/domain/spotlight"
	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/model"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/enum"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectDomain interface {
	GetList(context.Context, *model.GetProjectsRequest) (*model.GetProjectsResponse, error)
	Get(context.Context, *model.GetProjectRequest) (*model.GetProjectResponse, error)
	Create(context.Context, *model.CreateProjectRequest) (*model.CreateProjectResponse, error)
	Update(context.Context, *model.UpdateProjectRequest) (*model.UpdateProjectResponse, error)
	Delete(context.Context, *model.DeleteProjectRequest) (*model.DeleteProjectResponse, error)
	Join(context.Context, *model.JoinProjectRequest) (*model.JoinProjectResponse, error)
	Leave(context.Context, *model.LeaveProjectRequest) (*model.LeaveProjectResponse, error)
	Upvote(context.Context, *model.UpvoteProjectRequest) (*model.UpvoteProjectResponse, error)
	CompleteAndAward(context.Context, *model.CompleteProjectRequest) (*model.CompleteProjectResponse, error)
	GetMembers(context.Context, *model.GetProjectMembersRequest) (*model.GetProjectMembersResponse, error)
}

type projectDomain struct {
	projectRepo        repository.ProjectRepository
	projectMemberRepo  repository.ProjectMemberRepository
	completionRepo     repository.ProjectCompletionRepository
	userRepo           repository.UserRepository
	globalRoleVerifier *common.GlobalRoleVerifier
	leaderboard        spotlight.Leaderboard
}

func NewProjectDomain(
	projectRepo repository.ProjectRepository,
	projectMemberRepo repository.ProjectMemberRepository,
	completionRepo repository.ProjectCompletionRepository,
	userRepo repository.UserRepository,
	leaderboard spotlight.Leaderboard,
) ProjectDomain {
	return &projectDomain{
		projectRepo:        projectRepo,
		projectMemberRepo:  projectMemberRepo,
		completionRepo:     completionRepo,
		userRepo:           userRepo,
		globalRoleVerifier: common.NewGlobalRoleVerifier(userRepo),
		leaderboard:        leaderboard,
	}
}

func (d *projectDomain) GetList(
	ctx context.Context, req *model.GetProjectsRequest,
) (*model.GetProjectsResponse, error) {
	limit, err := checkPaginationLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	orderBy := repository.ProjectOrderByNewest
	switch req.SortBy {
	case "", model.ProjectSortNewest:
	case model.ProjectSortUpvotes:
		orderBy = repository.ProjectOrderByUpvotes
	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid sort field %s", req.SortBy)
	}

	var status entity.ProjectStatusType
	if req.Status != "" {
		status, err = enum.ToEnum[entity.ProjectStatusType](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}
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

	projects, err := d.projectRepo.GetList(ctx, repository.ProjectFilter{
		Category:   req.Category,
		Status:     status,
		Visibility: entity.VisibilityPublic,
		OrderBy:    orderBy,
		Limit:      limit,
		After:      after,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get project list: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.convertProjects(ctx, projects)
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(projects) == limit {
		nextCursor = projects[len(projects)-1].ID
	}

	return &model.GetProjectsResponse{Projects: result, NextCursor: nextCursor}, nil
}

func (d *projectDomain) Get(
	ctx context.Context, req *model.GetProjectRequest,
) (*model.GetProjectResponse, error) {
	project, err := d.projectRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	isMember := false
	if userID != "" {
		_, err := d.projectMemberRepo.Get(ctx, project.ID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get project member: %v", err)
			return nil, errorx.Unknown
		}

		isMember = err == nil
	}

	// Private projects are only visible to their members.
	if project.Visibility == entity.VisibilityPrivate && !isMember {
		return nil, errorx.New(errorx.NotFound, "Not found project")
	}

	creator, err := d.userRepo.GetByID(ctx, project.CreatedBy)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get project creator: %v", err)
		return nil, errorx.Unknown
	}

	converted := model.ConvertProject(project, creator)
	converted.IsCreator = userID != "" && project.CreatedBy == userID
	converted.IsMember = isMember
	return &model.GetProjectResponse{Project: converted}, nil
}

func (d *projectDomain) Create(
	ctx context.Context, req *model.CreateProjectRequest,
) (*model.CreateProjectResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	if req.Description == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty description")
	}

	if req.Category == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty category")
	}

	if req.Impact == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty impact")
	}

	if req.TeamSize <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Team size must be positive")
	}

	if req.PeopleInfluenced <= 0 {
		return nil, errorx.New(errorx.BadRequest, "People influenced must be positive")
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
	project := &entity.Project{
		Base:             entity.Base{ID: uuid.NewString()},
		CreatedBy:        userID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Impact:           req.Impact,
		TeamSize:         req.TeamSize,
		Effort:           req.Effort,
		PeopleInfluenced: req.PeopleInfluenced,
		TypeOfPeople:     req.TypeOfPeople,
		RequiredTools:    entity.Array[string](req.RequiredTools),
		ActionPlan:       entity.Array[string](req.ActionPlan),
		Collaboration:    req.Collaboration,
		Status:           entity.ProjectStatusOpen,
		Visibility:       visibility,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.projectRepo.Create(ctx, project); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create project: %v", err)
		return nil, errorx.Unknown
	}

	// The creator is always the first member of their project.
	err := d.projectMemberRepo.Upsert(ctx, &entity.ProjectMember{
		ProjectID: project.ID,
		UserID:    userID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add creator as member: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	creator, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get project creator: %v", err)
		return nil, errorx.Unknown
	}

	converted := model.ConvertProject(project, creator)
	converted.IsCreator = true
	converted.IsMember = true
	return &model.CreateProjectResponse{Project: converted}, nil
}

func (d *projectDomain) Update(
	ctx context.Context, req *model.UpdateProjectRequest,
) (*model.UpdateProjectResponse, error) {
	project, err := d.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	if project.CreatedBy != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the creator can update the project")
	}

	updateMap := map[string]any{}
	if req.Title != "" {
		updateMap["title"] = req.Title
	}

	if req.Description != "" {
		updateMap["description"] = req.Description
	}

	if req.Category != "" {
		updateMap["category"] = req.Category
	}

	if req.Impact != "" {
		updateMap["impact"] = req.Impact
	}

	if req.TeamSize > 0 {
		updateMap["team_size"] = req.TeamSize
	}

	if req.Effort != "" {
		updateMap["effort"] = req.Effort
	}

	if req.PeopleInfluenced > 0 {
		updateMap["people_influenced"] = req.PeopleInfluenced
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.ProjectStatusType](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}

		updateMap["status"] = status
	}

	if req.Visibility != "" {
		visibility, err := enum.ToEnum[entity.VisibilityType](req.Visibility)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid visibility %s", req.Visibility)
		}

		updateMap["visibility"] = visibility
	}

	if req.AdminNotes != "" {
		updateMap["admin_notes"] = req.AdminNotes
	}

	if err := d.projectRepo.UpdateByID(ctx, project.ID, updateMap); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update project: %v", err)
		return nil, errorx.Unknown
	}

	project, err = d.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	creator, err := d.userRepo.GetByID(ctx, project.CreatedBy)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get project creator: %v", err)
		return nil, errorx.Unknown
	}

	converted := model.ConvertProject(project, creator)
	converted.IsCreator = true
	converted.IsMember = true
	return &model.UpdateProjectResponse{Project: converted}, nil
}

func (d *projectDomain) Delete(
	ctx context.Context, req *model.DeleteProjectRequest,
) (*model.DeleteProjectResponse, error) {
	project, err := d.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	if project.CreatedBy != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the creator can delete the project")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.projectMemberRepo.DeleteByProjectID(ctx, project.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete project members: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.projectRepo.DeleteVotesByProjectID(ctx, project.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete project votes: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.completionRepo.DeleteByProjectID(ctx, project.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete project completions: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.projectRepo.DeleteByID(ctx, project.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete project: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteProjectResponse{}, nil
}

func (d *projectDomain) Join(
	ctx context.Context, req *model.JoinProjectRequest,
) (*model.JoinProjectResponse, error) {
	project, err := d.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	if project.Status != entity.ProjectStatusOpen {
		return nil, errorx.New(errorx.Unavailable, "Can only join an open project")
	}

	err = d.projectMemberRepo.Upsert(ctx, &entity.ProjectMember{
		ProjectID: project.ID,
		UserID:    xcontext.RequestUserID(ctx),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot join project: %v", err)
		return nil, errorx.Unknown
	}

	return &model.JoinProjectResponse{}, nil
}

func (d *projectDomain) Leave(
	ctx context.Context, req *model.LeaveProjectRequest,
) (*model.LeaveProjectResponse, error) {
	err := d.projectMemberRepo.Delete(ctx, req.ProjectID, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "You are not a member of this project")
		}

		xcontext.Logger(ctx).Errorf("Cannot leave project: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LeaveProjectResponse{}, nil
}

func (d *projectDomain) Upvote(
	ctx context.Context, req *model.UpvoteProjectRequest,
) (*model.UpvoteProjectResponse, error) {
	project, err := d.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	inserted, err := d.projectRepo.CreateVote(ctx, &entity.ProjectVote{
		ProjectID: project.ID,
		UserID:    xcontext.RequestUserID(ctx),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create vote: %v", err)
		return nil, errorx.Unknown
	}

	// Upvoting twice is a no-op, the counter only moves on the first vote.
	if inserted {
		if err := d.projectRepo.IncreaseLikes(ctx, project.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase likes: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.UpvoteProjectResponse{}, nil
}

func (d *projectDomain) CompleteAndAward(
	ctx context.Context, req *model.CompleteProjectRequest,
) (*model.CompleteProjectResponse, error) {
	if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	project, err := d.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	if project.Status == entity.ProjectStatusCompleted {
		return nil, errorx.New(errorx.Unavailable, "Project has already been completed")
	}

	for _, award := range req.Awards {
		if award.Points <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Award points must be positive")
		}

		if _, err := d.userRepo.GetByID(ctx, award.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found awarded user %s", award.UserID)
			}

			xcontext.Logger(ctx).Errorf("Cannot get awarded user: %v", err)
			return nil, errorx.Unknown
		}
	}

	awardedAt := time.Now()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.projectRepo.UpdateByID(ctx, project.ID, map[string]any{
		"status": entity.ProjectStatusCompleted,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete project: %v", err)
		return nil, errorx.Unknown
	}

	for _, award := range req.Awards {
		err = d.completionRepo.Create(ctx, &entity.ProjectCompletion{
			Base:      entity.Base{ID: uuid.NewString()},
			ProjectID: project.ID,
			UserID:    award.UserID,
			Points:    award.Points,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create completion: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.userRepo.IncreaseInfluence(ctx, award.UserID, award.Points); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase influence: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	// The spotlight cache is best-effort, a failed update here only delays
	// the leaderboard until the next rebuild.
	for _, award := range req.Awards {
		err := d.leaderboard.ChangeInfluence(ctx, award.UserID, int64(award.Points), awardedAt)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update spotlight of %s: %v", award.UserID, err)
		}
	}

	return &model.CompleteProjectResponse{}, nil
}

func (d *projectDomain) GetMembers(
	ctx context.Context, req *model.GetProjectMembersRequest,
) (*model.GetProjectMembersResponse, error) {
	if _, err := d.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found project")
		}

		xcontext.Logger(ctx).Errorf("Cannot get project: %v", err)
		return nil, errorx.Unknown
	}

	members, err := d.projectMemberRepo.GetListByProjectID(ctx, req.ProjectID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get project members: %v", err)
		return nil, errorx.Unknown
	}

	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.UserID)
	}

	users, err := usersByID(ctx, d.userRepo, memberIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get member users: %v", err)
		return nil, errorx.Unknown
	}

	result := make([]model.ShortUser, 0, len(members))
	for _, m := range members {
		if u, ok := users[m.UserID]; ok {
			result = append(result, model.ConvertShortUser(&u))
		}
	}

	return &model.GetProjectMembersResponse{Members: result}, nil
}

func (d *projectDomain) convertProjects(
	ctx context.Context, projects []entity.Project,
) ([]model.Project, error) {
	creatorIDs := make([]string, 0, len(projects))
	for _, p := range projects {
		creatorIDs = append(creatorIDs, p.CreatedBy)
	}

	creators, err := usersByID(ctx, d.userRepo, creatorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get creators: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	result := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		var creatorPtr *entity.User
		if creator, ok := creators[p.CreatedBy]; ok {
			creatorPtr = &creator
		}

		converted := model.ConvertProject(&p, creatorPtr)
		converted.IsCreator = userID != "" && p.CreatedBy == userID
		result = append(result, converted)
	}

	return result, nil
}
