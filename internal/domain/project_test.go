package domain

import (
	"testing"

	"github.com/chance-app/backend/internal/domain/spotlight"
	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/model"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/testutil"
	"github.com/chance-app/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func newTestProjectDomain() ProjectDomain {
	completionRepo := repository.NewProjectCompletionRepository()
	return NewProjectDomain(
		repository.NewProjectRepository(),
		repository.NewProjectMemberRepository(),
		completionRepo,
		repository.NewUserRepository(),
		spotlight.New(completionRepo, repository.NewUserRepository(), nil),
	)
}

func Test_projectDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	req := &model.CreateProjectRequest{
		Title:            "Beach Cleanup",
		Description:      "Monthly cleanup of the north beach",
		Category:         "environment",
		Impact:           "Cleaner coastline",
		TeamSize:         5,
		PeopleInfluenced: 300,
		RequiredTools:    []string{"gloves", "bags"},
		ActionPlan:       []string{"recruit", "clean", "report"},
	}
	resp, err := domain.Create(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "open", resp.Project.Status)
	require.True(t, resp.Project.IsCreator)
	require.True(t, resp.Project.IsMember)

	var result entity.Project
	tx := xcontext.DB(ctx).Model(&entity.Project{}).Take(&result, "id", resp.Project.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, result.Title, req.Title)
	require.Equal(t, result.CreatedBy, testutil.User2.ID)
	require.Equal(t, result.Status, entity.ProjectStatusOpen)

	// The creator must become the first member.
	var member entity.ProjectMember
	tx = xcontext.DB(ctx).
		Take(&member, "project_id = ? AND user_id = ?", resp.Project.ID, testutil.User2.ID)
	require.NoError(t, tx.Error)
}

func Test_projectDomain_Create_invalidRequest(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	_, err := domain.Create(ctx, &model.CreateProjectRequest{
		Description:      "no title",
		Category:         "environment",
		Impact:           "none",
		TeamSize:         1,
		PeopleInfluenced: 1,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow an empty title"), err)

	_, err = domain.Create(ctx, &model.CreateProjectRequest{
		Title:            "Beach Cleanup",
		Description:      "desc",
		Category:         "environment",
		Impact:           "none",
		TeamSize:         0,
		PeopleInfluenced: 1,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Team size must be positive"), err)
}

func Test_projectDomain_GetList(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	private, err := testutil.SampleProject(ctx, &entity.Project{
		CreatedBy:  testutil.User2.ID,
		Visibility: entity.VisibilityPrivate,
	})
	require.NoError(t, err)

	public, err := testutil.SampleProject(ctx, &entity.Project{
		CreatedBy: testutil.User2.ID,
	})
	require.NoError(t, err)

	resp, err := domain.GetList(ctx, &model.GetProjectsRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 2)
	require.Equal(t, public.ID, resp.Projects[0].ID)
	require.Equal(t, testutil.Project1.ID, resp.Projects[1].ID)
	for _, p := range resp.Projects {
		require.NotEqual(t, private.ID, p.ID)
	}

	// The most upvoted project comes first when sorting by upvotes.
	_, err = domain.Upvote(ctx, &model.UpvoteProjectRequest{ProjectID: testutil.Project1.ID})
	require.NoError(t, err)

	resp, err = domain.GetList(ctx, &model.GetProjectsRequest{Limit: 10, SortBy: "upvotes"})
	require.NoError(t, err)
	require.Equal(t, testutil.Project1.ID, resp.Projects[0].ID)
	require.Equal(t, 1, resp.Projects[0].VoteCount)

	_, err = domain.GetList(ctx, &model.GetProjectsRequest{Limit: 10, SortBy: "alphabetical"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid sort field %s", "alphabetical"), err)
}

func Test_projectDomain_GetList_pagination(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	newest, err := testutil.SampleProject(ctx, &entity.Project{
		CreatedBy: testutil.User2.ID,
	})
	require.NoError(t, err)

	resp, err := domain.GetList(ctx, &model.GetProjectsRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 1)
	require.Equal(t, newest.ID, resp.Projects[0].ID)
	require.Equal(t, newest.ID, resp.NextCursor)

	resp, err = domain.GetList(ctx, &model.GetProjectsRequest{Limit: 1, Cursor: resp.NextCursor})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 1)
	require.Equal(t, testutil.Project1.ID, resp.Projects[0].ID)
}

func Test_projectDomain_Get_privateProject(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	private, err := testutil.SampleProject(ctx, &entity.Project{
		CreatedBy:  testutil.User2.ID,
		Visibility: entity.VisibilityPrivate,
	})
	require.NoError(t, err)

	err = repository.NewProjectMemberRepository().Upsert(ctx, &entity.ProjectMember{
		ProjectID: private.ID,
		UserID:    testutil.User2.ID,
	})
	require.NoError(t, err)

	// Only members can see a private project.
	_, err = domain.Get(ctx, &model.GetProjectRequest{ID: private.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found project"), err)

	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	resp, err := domain.Get(ctx, &model.GetProjectRequest{ID: private.ID})
	require.NoError(t, err)
	require.True(t, resp.Project.IsMember)
	require.True(t, resp.Project.IsCreator)
}

func Test_projectDomain_Join(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	_, err := domain.Join(ctx, &model.JoinProjectRequest{ProjectID: testutil.Project1.ID})
	require.NoError(t, err)

	// Joining twice is a no-op.
	_, err = domain.Join(ctx, &model.JoinProjectRequest{ProjectID: testutil.Project1.ID})
	require.NoError(t, err)

	var count int64
	tx := xcontext.DB(ctx).Model(&entity.ProjectMember{}).
		Where("project_id = ?", testutil.Project1.ID).Count(&count)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(2), count)
}

func Test_projectDomain_Join_notOpenProject(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	completed, err := testutil.SampleProject(ctx, &entity.Project{
		CreatedBy: testutil.User2.ID,
		Status:    entity.ProjectStatusCompleted,
	})
	require.NoError(t, err)

	_, err = domain.Join(ctx, &model.JoinProjectRequest{ProjectID: completed.ID})
	require.Equal(t, errorx.New(errorx.Unavailable, "Can only join an open project"), err)

	_, err = domain.Join(ctx, &model.JoinProjectRequest{ProjectID: "not-exist"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found project"), err)
}

func Test_projectDomain_Leave(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	_, err := domain.Join(ctx, &model.JoinProjectRequest{ProjectID: testutil.Project1.ID})
	require.NoError(t, err)

	_, err = domain.Leave(ctx, &model.LeaveProjectRequest{ProjectID: testutil.Project1.ID})
	require.NoError(t, err)

	_, err = domain.Leave(ctx, &model.LeaveProjectRequest{ProjectID: testutil.Project1.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "You are not a member of this project"), err)

	// Rejoining after leaving revives the membership.
	_, err = domain.Join(ctx, &model.JoinProjectRequest{ProjectID: testutil.Project1.ID})
	require.NoError(t, err)

	member, err := repository.NewProjectMemberRepository().
		Get(ctx, testutil.Project1.ID, testutil.User3.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User3.ID, member.UserID)
}

func Test_projectDomain_Upvote(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	_, err := domain.Upvote(ctx, &model.UpvoteProjectRequest{ProjectID: testutil.Project1.ID})
	require.NoError(t, err)

	// Upvoting twice must not move the counter again.
	_, err = domain.Upvote(ctx, &model.UpvoteProjectRequest{ProjectID: testutil.Project1.ID})
	require.NoError(t, err)

	var result entity.Project
	tx := xcontext.DB(ctx).Take(&result, "id", testutil.Project1.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, 1, result.Likes)

	var votes int64
	tx = xcontext.DB(ctx).Model(&entity.ProjectVote{}).
		Where("project_id = ?", testutil.Project1.ID).Count(&votes)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(1), votes)
}

func Test_projectDomain_Update(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	_, err := domain.Update(ctx, &model.UpdateProjectRequest{
		ProjectID: testutil.Project1.ID,
		Title:     "Hijacked",
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Only the creator can update the project"), err)

	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	resp, err := domain.Update(ctx, &model.UpdateProjectRequest{
		ProjectID: testutil.Project1.ID,
		Title:     "Community Garden v2",
		Status:    "ongoing",
	})
	require.NoError(t, err)
	require.Equal(t, "Community Garden v2", resp.Project.Title)
	require.Equal(t, "ongoing", resp.Project.Status)
}

func Test_projectDomain_Delete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	_, err := domain.Upvote(ctx, &model.UpvoteProjectRequest{ProjectID: testutil.Project1.ID})
	require.NoError(t, err)

	_, err = domain.Delete(ctx, &model.DeleteProjectRequest{ProjectID: testutil.Project1.ID})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Only the creator can delete the project"), err)

	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err = domain.Delete(ctx, &model.DeleteProjectRequest{ProjectID: testutil.Project1.ID})
	require.NoError(t, err)

	_, err = domain.Get(ctx, &model.GetProjectRequest{ID: testutil.Project1.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found project"), err)

	var votes int64
	tx := xcontext.DB(ctx).Model(&entity.ProjectVote{}).
		Where("project_id = ?", testutil.Project1.ID).Count(&votes)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(0), votes)
}

func Test_projectDomain_CompleteAndAward(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	req := &model.CompleteProjectRequest{
		ProjectID: testutil.Project1.ID,
		Awards: []model.ProjectAward{
			{UserID: testutil.User2.ID, Points: 50},
			{UserID: testutil.User3.ID, Points: 30},
		},
	}

	// User2 is not a global admin.
	_, err := domain.CompleteAndAward(ctx, req)
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err = domain.CompleteAndAward(ctx, req)
	require.NoError(t, err)

	var project entity.Project
	tx := xcontext.DB(ctx).Take(&project, "id", testutil.Project1.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.ProjectStatusCompleted, project.Status)

	var user2 entity.User
	tx = xcontext.DB(ctx).Take(&user2, "id", testutil.User2.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, 50, user2.Influence)

	var completions int64
	tx = xcontext.DB(ctx).Model(&entity.ProjectCompletion{}).
		Where("project_id = ?", testutil.Project1.ID).Count(&completions)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(2), completions)

	// Completing twice is rejected.
	_, err = domain.CompleteAndAward(ctx, req)
	require.Equal(t, errorx.New(errorx.Unavailable, "Project has already been completed"), err)
}

func Test_projectDomain_GetMembers(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestProjectDomain()

	_, err := domain.Join(ctx, &model.JoinProjectRequest{ProjectID: testutil.Project1.ID})
	require.NoError(t, err)

	resp, err := domain.GetMembers(ctx, &model.GetProjectMembersRequest{
		ProjectID: testutil.Project1.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Members, 2)
	require.Equal(t, testutil.User2.ID, resp.Members[0].ID)
	require.Equal(t, testutil.User3.ID, resp.Members[1].ID)
}
