package domain

import (
	"testing"
	"time"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/model"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/testutil"
	"github.com/chance-app/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func newTestUserDomain() UserDomain {
	return NewUserDomain(
		repository.NewUserRepository(),
		repository.NewProjectRepository(),
		repository.NewProjectMemberRepository(),
		repository.NewHeartbeatRepository(),
		&testutil.MockStorage{},
	)
}

func Test_userDomain_GetMe(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestUserDomain()

	resp, err := domain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, resp.User.ID)
	require.Equal(t, testutil.User2.Email, resp.User.Email)
	require.Equal(t, testutil.User2.Username, resp.User.Username)

	// Looking up another user hides sensitive fields.
	resp, err = domain.GetMe(ctx, &model.GetMeRequest{UserID: testutil.User3.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.User3.ID, resp.User.ID)
	require.Empty(t, resp.User.Email)

	_, err = domain.GetMe(ctx, &model.GetMeRequest{UserID: "not-exist"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found user"), err)
}

func Test_userDomain_UpdateMe(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestUserDomain()

	resp, err := domain.UpdateMe(ctx, &model.UpdateMeRequest{
		Bio:    "Gardener and tinkerer",
		School: "Greenfield High",
	})
	require.NoError(t, err)
	require.Equal(t, "Gardener and tinkerer", resp.User.Bio)
	require.Equal(t, "Greenfield High", resp.User.School)

	// Untouched fields keep their values.
	require.Equal(t, testutil.User2.FirstName, resp.User.FirstName)

	var result entity.User
	tx := xcontext.DB(ctx).Take(&result, "id", testutil.User2.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, "Gardener and tinkerer", result.Bio)
}

func Test_userDomain_GetMyProjects(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestUserDomain()

	second, err := testutil.SampleProject(ctx, &entity.Project{
		CreatedBy: testutil.User3.ID,
	})
	require.NoError(t, err)

	projectMemberRepo := repository.NewProjectMemberRepository()
	for _, projectID := range []string{testutil.Project1.ID, second.ID} {
		err := projectMemberRepo.Upsert(ctx, &entity.ProjectMember{
			ProjectID: projectID,
			UserID:    testutil.User3.ID,
		})
		require.NoError(t, err)
	}

	// Newest project first, one per page.
	resp, err := domain.GetMyProjects(ctx, &model.GetMyProjectsRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 1)
	require.Equal(t, second.ID, resp.Projects[0].ID)
	require.True(t, resp.Projects[0].IsCreator)
	require.NotEmpty(t, resp.NextCursor)

	resp, err = domain.GetMyProjects(ctx, &model.GetMyProjectsRequest{
		Limit:  1,
		Cursor: resp.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, resp.Projects, 1)
	require.Equal(t, testutil.Project1.ID, resp.Projects[0].ID)
	require.False(t, resp.Projects[0].IsCreator)
	require.True(t, resp.Projects[0].IsMember)

	_, err = domain.GetMyProjects(ctx, &model.GetMyProjectsRequest{
		Limit:  1,
		Cursor: "not-exist",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid cursor"), err)
}

func Test_userDomain_GetMyHeartbeats(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestUserDomain()

	time.Sleep(time.Millisecond)
	newest, err := testutil.SampleHeartbeat(ctx, &entity.Heartbeat{
		UserID: testutil.User2.ID,
	})
	require.NoError(t, err)

	resp, err := domain.GetMyHeartbeats(ctx, &model.GetMyHeartbeatsRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Heartbeats, 1)
	require.Equal(t, newest.ID, resp.Heartbeats[0].ID)
	require.NotEmpty(t, resp.NextCursor)

	resp, err = domain.GetMyHeartbeats(ctx, &model.GetMyHeartbeatsRequest{
		Limit:  1,
		Cursor: resp.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, resp.Heartbeats, 1)
	require.Equal(t, testutil.Heartbeat1.ID, resp.Heartbeats[0].ID)
}

func Test_userDomain_pagination_limit(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestUserDomain()

	_, err := domain.GetMyProjects(ctx, &model.GetMyProjectsRequest{Limit: -1})
	require.Equal(t, errorx.New(errorx.BadRequest, "Limit must be positive"), err)

	maxLimit := xcontext.Configs(ctx).ApiServer.MaxLimit
	_, err = domain.GetMyProjects(ctx, &model.GetMyProjectsRequest{Limit: maxLimit + 1})
	require.Equal(t, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", maxLimit), err)
}
