package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chance-app/backend/internal/entity"
	"github.com/chance-app/backend/internal/model"
	"github.com/chance-app/backend/internal/repository"
	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/testutil"
	"github.com/chance-app/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func newTestHeartbeatDomain(fileStorage *testutil.MockStorage) HeartbeatDomain {
	if fileStorage == nil {
		fileStorage = &testutil.MockStorage{}
	}

	return NewHeartbeatDomain(
		repository.NewHeartbeatRepository(),
		repository.NewHeartbeatCommentRepository(),
		repository.NewSharingLogRepository(),
		repository.NewUserRepository(),
		fileStorage,
	)
}

func Test_heartbeatDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestHeartbeatDomain(nil)

	resp, err := domain.Create(ctx, &model.CreateHeartbeatRequest{
		Content: "Started a study group",
	})
	require.NoError(t, err)
	require.Equal(t, "public", resp.Heartbeat.Visibility)
	require.Equal(t, testutil.User3.ID, resp.Heartbeat.Author.ID)

	var result entity.Heartbeat
	tx := xcontext.DB(ctx).Take(&result, "id", resp.Heartbeat.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, "Started a study group", result.Content)
}

func Test_heartbeatDomain_Create_invalidContent(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestHeartbeatDomain(nil)

	_, err := domain.Create(ctx, &model.CreateHeartbeatRequest{Content: ""})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow an empty content"), err)

	_, err = domain.Create(ctx, &model.CreateHeartbeatRequest{
		Content: strings.Repeat("a", maxHeartbeatContentLength+1),
	})
	require.Equal(t,
		errorx.New(errorx.BadRequest, "Content must not exceed %d characters", maxHeartbeatContentLength),
		err)

	// The limit counts characters, not bytes.
	resp, err := domain.Create(ctx, &model.CreateHeartbeatRequest{
		Content: strings.Repeat("ü", maxHeartbeatContentLength),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Heartbeat.ID)

	_, err = domain.Create(ctx, &model.CreateHeartbeatRequest{
		Content: strings.Repeat("ü", maxHeartbeatContentLength+1),
	})
	require.Equal(t,
		errorx.New(errorx.BadRequest, "Content must not exceed %d characters", maxHeartbeatContentLength),
		err)
}

func Test_heartbeatDomain_Like_toggle(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestHeartbeatDomain(nil)

	resp, err := domain.Like(ctx, &model.LikeHeartbeatRequest{ID: testutil.Heartbeat1.ID})
	require.NoError(t, err)
	require.True(t, resp.Liked)

	var result entity.Heartbeat
	tx := xcontext.DB(ctx).Take(&result, "id", testutil.Heartbeat1.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, 1, result.Likes)

	// The second like removes the first one.
	resp, err = domain.Like(ctx, &model.LikeHeartbeatRequest{ID: testutil.Heartbeat1.ID})
	require.NoError(t, err)
	require.False(t, resp.Liked)

	tx = xcontext.DB(ctx).Take(&result, "id", testutil.Heartbeat1.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, 0, result.Likes)
}

func Test_heartbeatDomain_Comment(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestHeartbeatDomain(nil)

	resp, err := domain.Comment(ctx, &model.CommentHeartbeatRequest{
		HeartbeatID: testutil.Heartbeat1.ID,
		Content:     "Looks great",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.User3.ID, resp.Comment.Author.ID)

	var result entity.Heartbeat
	tx := xcontext.DB(ctx).Take(&result, "id", testutil.Heartbeat1.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, 1, result.Comments)

	likeResp, err := domain.LikeComment(ctx, &model.LikeCommentRequest{ID: resp.Comment.ID})
	require.NoError(t, err)
	require.True(t, likeResp.Liked)

	_, err = domain.DeleteComment(ctx, &model.DeleteCommentRequest{ID: resp.Comment.ID})
	require.NoError(t, err)

	tx = xcontext.DB(ctx).Take(&result, "id", testutil.Heartbeat1.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, 0, result.Comments)

	var likes int64
	tx = xcontext.DB(ctx).Model(&entity.CommentLike{}).
		Where("comment_id = ?", resp.Comment.ID).Count(&likes)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(0), likes)
}

func Test_heartbeatDomain_DeleteComment_permissionDenied(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestHeartbeatDomain(nil)

	resp, err := domain.Comment(ctx, &model.CommentHeartbeatRequest{
		HeartbeatID: testutil.Heartbeat1.ID,
		Content:     "Looks great",
	})
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err = domain.DeleteComment(ctx, &model.DeleteCommentRequest{ID: resp.Comment.ID})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Only the author can delete the comment"), err)
}

func Test_heartbeatDomain_Delete(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	// A failing media removal must not fail the request.
	deleted := []string{}
	domain := newTestHeartbeatDomain(&testutil.MockStorage{
		DeleteFunc: func(ctx context.Context, url string) error {
			deleted = append(deleted, url)
			return errors.New("object storage is down")
		},
	})

	withImage, err := testutil.SampleHeartbeat(ctx, &entity.Heartbeat{
		UserID: testutil.User2.ID,
		Image:  "https://cdn.example.com/img.png",
	})
	require.NoError(t, err)

	_, err = domain.Comment(ctx, &model.CommentHeartbeatRequest{
		HeartbeatID: withImage.ID,
		Content:     "First",
	})
	require.NoError(t, err)

	_, err = domain.Delete(ctx, &model.DeleteHeartbeatRequest{ID: withImage.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"https://cdn.example.com/img.png"}, deleted)

	var heartbeats int64
	tx := xcontext.DB(ctx).Model(&entity.Heartbeat{}).
		Where("id = ?", withImage.ID).Count(&heartbeats)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(0), heartbeats)

	var comments int64
	tx = xcontext.DB(ctx).Model(&entity.HeartbeatComment{}).
		Where("heartbeat_id = ?", withImage.ID).Count(&comments)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(0), comments)
}

func Test_heartbeatDomain_GetList(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestHeartbeatDomain(nil)

	newest, err := testutil.SampleHeartbeat(ctx, &entity.Heartbeat{
		UserID: testutil.User3.ID,
	})
	require.NoError(t, err)

	resp, err := domain.GetList(ctx, &model.GetHeartbeatsRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Heartbeats, 1)
	require.Equal(t, newest.ID, resp.Heartbeats[0].ID)
	require.Equal(t, testutil.User3.ID, resp.Heartbeats[0].Author.ID)
	require.NotEmpty(t, resp.NextCursor)

	resp, err = domain.GetList(ctx, &model.GetHeartbeatsRequest{
		Limit:  1,
		Cursor: resp.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, resp.Heartbeats, 1)
	require.Equal(t, testutil.Heartbeat1.ID, resp.Heartbeats[0].ID)

	_, err = domain.GetList(ctx, &model.GetHeartbeatsRequest{Limit: 1, Cursor: "garbage"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid cursor"), err)
}

func Test_heartbeatDomain_GetList_visibility(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestHeartbeatDomain(nil)

	private, err := testutil.SampleHeartbeat(ctx, &entity.Heartbeat{
		UserID:     testutil.User2.ID,
		Visibility: entity.VisibilityPrivate,
	})
	require.NoError(t, err)

	// The public feed never contains private heartbeats, whoever asks.
	ctx = xcontext.WithRequestUserID(ctx, testutil.User3.ID)
	resp, err := domain.GetList(ctx, &model.GetHeartbeatsRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Heartbeats, 1)
	require.Equal(t, testutil.Heartbeat1.ID, resp.Heartbeats[0].ID)

	// The author still sees it in the own feed.
	ctx = xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	userDomain := newTestUserDomain()
	myResp, err := userDomain.GetMyHeartbeats(ctx, &model.GetMyHeartbeatsRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, myResp.Heartbeats, 2)
	require.Equal(t, private.ID, myResp.Heartbeats[0].ID)
}

func Test_heartbeatDomain_GetComments(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestHeartbeatDomain(nil)

	first, err := domain.Comment(ctx, &model.CommentHeartbeatRequest{
		HeartbeatID: testutil.Heartbeat1.ID,
		Content:     "First",
	})
	require.NoError(t, err)

	second, err := domain.Comment(ctx, &model.CommentHeartbeatRequest{
		HeartbeatID: testutil.Heartbeat1.ID,
		Content:     "Second",
	})
	require.NoError(t, err)

	// Newest comment first.
	resp, err := domain.GetComments(ctx, &model.GetCommentsRequest{
		HeartbeatID: testutil.Heartbeat1.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Comments, 2)
	require.Equal(t, second.Comment.ID, resp.Comments[0].ID)
	require.Equal(t, first.Comment.ID, resp.Comments[1].ID)

	_, err = domain.GetComments(ctx, &model.GetCommentsRequest{HeartbeatID: "not-exist"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found heartbeat"), err)
}

func Test_heartbeatDomain_Share(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestHeartbeatDomain(nil)

	resp, err := domain.Share(ctx, &model.ShareHeartbeatRequest{
		HeartbeatID: testutil.Heartbeat1.ID,
		ShareType:   "whatsapp",
	})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/heartbeats/"+testutil.Heartbeat1.ID, resp.ShareURL)

	var logs int64
	tx := xcontext.DB(ctx).Model(&entity.SharingLog{}).
		Where("heartbeat_id = ?", testutil.Heartbeat1.ID).Count(&logs)
	require.NoError(t, tx.Error)
	require.Equal(t, int64(1), logs)

	_, err = domain.Share(ctx, &model.ShareHeartbeatRequest{
		HeartbeatID: testutil.Heartbeat1.ID,
		ShareType:   "carrier-pigeon",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid share type %s", "carrier-pigeon"), err)
}
