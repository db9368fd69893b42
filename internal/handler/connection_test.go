package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahmid/socialgraph/internal/auth"
	"github.com/tahmid/socialgraph/internal/model"
)

// followTarget drives the follow handler for callerID -> targetID.
func followTarget(t *testing.T, env *testEnv, callerID, targetID string) *httptest.ResponseRecorder {
	t.Helper()
	req := authedRequest(http.MethodPost, "/api/users/"+targetID+"/follow", "",
		auth.Identity{UserID: callerID})
	req.SetPathValue("userID", targetID)
	rec := httptest.NewRecorder()
	env.connections.HandleFollow(rec, req)
	return rec
}

func decodeUsers(t *testing.T, body io.Reader) []model.User {
	t.Helper()
	var users []model.User
	require.NoError(t, json.NewDecoder(body).Decode(&users))
	return users
}

func TestHandleFollowUnfollow(t *testing.T) {
	t.Run("follow then unfollow", func(t *testing.T) {
		env := newTestEnv(t)
		onboardUser(t, env, "user_1", "alice")
		onboardUser(t, env, "user_2", "bob")

		rec := followTarget(t, env, "user_1", "user_2")
		require.Equal(t, http.StatusNoContent, rec.Code)

		req := authedRequest(http.MethodGet, "/api/connections/following", "",
			auth.Identity{UserID: "user_1"})
		listRec := httptest.NewRecorder()
		env.connections.HandleFollowing(listRec, req)
		require.Equal(t, http.StatusOK, listRec.Code)
		users := decodeUsers(t, listRec.Body)
		require.Len(t, users, 1)
		assert.Equal(t, "bob", users[0].Username)

		unfollowReq := authedRequest(http.MethodDelete, "/api/users/user_2/follow", "",
			auth.Identity{UserID: "user_1"})
		unfollowReq.SetPathValue("userID", "user_2")
		unfollowRec := httptest.NewRecorder()
		env.connections.HandleUnfollow(unfollowRec, unfollowReq)
		require.Equal(t, http.StatusNoContent, unfollowRec.Code)

		listRec = httptest.NewRecorder()
		env.connections.HandleFollowing(listRec, authedRequest(http.MethodGet,
			"/api/connections/following", "", auth.Identity{UserID: "user_1"}))
		assert.Empty(t, decodeUsers(t, listRec.Body))
	})

	t.Run("self-follow is 400", func(t *testing.T) {
		env := newTestEnv(t)
		onboardUser(t, env, "user_1", "alice")

		rec := followTarget(t, env, "user_1", "user_1")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var errResp ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
		assert.Equal(t, "validation_error", errResp.Error)
	})

	t.Run("following a missing user is a silent 204", func(t *testing.T) {
		env := newTestEnv(t)
		onboardUser(t, env, "user_1", "alice")

		rec := followTarget(t, env, "user_1", "ghost")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestHandleFollowers(t *testing.T) {
	env := newTestEnv(t)
	onboardUser(t, env, "user_1", "alice")
	onboardUser(t, env, "user_2", "bob")
	require.Equal(t, http.StatusNoContent, followTarget(t, env, "user_1", "user_2").Code)

	req := authedRequest(http.MethodGet, "/api/connections/followers", "",
		auth.Identity{UserID: "user_2"})
	rec := httptest.NewRecorder()
	env.connections.HandleFollowers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeUsers(t, rec.Body)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}

func TestHandleMutuals(t *testing.T) {
	env := newTestEnv(t)
	onboardUser(t, env, "user_1", "alice")
	onboardUser(t, env, "user_2", "bob")
	onboardUser(t, env, "user_3", "carol")

	// alice and bob both follow carol.
	require.Equal(t, http.StatusNoContent, followTarget(t, env, "user_1", "user_3").Code)
	require.Equal(t, http.StatusNoContent, followTarget(t, env, "user_2", "user_3").Code)

	req := authedRequest(http.MethodGet, "/api/connections/mutuals/user_2", "",
		auth.Identity{UserID: "user_1"})
	req.SetPathValue("userID", "user_2")
	rec := httptest.NewRecorder()
	env.connections.HandleMutuals(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeUsers(t, rec.Body)
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0].Username)
}

func TestHandleExplore(t *testing.T) {
	env := newTestEnv(t)
	onboardUser(t, env, "user_1", "carol")
	onboardUser(t, env, "user_2", "alice")
	onboardUser(t, env, "user_3", "bob")

	req := authedRequest(http.MethodGet, "/api/explore", "", auth.Identity{UserID: "user_1"})
	rec := httptest.NewRecorder()
	env.connections.HandleExplore(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeUsers(t, rec.Body)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username, "explore sorts username ascending")
	assert.Equal(t, "bob", users[1].Username)
}

func TestHandleFeed(t *testing.T) {
	env := newTestEnv(t)
	onboardUser(t, env, "user_1", "alice")
	onboardUser(t, env, "user_2", "bob")
	require.Equal(t, http.StatusNoContent, followTarget(t, env, "user_1", "user_2").Code)

	ctx := context.Background()
	require.NoError(t, env.store.InsertPost(ctx, "user_2",
		&model.Post{ID: "post_1", Content: "first", CreatedAt: "2026-08-01T10:00:00Z"}))
	require.NoError(t, env.store.InsertPost(ctx, "user_2",
		&model.Post{ID: "post_2", Content: "second", CreatedAt: "2026-08-01T10:01:00Z"}))

	req := authedRequest(http.MethodGet, "/api/feed", "", auth.Identity{UserID: "user_1"})
	rec := httptest.NewRecorder()
	env.feed.HandleFeed(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var posts []model.FeedPost
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "post_2", posts[0].ID, "newest first")
	assert.Equal(t, "post_1", posts[1].ID)
	assert.Equal(t, "bob", posts[0].Author.Username)

	// An outsider's feed is empty, not an error.
	outsiderReq := authedRequest(http.MethodGet, "/api/feed", "", auth.Identity{UserID: "user_2"})
	outsiderRec := httptest.NewRecorder()
	env.feed.HandleFeed(outsiderRec, outsiderReq)
	require.Equal(t, http.StatusOK, outsiderRec.Code)

	var outsiderPosts []model.FeedPost
	require.NoError(t, json.NewDecoder(outsiderRec.Body).Decode(&outsiderPosts))
	assert.Empty(t, outsiderPosts)
}
