package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yschu/twitter/backend/internal/models"
)

func (suite *HandlersTestSuite) TestAdminGetUsers() {
	t := suite.T()
	now := time.Now()

	tweet1 := suite.createTweet(suite.user.ID, "one", now.Add(-3*time.Minute))
	suite.createTweet(suite.user.ID, "two", now.Add(-2*time.Minute))
	suite.createTweet(suite.other.ID, "bob's only tweet", now.Add(-time.Minute))
	suite.like(suite.other.ID, tweet1.ID, now)
	suite.follow(suite.other.ID, suite.user.ID, now)

	w := suite.request("GET", "/api/admin/users", nil, suite.admin)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Users []struct {
			ID             string `json:"id"`
			TweetCount     int64  `json:"tweetCount"`
			LikeCount      int64  `json:"likeCount"`
			FollowerCount  int64  `json:"followerCount"`
			FollowingCount int64  `json:"followingCount"`
		} `json:"users"`
		Total int64 `json:"total"`
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
	}
	suite.decodeData(w, &data)

	assert.Equal(t, int64(3), data.Total)
	assert.Equal(t, 1, data.Page)
	assert.Equal(t, 10, data.Limit)
	require.Len(t, data.Users, 3)

	// Most tweets first
	assert.Equal(t, suite.user.ID, data.Users[0].ID)
	assert.Equal(t, int64(2), data.Users[0].TweetCount)
	assert.Equal(t, int64(1), data.Users[0].LikeCount)
	assert.Equal(t, int64(1), data.Users[0].FollowerCount)
	assert.Equal(t, int64(0), data.Users[0].FollowingCount)
}

func (suite *HandlersTestSuite) TestAdminGetUsersPagination() {
	t := suite.T()

	w := suite.request("GET", "/api/admin/users?page=2&limit=2", nil, suite.admin)
	assert.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Users []struct {
			ID string `json:"id"`
		} `json:"users"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"totalPages"`
	}
	suite.decodeData(w, &data)

	assert.Equal(t, int64(3), data.Total)
	assert.Equal(t, int64(2), data.TotalPages)
	assert.Len(t, data.Users, 1)
}

func (suite *HandlersTestSuite) TestAdminGetUsersForbiddenForRegularUser() {
	t := suite.T()

	w := suite.request("GET", "/api/admin/users", nil, suite.user)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestAdminPatchUserRole() {
	t := suite.T()

	w := suite.request("PATCH", "/api/admin/users/"+suite.user.ID, map[string]string{
		"role": "admin",
	}, suite.admin)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var dbUser models.User
	require.NoError(t, suite.db.First(&dbUser, "id = ?", suite.user.ID).Error)
	assert.Equal(t, models.RoleAdmin, dbUser.Role)
}

func (suite *HandlersTestSuite) TestAdminPatchUserInvalidRole() {
	t := suite.T()

	w := suite.request("PATCH", "/api/admin/users/"+suite.user.ID, map[string]string{
		"role": "superuser",
	}, suite.admin)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestAdminPatchRootProtected() {
	t := suite.T()

	root := suite.createUser("root", models.RootEmail, models.RoleAdmin)

	w := suite.request("PATCH", "/api/admin/users/"+root.ID, map[string]string{
		"role": "user",
	}, suite.admin)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "無法變更 root 的權限！", suite.decode(w).Message)

	var dbUser models.User
	require.NoError(t, suite.db.First(&dbUser, "id = ?", root.ID).Error)
	assert.Equal(t, models.RoleAdmin, dbUser.Role)
}

func (suite *HandlersTestSuite) TestAdminPatchUserNotFound() {
	t := suite.T()

	w := suite.request("PATCH", "/api/admin/users/missing-id", map[string]string{
		"role": "admin",
	}, suite.admin)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestAdminGetTweets() {
	t := suite.T()
	now := time.Now()

	long := strings.Repeat("字", 80)
	suite.createTweet(suite.user.ID, long, now.Add(-time.Minute))

	w := suite.request("GET", "/api/admin/tweets", nil, suite.admin)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tweets []struct {
		Description string `json:"description"`
		User        struct {
			Account string `json:"account"`
		} `json:"user"`
	}
	suite.decodeData(w, &tweets)

	require.Len(t, tweets, 1)
	// Moderation listing truncates to 50 characters
	assert.Equal(t, 50, len([]rune(tweets[0].Description)))
	assert.Equal(t, "alice", tweets[0].User.Account)
}

func (suite *HandlersTestSuite) TestAdminDeleteTweetCascades() {
	t := suite.T()
	now := time.Now()

	tweet := suite.createTweet(suite.user.ID, "to be removed", now.Add(-time.Minute))
	keep := suite.createTweet(suite.other.ID, "to be kept", now)
	suite.like(suite.other.ID, tweet.ID, now)
	suite.like(suite.user.ID, keep.ID, now)
	require.NoError(t, suite.db.Create(&models.Reply{
		UserID:  suite.other.ID,
		TweetID: tweet.ID,
		Comment: "soon gone",
	}).Error)

	w := suite.request("DELETE", "/api/admin/tweets/"+tweet.ID, nil, suite.admin)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	suite.db.Model(&models.Tweet{}).Where("id = ?", tweet.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	suite.db.Model(&models.Reply{}).Where("tweet_id = ?", tweet.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	suite.db.Model(&models.Like{}).Where("tweet_id = ?", tweet.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Unrelated rows survive
	suite.db.Model(&models.Like{}).Where("tweet_id = ?", keep.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestAdminDeleteTweetNotFound() {
	t := suite.T()

	w := suite.request("DELETE", "/api/admin/tweets/missing-id", nil, suite.admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestAdminEndpointsRejectAnonymous() {
	t := suite.T()

	w := suite.request("GET", "/api/admin/tweets", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
