package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yschu/twitter/backend/internal/models"
)

func (suite *HandlersTestSuite) TestPostTweet() {
	t := suite.T()

	w := suite.request("POST", "/api/tweets", map[string]string{
		"description": "hello world",
	}, suite.user)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tweet struct {
		ID          string `json:"id"`
		UserID      string `json:"userId"`
		Description string `json:"description"`
		User        struct {
			Account string `json:"account"`
		} `json:"user"`
	}
	suite.decodeData(w, &tweet)

	assert.NotEmpty(t, tweet.ID)
	assert.Equal(t, suite.user.ID, tweet.UserID)
	assert.Equal(t, "hello world", tweet.Description)
	assert.Equal(t, "alice", tweet.User.Account)

	var count int64
	suite.db.Model(&models.Tweet{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestPostTweetBlank() {
	t := suite.T()

	w := suite.request("POST", "/api/tweets", map[string]string{
		"description": "   ",
	}, suite.user)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "內容不可空白", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestPostTweetTooLong() {
	t := suite.T()

	w := suite.request("POST", "/api/tweets", map[string]string{
		"description": strings.Repeat("字", 141),
	}, suite.user)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "字數不可超過 140 字", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestPostTweetExactly140Runes() {
	t := suite.T()

	// Limit counts runes, not bytes
	w := suite.request("POST", "/api/tweets", map[string]string{
		"description": strings.Repeat("字", 140),
	}, suite.user)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlersTestSuite) TestGetTweets() {
	t := suite.T()
	now := time.Now()

	older := suite.createTweet(suite.user.ID, "older", now.Add(-2*time.Minute))
	newer := suite.createTweet(suite.other.ID, "newer", now.Add(-time.Minute))
	suite.like(suite.user.ID, newer.ID, now)

	w := suite.request("GET", "/api/tweets", nil, suite.user)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tweets []struct {
		ID         string `json:"id"`
		LikeCount  int64  `json:"likeCount"`
		ReplyCount int64  `json:"replyCount"`
		IsLiked    bool   `json:"isLiked"`
	}
	suite.decodeData(w, &tweets)

	require.Len(t, tweets, 2)
	assert.Equal(t, newer.ID, tweets[0].ID)
	assert.Equal(t, older.ID, tweets[1].ID)
	assert.True(t, tweets[0].IsLiked)
	assert.Equal(t, int64(1), tweets[0].LikeCount)
}

func (suite *HandlersTestSuite) TestGetTweet() {
	t := suite.T()
	now := time.Now()

	tweet := suite.createTweet(suite.other.ID, "a tweet", now.Add(-time.Minute))
	suite.like(suite.user.ID, tweet.ID, now)
	require.NoError(t, suite.db.Create(&models.Reply{
		UserID:  suite.user.ID,
		TweetID: tweet.ID,
		Comment: "nice",
	}).Error)

	w := suite.request("GET", "/api/tweets/"+tweet.ID, nil, suite.user)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		ID         string `json:"id"`
		LikeCount  int64  `json:"likeCount"`
		ReplyCount int64  `json:"replyCount"`
		IsLiked    bool   `json:"isLiked"`
	}
	suite.decodeData(w, &got)

	assert.Equal(t, tweet.ID, got.ID)
	assert.Equal(t, int64(1), got.LikeCount)
	assert.Equal(t, int64(1), got.ReplyCount)
	assert.True(t, got.IsLiked)
}

func (suite *HandlersTestSuite) TestGetTweetNotFound() {
	t := suite.T()

	w := suite.request("GET", "/api/tweets/missing-id", nil, suite.user)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestPostReply() {
	t := suite.T()

	tweet := suite.createTweet(suite.other.ID, "a tweet", time.Now())

	w := suite.request("POST", "/api/tweets/"+tweet.ID+"/replies", map[string]string{
		"comment": "a fine reply",
	}, suite.user)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reply struct {
		TweetID string `json:"tweetId"`
		Comment string `json:"comment"`
	}
	suite.decodeData(w, &reply)
	assert.Equal(t, tweet.ID, reply.TweetID)
	assert.Equal(t, "a fine reply", reply.Comment)
}

func (suite *HandlersTestSuite) TestPostReplyBlank() {
	t := suite.T()

	tweet := suite.createTweet(suite.other.ID, "a tweet", time.Now())

	w := suite.request("POST", "/api/tweets/"+tweet.ID+"/replies", map[string]string{
		"comment": "",
	}, suite.user)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestPostReplyTweetNotFound() {
	t := suite.T()

	w := suite.request("POST", "/api/tweets/missing-id/replies", map[string]string{
		"comment": "into the void",
	}, suite.user)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestGetReplies() {
	t := suite.T()
	now := time.Now()

	tweet := suite.createTweet(suite.other.ID, "a tweet", now.Add(-time.Hour))
	for i, comment := range []string{"first", "second"} {
		require.NoError(t, suite.db.Create(&models.Reply{
			UserID:    suite.user.ID,
			TweetID:   tweet.ID,
			Comment:   comment,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	w := suite.request("GET", "/api/tweets/"+tweet.ID+"/replies", nil, suite.user)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var replies []struct {
		Comment string `json:"comment"`
		User    struct {
			Account string `json:"account"`
		} `json:"user"`
	}
	suite.decodeData(w, &replies)

	require.Len(t, replies, 2)
	// Conversation order, oldest first
	assert.Equal(t, "first", replies[0].Comment)
	assert.Equal(t, "second", replies[1].Comment)
	assert.Equal(t, "alice", replies[0].User.Account)
}

func (suite *HandlersTestSuite) TestLikeAndUnlike() {
	t := suite.T()

	tweet := suite.createTweet(suite.other.ID, "a tweet", time.Now())

	w := suite.request("POST", "/api/tweets/"+tweet.ID+"/like", nil, suite.user)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	suite.db.Model(&models.Like{}).Where("tweet_id = ?", tweet.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	w = suite.request("POST", "/api/tweets/"+tweet.ID+"/unlike", nil, suite.user)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	suite.db.Model(&models.Like{}).Where("tweet_id = ?", tweet.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestLikeTwice() {
	t := suite.T()

	tweet := suite.createTweet(suite.other.ID, "a tweet", time.Now())
	suite.like(suite.user.ID, tweet.ID, time.Now())

	w := suite.request("POST", "/api/tweets/"+tweet.ID+"/like", nil, suite.user)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "已經喜歡過此推文！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestUnlikeWithoutLike() {
	t := suite.T()

	tweet := suite.createTweet(suite.other.ID, "a tweet", time.Now())

	w := suite.request("POST", "/api/tweets/"+tweet.ID+"/unlike", nil, suite.user)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestLikeTweetNotFound() {
	t := suite.T()

	w := suite.request("POST", "/api/tweets/missing-id/like", nil, suite.user)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
