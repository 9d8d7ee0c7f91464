package handlers

import (
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yschu/twitter/backend/internal/models"
)

func (suite *HandlersTestSuite) TestPostFollowship() {
	t := suite.T()

	w := suite.request("POST", "/api/followships", map[string]string{
		"id": suite.other.ID,
	}, suite.user)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	suite.db.Model(&models.Followship{}).
		Where("follower_id = ? AND following_id = ?", suite.user.ID, suite.other.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestPostFollowshipSelf() {
	t := suite.T()

	w := suite.request("POST", "/api/followships", map[string]string{
		"id": suite.user.ID,
	}, suite.user)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "不能追蹤自己！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestPostFollowshipDuplicate() {
	t := suite.T()

	suite.follow(suite.user.ID, suite.other.ID, time.Now())

	w := suite.request("POST", "/api/followships", map[string]string{
		"id": suite.other.ID,
	}, suite.user)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "已經追蹤過此使用者！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestPostFollowshipTargetNotFound() {
	t := suite.T()

	w := suite.request("POST", "/api/followships", map[string]string{
		"id": "00000000-0000-0000-0000-000000000000",
	}, suite.user)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestDeleteFollowship() {
	t := suite.T()

	suite.follow(suite.user.ID, suite.other.ID, time.Now())

	w := suite.request("DELETE", "/api/followships/"+suite.other.ID, nil, suite.user)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	suite.db.Model(&models.Followship{}).
		Where("follower_id = ?", suite.user.ID).
		Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestDeleteFollowshipNotFollowing() {
	t := suite.T()

	w := suite.request("DELETE", "/api/followships/"+suite.other.ID, nil, suite.user)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
