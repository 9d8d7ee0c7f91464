package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yschu/twitter/backend/internal/models"
)

// multipartRequest performs a multipart/form-data PUT as the given user
func (suite *HandlersTestSuite) multipartRequest(path string, fields map[string]string, files map[string]string, asUser *models.User) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(suite.T(), writer.WriteField(key, value))
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(suite.T(), err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(suite.T(), err)
	}
	require.NoError(suite.T(), writer.Close())

	req, err := http.NewRequest("PUT", path, &buf)
	require.NoError(suite.T(), err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if asUser != nil {
		req.Header.Set("X-User-ID", asUser.ID)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) TestPutUserProfile() {
	t := suite.T()

	w := suite.multipartRequest("/api/users/"+suite.user.ID, map[string]string{
		"name":         "Alice Renamed",
		"introduction": "hello there",
	}, nil, suite.user)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var dbUser models.User
	require.NoError(t, suite.db.First(&dbUser, "id = ?", suite.user.ID).Error)
	assert.Equal(t, "Alice Renamed", dbUser.Name)
	assert.Equal(t, "hello there", dbUser.Introduction)
}

func (suite *HandlersTestSuite) TestPutUserProfileWithImages() {
	t := suite.T()

	w := suite.multipartRequest("/api/users/"+suite.user.ID, map[string]string{
		"name": "Alice",
	}, map[string]string{
		"avatar": "avatar.png",
		"cover":  "cover.jpg",
	}, suite.user)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var dbUser models.User
	require.NoError(t, suite.db.First(&dbUser, "id = ?", suite.user.ID).Error)
	assert.True(t, strings.HasPrefix(dbUser.Avatar, "https://images.example.com/"))
	assert.True(t, strings.HasPrefix(dbUser.Cover, "https://images.example.com/"))
}

func (suite *HandlersTestSuite) TestPutUserProfileKeepsIntroductionWhenOmitted() {
	t := suite.T()

	require.NoError(t, suite.db.Model(&models.User{}).
		Where("id = ?", suite.user.ID).
		Update("introduction", "keep me").Error)

	w := suite.multipartRequest("/api/users/"+suite.user.ID, map[string]string{
		"name": "Alice",
	}, nil, suite.user)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var dbUser models.User
	require.NoError(t, suite.db.First(&dbUser, "id = ?", suite.user.ID).Error)
	assert.Equal(t, "keep me", dbUser.Introduction)
}

func (suite *HandlersTestSuite) TestPutUserProfileClearsIntroductionWhenBlank() {
	t := suite.T()

	require.NoError(t, suite.db.Model(&models.User{}).
		Where("id = ?", suite.user.ID).
		Update("introduction", "old text").Error)

	w := suite.multipartRequest("/api/users/"+suite.user.ID, map[string]string{
		"name":         "Alice",
		"introduction": "",
	}, nil, suite.user)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var dbUser models.User
	require.NoError(t, suite.db.First(&dbUser, "id = ?", suite.user.ID).Error)
	assert.Empty(t, dbUser.Introduction)
}

func (suite *HandlersTestSuite) TestPutUserProfileRejectsBadExtension() {
	t := suite.T()

	w := suite.multipartRequest("/api/users/"+suite.user.ID, map[string]string{
		"name": "Alice",
	}, map[string]string{
		"avatar": "script.exe",
	}, suite.user)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestPutUserProfileNameTooLong() {
	t := suite.T()

	w := suite.multipartRequest("/api/users/"+suite.user.ID, map[string]string{
		"name": strings.Repeat("a", 51),
	}, nil, suite.user)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "名稱字數超出上限！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestPutUserProfileIntroductionTooLong() {
	t := suite.T()

	w := suite.multipartRequest("/api/users/"+suite.user.ID, map[string]string{
		"name":         "Alice",
		"introduction": strings.Repeat("字", 161),
	}, nil, suite.user)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "自我介紹字數超出上限！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestPutUserProfileOtherUser() {
	t := suite.T()

	w := suite.multipartRequest("/api/users/"+suite.other.ID, map[string]string{
		"name": "Hijacked",
	}, nil, suite.user)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestPutUserProfileDeleteAvatar() {
	t := suite.T()

	require.NoError(t, suite.db.Model(&models.User{}).
		Where("id = ?", suite.user.ID).
		Update("avatar", "https://images.example.com/old").Error)

	w := suite.multipartRequest("/api/users/"+suite.user.ID, map[string]string{
		"name":         "Alice",
		"deleteAvatar": "1",
	}, nil, suite.user)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var dbUser models.User
	require.NoError(t, suite.db.First(&dbUser, "id = ?", suite.user.ID).Error)
	assert.Empty(t, dbUser.Avatar)
}
