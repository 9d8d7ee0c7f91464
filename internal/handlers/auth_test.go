package handlers

import (
	"net/http"

	"github.com/stretchr/testify/assert"
)

func (suite *HandlersTestSuite) TestRegister() {
	t := suite.T()

	w := suite.request("POST", "/api/users", map[string]string{
		"account":       "dave",
		"name":          "Dave",
		"email":         "dave@example.com",
		"password":      "12345678",
		"checkPassword": "12345678",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user map[string]interface{}
	suite.decodeData(w, &user)
	assert.Equal(t, "dave", user["account"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, w.Body.String(), "password")
}

func (suite *HandlersTestSuite) TestRegisterMissingFields() {
	t := suite.T()

	w := suite.request("POST", "/api/users", map[string]string{
		"account":       "dave",
		"password":      "12345678",
		"checkPassword": "12345678",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "所有欄位都是必填！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestRegisterPasswordMismatch() {
	t := suite.T()

	w := suite.request("POST", "/api/users", map[string]string{
		"account":       "dave",
		"name":          "Dave",
		"email":         "dave@example.com",
		"password":      "12345678",
		"checkPassword": "87654321",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "兩次密碼輸入不同！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestRegisterDuplicateEmail() {
	t := suite.T()

	w := suite.request("POST", "/api/users", map[string]string{
		"account":       "dave",
		"name":          "Dave",
		"email":         suite.user.Email,
		"password":      "12345678",
		"checkPassword": "12345678",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email 已重複註冊！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestRegisterDuplicateAccount() {
	t := suite.T()

	w := suite.request("POST", "/api/users", map[string]string{
		"account":       suite.user.Account,
		"name":          "Dave",
		"email":         "dave@example.com",
		"password":      "12345678",
		"checkPassword": "12345678",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "account 已重複註冊！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestLogin() {
	t := suite.T()

	w := suite.request("POST", "/api/users/login", map[string]string{
		"email":    suite.user.Email,
		"password": "12345678",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	suite.decodeData(w, &data)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, suite.user.ID, data.User.ID)
}

func (suite *HandlersTestSuite) TestLoginBlankFields() {
	t := suite.T()

	w := suite.request("POST", "/api/users/login", map[string]string{
		"email":    "",
		"password": "",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "所有欄位都是必填！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestLoginWrongPassword() {
	t := suite.T()

	w := suite.request("POST", "/api/users/login", map[string]string{
		"email":    suite.user.Email,
		"password": "wrong-password",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "帳號或密碼錯誤！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestLoginUnknownEmail() {
	t := suite.T()

	w := suite.request("POST", "/api/users/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "12345678",
	}, nil)

	// Same message as a bad password so responses don't reveal which
	// credential failed
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "帳號或密碼錯誤！", suite.decode(w).Message)
}

func (suite *HandlersTestSuite) TestLoginRejectsAdminOnUserEndpoint() {
	t := suite.T()

	w := suite.request("POST", "/api/users/login", map[string]string{
		"email":    suite.admin.Email,
		"password": "12345678",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestAdminLogin() {
	t := suite.T()

	w := suite.request("POST", "/api/admin/users/login", map[string]string{
		"email":    suite.admin.Email,
		"password": "12345678",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlersTestSuite) TestAdminLoginRejectsRegularUser() {
	t := suite.T()

	w := suite.request("POST", "/api/admin/users/login", map[string]string{
		"email":    suite.user.Email,
		"password": "12345678",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
