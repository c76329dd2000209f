package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"uplink/backend/common"
	"uplink/backend/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	common.JWTSecret = "test-jwt-secret-for-handler-tests"
	common.JWTRefreshSecret = "test-jwt-refresh-secret-for-handler-tests"
}

// setupAuthRouter wires the auth handlers with the session middleware they
// expect.
func setupAuthRouter(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	teardown := setupHandlerTestDB(t)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	store := cookie.NewStore([]byte("test-session-secret"))
	router.Use(sessions.Sessions("session", store))
	router.Use(func(c *gin.Context) { c.Set("lang", "en") })
	router.POST("/api/auth/register", Register)
	router.POST("/api/auth/login", Login)
	router.POST("/api/auth/refresh", RefreshToken)

	return router, teardown
}

func TestRegisterAndLogin(t *testing.T) {
	router, teardown := setupAuthRouter(t)
	defer teardown()

	registerReq := newJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username": "alice",
		"password": "hunter22",
		"email":    "alice@example.com",
	})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, registerReq)
	assert.Equal(t, http.StatusOK, recorder.Code)

	resp := decodeAPIResponse(t, recorder)
	assert.True(t, resp.Success)
	var user model.User
	assert.NoError(t, json.Unmarshal(resp.Data, &user))
	assert.Equal(t, "alice", user.Username)
	// The password hash must never appear in a response.
	assert.NotContains(t, recorder.Body.String(), "password")

	// Registration provisions the workspace immediately.
	workspace, err := model.GetWorkspaceByUserID(user.ID, "en")
	assert.NoError(t, err)
	assert.NotNil(t, workspace)

	loginReq := newJSONRequest(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "alice",
		"password": "hunter22",
	})
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, loginReq)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var pair tokenPair
	assert.NoError(t, json.Unmarshal(decodeAPIResponse(t, recorder).Data, &pair))
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "alice", pair.User.Username)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	router, teardown := setupAuthRouter(t)
	defer teardown()

	payload := map[string]any{"username": "alice", "password": "hunter22"}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/auth/register", payload))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/auth/register", payload))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRegister_Disabled(t *testing.T) {
	router, teardown := setupAuthRouter(t)
	defer teardown()

	assert.NoError(t, model.UpdateOption(model.OptionRegisterEnabled, "false"))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username": "alice",
		"password": "hunter22",
	}))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRegister_InvalidPayload(t *testing.T) {
	router, teardown := setupAuthRouter(t)
	defer teardown()

	// Too-short username and password fail validation.
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username": "ab",
		"password": "123",
	}))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, teardown := setupAuthRouter(t)
	defer teardown()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username": "alice",
		"password": "hunter22",
	}))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "alice",
		"password": "wrong-password",
	}))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRefreshToken_Flow(t *testing.T) {
	router, teardown := setupAuthRouter(t)
	defer teardown()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username": "alice",
		"password": "hunter22",
	}))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "alice",
		"password": "hunter22",
	}))
	var pair tokenPair
	assert.NoError(t, json.Unmarshal(decodeAPIResponse(t, recorder).Data, &pair))

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/auth/refresh", map[string]any{
		"refresh_token": pair.RefreshToken,
	}))
	assert.Equal(t, http.StatusOK, recorder.Code)

	var refreshed tokenPair
	assert.NoError(t, json.Unmarshal(decodeAPIResponse(t, recorder).Data, &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, newJSONRequest(t, http.MethodPost, "/api/auth/refresh", map[string]any{
		"refresh_token": "garbage",
	}))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
