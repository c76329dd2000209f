package handler

import (
	"net/http"

	"uplink/backend/common"
	"uplink/backend/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// currentUserID pulls the authenticated user id set by JWTAuth. The bool
// result is false only when middleware wiring is broken; handlers answer
// 500 in that case.
func currentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		common.RespErrorStr(c, http.StatusInternalServerError, "user_id not found in context")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok {
		common.RespErrorStr(c, http.StatusInternalServerError, "invalid user_id type in context")
		return 0, false
	}
	return id, true
}

// currentWorkspace resolves the caller's workspace, creating it on first
// touch so onboarding never needs a separate call.
func currentWorkspace(c *gin.Context) (*model.Workspace, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	username := c.GetString("username")
	workspace, err := model.EnsureWorkspaceForUser(userID, username+"'s Workspace")
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to resolve workspace", err)
		return nil, false
	}
	return workspace, true
}
