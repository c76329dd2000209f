package handler

import (
	"net/http"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"

	"github.com/gin-gonic/gin"
)

func GetWorkspace(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	common.RespSuccess(c, workspace)
}

type RenameWorkspaceRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func RenameWorkspace(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	var req RenameWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := workspace.Rename(req.Name); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, workspace)
}
