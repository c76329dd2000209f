package handler

import (
	"net/http"
	"strconv"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"
	"uplink/backend/model"

	"github.com/gin-gonic/gin"
)

// folderForOwner loads a folder and verifies it belongs to the caller's
// workspace.
func folderForOwner(c *gin.Context, workspaceID int64) (*model.Folder, bool) {
	lang := c.GetString("lang")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, "id"))
		return nil, false
	}
	folder, err := model.GetFolderByID(id, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return nil, false
	}
	if folder.WorkspaceID != workspaceID {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(uperrors.ErrNotOwner, lang))
		return nil, false
	}
	return folder, true
}

func GetFolders(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	folders, err := model.GetFoldersByWorkspace(workspace.ID)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, folders)
}

type FolderRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	ParentID int64  `json:"parent_id" validate:"gte=0"`
}

func CreateFolder(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	var req FolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if req.ParentID != 0 {
		parent, err := model.GetFolderByID(req.ParentID, lang)
		if err != nil || parent.WorkspaceID != workspace.ID {
			common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrFolderNotFound, lang))
			return
		}
	}
	folder := &model.Folder{
		WorkspaceID: workspace.ID,
		ParentID:    req.ParentID,
		Name:        req.Name,
	}
	if err := folder.Save(); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, folder)
}

// UpdateFolder renames and/or moves a folder. Moving under one of its own
// descendants is rejected by walking the candidate parent chain.
func UpdateFolder(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	folder, ok := folderForOwner(c, workspace.ID)
	if !ok {
		return
	}
	var req FolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}

	if req.ParentID != folder.ParentID {
		parentID := req.ParentID
		for parentID != 0 {
			if parentID == folder.ID {
				common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, "parent_id"))
				return
			}
			parent, err := model.GetFolderByID(parentID, lang)
			if err != nil || parent.WorkspaceID != workspace.ID {
				common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrFolderNotFound, lang))
				return
			}
			parentID = parent.ParentID
		}
		folder.ParentID = req.ParentID
	}
	folder.Name = req.Name
	if err := folder.Save(); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, folder)
}

func DeleteFolderHandler(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	folder, ok := folderForOwner(c, workspace.ID)
	if !ok {
		return
	}
	if err := model.DeleteFolder(folder, lang); err != nil {
		if i18n.IsErrorCode(err, uperrors.ErrFolderNotEmpty) {
			common.RespErrorStr(c, http.StatusConflict, err.Error())
			return
		}
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccessStr(c, "folder deleted")
}
