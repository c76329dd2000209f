package handler

import (
	"net/http"
	"strconv"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"
	"uplink/backend/model"
	"uplink/backend/service"

	"github.com/gin-gonic/gin"
)

func fileForOwner(c *gin.Context, workspaceID int64) (*model.File, bool) {
	lang := c.GetString("lang")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, "id"))
		return nil, false
	}
	file, err := model.GetFileByID(id, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return nil, false
	}
	if file.WorkspaceID != workspaceID {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(uperrors.ErrNotOwner, lang))
		return nil, false
	}
	return file, true
}

func GetFiles(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	p, _ := strconv.Atoi(c.Query("p"))
	if p < 0 {
		p = 0
	}
	if folderIDStr := c.Query("folder_id"); folderIDStr != "" {
		folderID, err := strconv.ParseInt(folderIDStr, 10, 64)
		if err != nil {
			common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, c.GetString("lang"), "folder_id"))
			return
		}
		folder, err := model.GetFolderByID(folderID, c.GetString("lang"))
		if err != nil || folder.WorkspaceID != workspace.ID {
			common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(uperrors.ErrFolderNotFound, c.GetString("lang")))
			return
		}
		files, err := model.GetFilesByFolder(folderID, p*common.ItemsPerPage, common.ItemsPerPage)
		if err != nil {
			common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
			return
		}
		common.RespSuccess(c, files)
		return
	}
	files, err := model.GetFilesByWorkspace(workspace.ID, p*common.ItemsPerPage, common.ItemsPerPage)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, files)
}

func SearchWorkspaceFiles(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	keyword := c.Query("keyword")
	files, err := model.SearchFiles(workspace.ID, keyword)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, files)
}

// DownloadFile streams the blob with the uploader's filename.
func DownloadFile(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	file, ok := fileForOwner(c, workspace.ID)
	if !ok {
		return
	}
	blob, err := service.Store.Open(file.ObjectKey)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to open stored file", err)
		return
	}
	defer blob.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.DataFromReader(http.StatusOK, file.Size, contentType, blob, nil)
}

func DeleteFileHandler(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	file, ok := fileForOwner(c, workspace.ID)
	if !ok {
		return
	}
	if err := service.DeleteStoredFile(file, lang); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccessStr(c, "file deleted")
}

func GetBatches(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	p, _ := strconv.Atoi(c.Query("p"))
	if p < 0 {
		p = 0
	}
	if linkIDStr := c.Query("link_id"); linkIDStr != "" {
		linkID, err := strconv.ParseInt(linkIDStr, 10, 64)
		if err != nil {
			common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, "link_id"))
			return
		}
		link, err := model.GetLinkByID(linkID, lang)
		if err != nil || link.WorkspaceID != workspace.ID {
			common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(uperrors.ErrLinkNotFound, lang))
			return
		}
		batches, err := model.GetBatchesByLink(linkID, p*common.ItemsPerPage, common.ItemsPerPage)
		if err != nil {
			common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
			return
		}
		common.RespSuccess(c, batches)
		return
	}
	batches, err := model.GetBatchesByWorkspace(workspace.ID, p*common.ItemsPerPage, common.ItemsPerPage)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, batches)
}

// GetBatch returns a batch and its files, addressed by public id.
func GetBatch(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	batch, err := model.GetBatchByPublicID(c.Param("public_id"), lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	if batch.WorkspaceID != workspace.ID {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(uperrors.ErrNotOwner, lang))
		return
	}
	files, err := model.GetFilesByBatch(batch.ID)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, gin.H{"batch": batch, "files": files})
}

func DeleteBatchHandler(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	batch, err := model.GetBatchByPublicID(c.Param("public_id"), lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	if batch.WorkspaceID != workspace.ID {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(uperrors.ErrNotOwner, lang))
		return
	}
	if err := service.DeleteBatch(batch, lang); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccessStr(c, "batch deleted")
}
