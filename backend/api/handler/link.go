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

func linkForOwner(c *gin.Context, workspaceID int64) (*model.Link, bool) {
	lang := c.GetString("lang")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, "id"))
		return nil, false
	}
	link, err := model.GetLinkByID(id, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return nil, false
	}
	if link.WorkspaceID != workspaceID {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(uperrors.ErrNotOwner, lang))
		return nil, false
	}
	return link, true
}

func GetLinks(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	p, _ := strconv.Atoi(c.Query("p"))
	if p < 0 {
		p = 0
	}
	links, err := model.GetLinksByWorkspace(workspace.ID, p*common.ItemsPerPage, common.ItemsPerPage)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, links)
}

func GetLink(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	link, ok := linkForOwner(c, workspace.ID)
	if !ok {
		return
	}
	common.RespSuccess(c, link)
}

type LinkRequest struct {
	Title            string `json:"title" validate:"required,max=120"`
	Message          string `json:"message" validate:"omitempty,max=2000"`
	FolderID         int64  `json:"folder_id" validate:"required,gt=0"`
	Slug             string `json:"slug" validate:"omitempty,min=3,max=48"`
	Password         string `json:"password" validate:"omitempty,min=4,max=64"`
	ExpiresAt        int64  `json:"expires_at" validate:"gte=0"`
	MaxFileBytes     int64  `json:"max_file_bytes" validate:"gte=0"`
	MaxFilesPerBatch int    `json:"max_files_per_batch" validate:"gte=0,lte=100"`
}

func CreateLink(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}

	folder, err := model.GetFolderByID(req.FolderID, lang)
	if err != nil || folder.WorkspaceID != workspace.ID {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrFolderNotFound, lang))
		return
	}

	// New links start active, so the plan's active-link cap applies here.
	if err := service.CheckActiveLinkLimit(workspace.ID, lang); err != nil {
		common.RespErrorStr(c, http.StatusForbidden, err.Error())
		return
	}

	var slug string
	if req.Slug != "" {
		taken, err := model.IsSlugTaken(req.Slug)
		if err != nil {
			common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
			return
		}
		if taken {
			// Fall back to the title-derived generator rather than fail;
			// the caller gets the actual slug back in the response.
			slug, err = service.GenerateUniqueSlug(req.Slug, lang)
			if err != nil {
				common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
				return
			}
		} else {
			slug = req.Slug
		}
	} else {
		slug, err = service.GenerateUniqueSlug(req.Title, lang)
		if err != nil {
			common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
			return
		}
	}

	link := &model.Link{
		WorkspaceID:      workspace.ID,
		FolderID:         req.FolderID,
		Slug:             slug,
		Title:            req.Title,
		Message:          req.Message,
		ExpiresAt:        req.ExpiresAt,
		MaxFileBytes:     req.MaxFileBytes,
		MaxFilesPerBatch: req.MaxFilesPerBatch,
		Active:           true,
	}
	if req.Password != "" {
		hash, err := common.Password2Hash(req.Password)
		if err != nil {
			common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
			return
		}
		link.PasswordHash = hash
	}
	if err := link.Save(); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, link)
}

func UpdateLink(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	link, ok := linkForOwner(c, workspace.ID)
	if !ok {
		return
	}
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}

	if req.FolderID != link.FolderID {
		folder, err := model.GetFolderByID(req.FolderID, lang)
		if err != nil || folder.WorkspaceID != workspace.ID {
			common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrFolderNotFound, lang))
			return
		}
		link.FolderID = req.FolderID
	}
	link.Title = req.Title
	link.Message = req.Message
	link.ExpiresAt = req.ExpiresAt
	link.MaxFileBytes = req.MaxFileBytes
	link.MaxFilesPerBatch = req.MaxFilesPerBatch
	if req.Password != "" {
		hash, err := common.Password2Hash(req.Password)
		if err != nil {
			common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
			return
		}
		link.PasswordHash = hash
	}
	if err := link.Save(); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	model.InvalidateLinkCache(link.Slug)
	common.RespSuccess(c, link)
}

func ToggleLink(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	link, ok := linkForOwner(c, workspace.ID)
	if !ok {
		return
	}
	if !link.Active {
		if err := service.CheckActiveLinkLimit(workspace.ID, lang); err != nil {
			common.RespErrorStr(c, http.StatusForbidden, err.Error())
			return
		}
	}
	link.Active = !link.Active
	if err := link.Save(); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	model.InvalidateLinkCache(link.Slug)
	common.RespSuccess(c, link)
}

// RegenerateSlug replaces a link's slug with a fresh title-derived one.
// The old slug stops resolving immediately.
func RegenerateSlug(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	link, ok := linkForOwner(c, workspace.ID)
	if !ok {
		return
	}
	oldSlug := link.Slug
	slug, err := service.GenerateUniqueSlug(link.Title, lang)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	link.Slug = slug
	if err := link.Save(); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	model.InvalidateLinkCache(oldSlug)
	model.InvalidateLinkCache(slug)
	common.RespSuccess(c, link)
}

func DeleteLinkHandler(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	link, ok := linkForOwner(c, workspace.ID)
	if !ok {
		return
	}
	if err := model.DeleteLink(link); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccessStr(c, "link deleted")
}
