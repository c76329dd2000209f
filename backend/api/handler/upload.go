package handler

import (
	"net/http"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"
	"uplink/backend/model"
	"uplink/backend/service"

	"github.com/gin-gonic/gin"
)

// PublicLinkInfo is what the upload page may know about a link. No owner
// or workspace details cross this boundary.
type PublicLinkInfo struct {
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	Message          string `json:"message"`
	RequiresPassword bool   `json:"requires_password"`
	MaxFileBytes     int64  `json:"max_file_bytes"`
	MaxFilesPerBatch int    `json:"max_files_per_batch"`
}

// ResolveLink serves GET /u/:slug for the public upload page.
func ResolveLink(c *gin.Context) {
	lang := c.GetString("lang")
	slug := c.Param("slug")
	link, err := model.GetLinkBySlug(slug, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(uperrors.ErrLinkNotFound, lang))
		return
	}
	if !link.Active {
		common.RespErrorStr(c, http.StatusGone, i18n.Translate(uperrors.ErrLinkInactive, lang))
		return
	}
	if link.Expired() {
		common.RespErrorStr(c, http.StatusGone, i18n.Translate(uperrors.ErrLinkExpired, lang))
		return
	}
	common.RespSuccess(c, PublicLinkInfo{
		Slug:             link.Slug,
		Title:            link.Title,
		Message:          link.Message,
		RequiresPassword: link.RequiresPassword(),
		MaxFileBytes:     link.MaxFileBytes,
		MaxFilesPerBatch: link.MaxFilesPerBatch,
	})
}

// UploadToLink serves POST /u/:slug: multipart files plus optional
// uploader fields ("name", "email", "note", "password").
func UploadToLink(c *gin.Context) {
	lang := c.GetString("lang")
	slug := c.Param("slug")
	link, err := model.GetLinkBySlug(slug, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(uperrors.ErrLinkNotFound, lang))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.RespError(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, "multipart form"), err)
		return
	}
	files := form.File["files"]
	meta := service.UploadMeta{
		UploaderName:  c.PostForm("name"),
		UploaderEmail: c.PostForm("email"),
		Note:          c.PostForm("note"),
		Password:      c.PostForm("password"),
		UserAgent:     c.Request.UserAgent(),
	}

	if err := service.ValidateUpload(link, files, meta, lang); err != nil {
		status := http.StatusBadRequest
		switch {
		case i18n.IsErrorCode(err, uperrors.ErrLinkInactive), i18n.IsErrorCode(err, uperrors.ErrLinkExpired):
			status = http.StatusGone
		case i18n.IsErrorCode(err, uperrors.ErrLinkPassword):
			status = http.StatusUnauthorized
		case i18n.IsErrorCode(err, uperrors.ErrQuotaExceeded), i18n.IsErrorCode(err, uperrors.ErrFileTooLarge):
			status = http.StatusRequestEntityTooLarge
		}
		common.RespErrorStr(c, status, err.Error())
		return
	}

	batch, err := service.ProcessUpload(c, link, files, meta, lang)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccessWithMsg(c, "upload accepted", gin.H{
		"batch_id":    batch.PublicID,
		"file_count":  batch.FileCount,
		"total_bytes": batch.TotalBytes,
	})
}
