package handler

import (
	"net/http"
	"strconv"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"
	"uplink/backend/service"

	"github.com/gin-gonic/gin"
)

// GetUploadActivity returns uploads-per-day for the caller's workspace.
// Query: days (default 30).
func GetUploadActivity(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.Query("days"))
	stats, err := service.UploadsPerDay(workspace.ID, days)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to aggregate upload activity", err)
		return
	}
	common.RespSuccess(c, stats)
}

// GetTopLinks returns the busiest links by collected bytes.
// Query: days (default 30), limit (default 10).
func GetTopLinks(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.Query("days"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	totals, err := service.TopLinks(workspace.ID, days, limit)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to aggregate link totals", err)
		return
	}
	common.RespSuccess(c, totals)
}

// GetLinkActivity returns per-day stats for one link the caller owns.
func GetLinkActivity(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	link, ok := linkForOwner(c, workspace.ID)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.Query("days"))
	stats, err := service.LinkActivity(link.ID, days)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, stats)
}
