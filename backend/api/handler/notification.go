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

func notificationForOwner(c *gin.Context, workspaceID int64) (*model.Notification, bool) {
	lang := c.GetString("lang")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, "id"))
		return nil, false
	}
	n, err := model.GetNotificationByID(id, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return nil, false
	}
	if n.WorkspaceID != workspaceID {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(uperrors.ErrNotOwner, lang))
		return nil, false
	}
	return n, true
}

func GetNotifications(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	p, _ := strconv.Atoi(c.Query("p"))
	if p < 0 {
		p = 0
	}
	notifications, err := model.GetNotifications(workspace.ID, p*common.ItemsPerPage, common.ItemsPerPage)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, notifications)
}

func GetUnreadCount(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	count, err := model.GetUnreadCount(workspace.ID)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, gin.H{"unread": count})
}

func MarkNotificationRead(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	n, ok := notificationForOwner(c, workspace.ID)
	if !ok {
		return
	}
	if err := model.MarkNotificationRead(n); err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, n)
}

func MarkAllNotificationsRead(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	if err := model.MarkAllNotificationsRead(workspace.ID); err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccessStr(c, "all notifications marked read")
}

func DeleteNotificationHandler(c *gin.Context) {
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	n, ok := notificationForOwner(c, workspace.ID)
	if !ok {
		return
	}
	if err := model.DeleteNotification(n); err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccessStr(c, "notification deleted")
}
