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

func GetAllUsers(c *gin.Context) {
	p, _ := strconv.Atoi(c.Query("p"))
	if p < 0 {
		p = 0
	}
	users, err := model.GetAllUsers(p*common.ItemsPerPage, common.ItemsPerPage)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, users)
}

func SearchUsers(c *gin.Context) {
	keyword := c.Query("keyword")
	users, err := model.SearchUsers(keyword)
	if err != nil {
		common.RespErrorStr(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, users)
}

func GetUser(c *gin.Context) {
	lang := c.GetString("lang")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, "id"))
		return
	}
	user, err := model.GetUserById(id, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	// Admins cannot inspect peers or superiors.
	myRole := c.GetInt("role")
	if myRole <= user.Role {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(uperrors.ErrNotOwner, lang))
		return
	}
	common.RespSuccess(c, user)
}

func GetSelf(c *gin.Context) {
	lang := c.GetString("lang")
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := model.GetUserById(userID, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	common.RespSuccess(c, user)
}

type UpdateSelfRequest struct {
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password" validate:"omitempty,min=6,max=64"`
}

func UpdateSelf(c *gin.Context) {
	lang := c.GetString("lang")
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req UpdateSelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}

	user, err := model.GetUserById(userID, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	if req.Email != "" && req.Email != user.Email && model.IsEmailAlreadyTaken(req.Email) {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrEmailTaken, lang))
		return
	}
	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	updatePassword := req.Password != ""
	if updatePassword {
		user.Password = req.Password
	}
	if err := user.Update(updatePassword); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, user)
}

type ManageUserRequest struct {
	ID     int64  `json:"id" validate:"required"`
	Action string `json:"action" validate:"required,oneof=enable disable promote demote"`
}

// ManageUser flips a user's status or role. Admins cannot manage users at
// or above their own level.
func ManageUser(c *gin.Context) {
	lang := c.GetString("lang")
	var req ManageUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	user, err := model.GetUserById(req.ID, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	myRole := c.GetInt("role")
	if myRole <= user.Role {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(uperrors.ErrNotOwner, lang))
		return
	}

	switch req.Action {
	case "enable":
		user.Status = common.UserStatusEnabled
	case "disable":
		user.Status = common.UserStatusDisabled
	case "promote":
		user.Role = common.RoleAdminUser
	case "demote":
		user.Role = common.RoleCommonUser
	}
	if err := user.Update(false); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, user)
}

func DeleteUser(c *gin.Context) {
	lang := c.GetString("lang")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, "id"))
		return
	}
	user, err := model.GetUserById(id, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusNotFound, err.Error())
		return
	}
	myRole := c.GetInt("role")
	if myRole <= user.Role {
		common.RespErrorStr(c, http.StatusForbidden, i18n.Translate(uperrors.ErrNotOwner, lang))
		return
	}
	if err := model.DeleteUserById(id, lang); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccessStr(c, "user deleted")
}
