package handler

import (
	"net/http"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"
	"uplink/backend/model"
	"uplink/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Password    string `json:"password" validate:"required,min=6,max=64"`
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenPair struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *model.User `json:"user"`
}

func Register(c *gin.Context) {
	lang := c.GetString("lang")
	if !model.GetOptionBool(model.OptionRegisterEnabled) {
		common.RespErrorStr(c, http.StatusForbidden, "registration is currently disabled")
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if model.IsUsernameAlreadyTaken(req.Username) {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrUsernameTaken, lang))
		return
	}
	if req.Email != "" && model.IsEmailAlreadyTaken(req.Email) {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrEmailTaken, lang))
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}
	user := &model.User{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: displayName,
		Email:       req.Email,
		Role:        common.RoleCommonUser,
		Status:      common.UserStatusEnabled,
	}
	if err := user.Insert(); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	// The workspace exists from the first moment, not lazily on dashboard
	// load.
	if _, err := model.EnsureWorkspaceForUser(user.ID, displayName+"'s Workspace"); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, user)
}

func Login(c *gin.Context) {
	lang := c.GetString("lang")
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}

	user := &model.User{Username: req.Username, Password: req.Password}
	if err := user.ValidateAndFill(lang); err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
		return
	}

	accessToken, err := service.GenerateToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	refreshToken, err := service.GenerateRefreshToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}

	session := sessions.Default(c)
	session.Set("id", user.ID)
	session.Set("username", user.Username)
	session.Set("role", user.Role)
	if err := session.Save(); err != nil {
		common.SysError("failed to save session: " + err.Error())
	}

	common.RespSuccess(c, tokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

func RefreshToken(c *gin.Context) {
	lang := c.GetString("lang")
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}

	claims, err := service.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
		return
	}
	user, err := model.GetUserById(claims.UserID, lang)
	if err != nil {
		common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
		return
	}
	if user.Status != common.UserStatusEnabled {
		common.RespErrorStr(c, http.StatusUnauthorized, i18n.Translate(uperrors.ErrUserDisabled, lang))
		return
	}

	accessToken, err := service.GenerateToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	refreshToken, err := service.GenerateRefreshToken(user)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccess(c, tokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

func Logout(c *gin.Context) {
	if token := c.GetString("token"); token != "" {
		if err := service.BlacklistToken(c, token); err != nil {
			common.SysError("failed to blacklist token: " + err.Error())
		}
	}
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		common.SysError("failed to clear session: " + err.Error())
	}
	common.RespSuccessStr(c, "logged out")
}
