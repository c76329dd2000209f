package handler

import (
	"net/http"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"
	"uplink/backend/model"

	"github.com/gin-gonic/gin"
)

func GetOptions(c *gin.Context) {
	options := model.AllOptions()
	// The webhook secret never leaves the server, even for root.
	delete(options, model.OptionWebhookSecret)
	common.RespSuccess(c, options)
}

type UpdateOptionRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

func UpdateOption(c *gin.Context) {
	lang := c.GetString("lang")
	var req UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, i18n.Translate(uperrors.ErrInvalidParam, lang, err.Error()))
		return
	}
	if err := model.UpdateOption(req.Key, req.Value); err != nil {
		common.RespError(c, http.StatusInternalServerError, i18n.Translate(uperrors.ErrInternalServer, lang), err)
		return
	}
	common.RespSuccessStr(c, "option updated")
}
