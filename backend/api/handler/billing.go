package handler

import (
	"io"
	"net/http"

	"uplink/backend/common"
	"uplink/backend/service"

	"github.com/gin-gonic/gin"
)

func GetSubscription(c *gin.Context) {
	lang := c.GetString("lang")
	workspace, ok := currentWorkspace(c)
	if !ok {
		return
	}
	summary, err := service.GetSubscriptionSummary(workspace.ID, lang)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "failed to load subscription", err)
		return
	}
	common.RespSuccess(c, summary)
}

// BillingWebhook receives provider events. It always answers 200 once the
// signature checks out, even when processing fails, so the provider does
// not retry; failures are logged and surfaced as billing notifications by
// the service layer.
func BillingWebhook(c *gin.Context) {
	lang := c.GetString("lang")
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, "failed to read webhook body")
		return
	}

	signature := c.GetHeader("X-Webhook-Signature")
	if err := service.VerifyWebhookSignature(body, signature, lang); err != nil {
		// Signature failures are the one case we do want retried/alerted:
		// they mean misconfiguration, not a processing bug.
		common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := service.ProcessWebhookEvent(body, lang); err != nil {
		common.SysError("webhook processing failed: " + err.Error())
	}
	common.RespSuccessStr(c, "ok")
}
