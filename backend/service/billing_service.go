package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"
	"uplink/backend/model"
)

// WebhookEvent is the payload shape the payment provider posts to us.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		WorkspaceID        int64  `json:"workspace_id"`
		Plan               string `json:"plan"`
		Status             string `json:"status"`
		PeriodEnd          int64  `json:"period_end"`
		ExternalCustomerID string `json:"customer_id"`
		ExternalSubID      string `json:"subscription_id"`
	} `json:"data"`
}

const (
	WebhookSubscriptionCreated  = "subscription.created"
	WebhookSubscriptionUpdated  = "subscription.updated"
	WebhookSubscriptionCanceled = "subscription.canceled"
	WebhookPaymentFailed        = "payment.failed"
)

// VerifyWebhookSignature checks the provider's HMAC-SHA256 hex signature
// over the raw body. An unset secret rejects everything; billing must be
// configured deliberately.
func VerifyWebhookSignature(body []byte, signature string, lang string) error {
	secret := model.GetOption(model.OptionWebhookSecret)
	if secret == "" || signature == "" {
		return i18n.New(uperrors.ErrWebhookSignature, lang)
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return i18n.New(uperrors.ErrWebhookSignature, lang)
	}
	return nil
}

// ProcessWebhookEvent applies one provider event to our subscription
// state. The HTTP layer answers 200 regardless of what this returns; the
// error only drives logging and the billing notification.
func ProcessWebhookEvent(body []byte, lang string) error {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}

	switch event.Type {
	case WebhookSubscriptionCreated, WebhookSubscriptionUpdated:
		return applySubscriptionChange(event, lang)
	case WebhookSubscriptionCanceled:
		return applySubscriptionCancel(event, lang)
	case WebhookPaymentFailed:
		return applyPaymentFailure(event, lang)
	default:
		// Unknown events are the provider's business, not an error.
		common.SysLog("ignoring webhook event type: " + event.Type)
		return nil
	}
}

func applySubscriptionChange(event WebhookEvent, lang string) error {
	plan := model.PlanName(event.Data.Plan)
	if _, ok := model.GetPlanLimits(plan); !ok {
		return i18n.New(uperrors.ErrUnknownPlan, lang, event.Data.Plan)
	}
	workspace, err := model.GetWorkspaceByID(event.Data.WorkspaceID, lang)
	if err != nil {
		return err
	}

	sub, err := model.GetSubscriptionByWorkspace(workspace.ID)
	if err != nil {
		return err
	}
	if sub == nil {
		sub = &model.Subscription{WorkspaceID: workspace.ID}
	}
	sub.Plan = plan
	sub.Status = model.SubscriptionActive
	if event.Data.Status != "" {
		sub.Status = model.SubscriptionStatus(event.Data.Status)
	}
	sub.PeriodEnd = event.Data.PeriodEnd
	sub.ExternalCustomerID = event.Data.ExternalCustomerID
	sub.ExternalSubID = event.Data.ExternalSubID
	if err := sub.Save(); err != nil {
		return err
	}

	notifyBilling(workspace.ID, fmt.Sprintf("Subscription updated to the %s plan", plan))
	return nil
}

func applySubscriptionCancel(event WebhookEvent, lang string) error {
	sub, err := findSubscription(event, lang)
	if err != nil {
		return err
	}
	sub.Status = model.SubscriptionCanceled
	if err := sub.Save(); err != nil {
		return err
	}
	notifyBilling(sub.WorkspaceID, "Subscription canceled, workspace is now on the free plan")
	return nil
}

func applyPaymentFailure(event WebhookEvent, lang string) error {
	sub, err := findSubscription(event, lang)
	if err != nil {
		return err
	}
	sub.Status = model.SubscriptionPastDue
	if err := sub.Save(); err != nil {
		return err
	}
	notifyBilling(sub.WorkspaceID, "A payment failed; please update your billing details")
	return nil
}

// findSubscription prefers the external subscription id and falls back to
// the workspace id, since cancel events from some providers omit our
// metadata.
func findSubscription(event WebhookEvent, lang string) (*model.Subscription, error) {
	if event.Data.ExternalSubID != "" {
		return model.GetSubscriptionByExternalSubID(event.Data.ExternalSubID, lang)
	}
	sub, err := model.GetSubscriptionByWorkspace(event.Data.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, i18n.New(uperrors.ErrSubscriptionNotFound, lang)
	}
	return sub, nil
}

func notifyBilling(workspaceID int64, body string) {
	n := &model.Notification{
		WorkspaceID: workspaceID,
		Type:        model.NotificationBilling,
		Title:       "Billing update",
		Body:        body,
	}
	if err := model.CreateNotification(n); err != nil {
		common.SysError("failed to create billing notification: " + err.Error())
	}
}

// CheckActiveLinkLimit is consulted before activating or creating a link.
func CheckActiveLinkLimit(workspaceID int64, lang string) error {
	limits, err := model.EffectivePlanLimits(workspaceID)
	if err != nil {
		return err
	}
	active, err := model.CountActiveLinks(workspaceID)
	if err != nil {
		return err
	}
	if active >= limits.ActiveLinks {
		return i18n.New(uperrors.ErrActiveLinkLimit, lang)
	}
	return nil
}

// SubscriptionSummary is the dashboard's billing view.
type SubscriptionSummary struct {
	Plan      model.PlanName           `json:"plan"`
	Status    model.SubscriptionStatus `json:"status"`
	PeriodEnd int64                    `json:"period_end"`
	Limits    model.PlanLimits         `json:"limits"`
	UsedBytes int64                    `json:"used_bytes"`
	FileCount int64                    `json:"file_count"`
}

func GetSubscriptionSummary(workspaceID int64, lang string) (*SubscriptionSummary, error) {
	workspace, err := model.GetWorkspaceByID(workspaceID, lang)
	if err != nil {
		return nil, err
	}
	limits, err := model.EffectivePlanLimits(workspaceID)
	if err != nil {
		return nil, err
	}
	summary := &SubscriptionSummary{
		Plan:      limits.Plan,
		Status:    model.SubscriptionActive,
		Limits:    limits,
		UsedBytes: workspace.UsedBytes,
		FileCount: workspace.FileCount,
	}
	sub, err := model.GetSubscriptionByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		summary.Status = sub.Status
		summary.PeriodEnd = sub.PeriodEnd
	}
	return summary, nil
}
