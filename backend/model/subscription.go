package model

import (
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"

	"github.com/burugo/thing"
)

type PlanName string

const (
	PlanFree     PlanName = "free"
	PlanPro      PlanName = "pro"
	PlanBusiness PlanName = "business"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// PlanLimits are the effective caps a plan grants. Values come from the
// option map so root can tune them without a deploy.
type PlanLimits struct {
	Plan         PlanName `json:"plan"`
	StorageBytes int64    `json:"storage_bytes"`
	ActiveLinks  int64    `json:"active_links"`
	MaxFileBytes int64    `json:"max_file_bytes"`
}

// Subscription is the billing state of a workspace. External IDs reference
// the payment provider's records; we never talk to the provider directly
// outside the webhook.
type Subscription struct {
	thing.BaseModel
	WorkspaceID        int64              `db:"workspace_id,unique" json:"workspace_id"`
	Plan               PlanName           `db:"plan" json:"plan"`
	Status             SubscriptionStatus `db:"status" json:"status"`
	PeriodEnd          int64              `db:"period_end" json:"period_end"`
	ExternalCustomerID string             `db:"external_customer_id,index" json:"external_customer_id"`
	ExternalSubID      string             `db:"external_sub_id,index" json:"external_sub_id"`
}

func (s *Subscription) TableName() string {
	return "subscriptions"
}

var SubscriptionDB *thing.Thing[*Subscription]

func SubscriptionInit() error {
	var err error
	SubscriptionDB, err = thing.Use[*Subscription]()
	return err
}

func (s *Subscription) Save() error {
	return SubscriptionDB.Save(s)
}

func GetSubscriptionByWorkspace(workspaceID int64) (*Subscription, error) {
	subs, err := SubscriptionDB.Query(thing.QueryParams{}).
		Where("workspace_id = ?", workspaceID).Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return subs[0], nil
}

func GetSubscriptionByExternalSubID(externalSubID string, lang string) (*Subscription, error) {
	subs, err := SubscriptionDB.Query(thing.QueryParams{}).
		Where("external_sub_id = ?", externalSubID).Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, i18n.New(uperrors.ErrSubscriptionNotFound, lang)
	}
	return subs[0], nil
}

// GetPlanLimits resolves a plan name against the option map.
func GetPlanLimits(plan PlanName) (PlanLimits, bool) {
	switch plan {
	case PlanFree:
		return PlanLimits{
			Plan:         PlanFree,
			StorageBytes: GetOptionInt64(OptionFreeStorageBytes, 2<<30),
			ActiveLinks:  GetOptionInt64(OptionFreeActiveLinks, 3),
			MaxFileBytes: GetOptionInt64(OptionFreeMaxFileBytes, 100<<20),
		}, true
	case PlanPro:
		return PlanLimits{
			Plan:         PlanPro,
			StorageBytes: GetOptionInt64(OptionProStorageBytes, 100<<30),
			ActiveLinks:  GetOptionInt64(OptionProActiveLinks, 50),
			MaxFileBytes: GetOptionInt64(OptionProMaxFileBytes, 2<<30),
		}, true
	case PlanBusiness:
		return PlanLimits{
			Plan:         PlanBusiness,
			StorageBytes: GetOptionInt64(OptionBusinessStorageBytes, 1<<40),
			ActiveLinks:  GetOptionInt64(OptionBusinessActiveLinks, 1000),
			MaxFileBytes: GetOptionInt64(OptionBusinessMaxFileBytes, 10<<30),
		}, true
	default:
		return PlanLimits{}, false
	}
}

// EffectivePlanLimits returns the workspace's plan limits; no subscription
// row, a canceled subscription, or an expired period all mean free tier.
func EffectivePlanLimits(workspaceID int64) (PlanLimits, error) {
	sub, err := GetSubscriptionByWorkspace(workspaceID)
	if err != nil {
		return PlanLimits{}, err
	}
	if sub == nil || sub.Status == SubscriptionCanceled {
		limits, _ := GetPlanLimits(PlanFree)
		return limits, nil
	}
	limits, ok := GetPlanLimits(sub.Plan)
	if !ok {
		limits, _ = GetPlanLimits(PlanFree)
	}
	return limits, nil
}
