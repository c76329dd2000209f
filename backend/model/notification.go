package model

import (
	"strconv"
	"time"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"

	"github.com/burugo/thing"
)

type NotificationType string

const (
	NotificationUpload         NotificationType = "upload"
	NotificationStorageWarning NotificationType = "storage_warning"
	NotificationBilling        NotificationType = "billing"
)

// Notification is a dashboard inbox entry for a workspace.
type Notification struct {
	thing.BaseModel
	WorkspaceID int64            `db:"workspace_id,index:idx_notif_ws" json:"workspace_id"`
	Type        NotificationType `db:"type" json:"type"`
	Title       string           `db:"title" json:"title"`
	Body        string           `db:"body" json:"body"`
	Read        bool             `db:"read,index" json:"read"`
	ReadAt      int64            `db:"read_at" json:"read_at"`
}

func (n *Notification) TableName() string {
	return "notifications"
}

var NotificationDB *thing.Thing[*Notification]

func NotificationInit() error {
	var err error
	NotificationDB, err = thing.Use[*Notification]()
	return err
}

func unreadCacheKey(workspaceID int64) string {
	return "notif:unread:" + strconv.FormatInt(workspaceID, 10)
}

// recomputeUnread counts unread rows and writes the result to the cache.
// The recomputed value always wins over whatever was cached, which keeps
// the counter from drifting and from ever going negative.
func recomputeUnread(workspaceID int64) (int64, error) {
	count, err := NotificationDB.Query(thing.QueryParams{}).
		Where("workspace_id = ? AND read = ?", workspaceID, false).Count()
	if err != nil {
		return 0, err
	}
	if common.RedisEnabled && common.RDB != nil {
		if err := common.RedisSet(unreadCacheKey(workspaceID), strconv.FormatInt(count, 10), 24*time.Hour); err != nil {
			common.SysError("unread counter cache write failed: " + err.Error())
		}
	}
	return count, nil
}

// GetUnreadCount serves from the cache when possible and falls back to a
// recompute on miss.
func GetUnreadCount(workspaceID int64) (int64, error) {
	if common.RedisEnabled && common.RDB != nil {
		cached, err := common.RedisGet(unreadCacheKey(workspaceID))
		if err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		}
	}
	return recomputeUnread(workspaceID)
}

func CreateNotification(n *Notification) error {
	if err := NotificationDB.Save(n); err != nil {
		return err
	}
	_, err := recomputeUnread(n.WorkspaceID)
	return err
}

func GetNotifications(workspaceID int64, startIdx int, num int) ([]*Notification, error) {
	return NotificationDB.Query(thing.QueryParams{}).
		Where("workspace_id = ?", workspaceID).Order("id DESC").Fetch(startIdx, num)
}

func GetNotificationByID(id int64, lang string) (*Notification, error) {
	if id == 0 {
		return nil, i18n.New(uperrors.ErrEmptyID, lang)
	}
	n, err := NotificationDB.ByID(id)
	if err != nil {
		return nil, i18n.Wrap(err, uperrors.ErrNotificationNotFound, lang)
	}
	return n, nil
}

// MarkNotificationRead is a no-op for an already-read notification.
func MarkNotificationRead(n *Notification) error {
	if n.Read {
		return nil
	}
	n.Read = true
	n.ReadAt = time.Now().Unix()
	if err := NotificationDB.Save(n); err != nil {
		return err
	}
	_, err := recomputeUnread(n.WorkspaceID)
	return err
}

func MarkAllNotificationsRead(workspaceID int64) error {
	now := time.Now().Unix()
	for {
		unread, err := NotificationDB.Query(thing.QueryParams{}).
			Where("workspace_id = ? AND read = ?", workspaceID, false).Fetch(0, common.MaxBatchSize)
		if err != nil {
			return err
		}
		if len(unread) == 0 {
			break
		}
		for _, n := range unread {
			n.Read = true
			n.ReadAt = now
			if err := NotificationDB.Save(n); err != nil {
				return err
			}
		}
	}
	_, err := recomputeUnread(workspaceID)
	return err
}

func DeleteNotification(n *Notification) error {
	if err := NotificationDB.Delete(n); err != nil {
		return err
	}
	_, err := recomputeUnread(n.WorkspaceID)
	return err
}
