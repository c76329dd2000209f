package model

import (
	"time"

	"github.com/burugo/thing"
)

// UploadEvent is one accepted batch, recorded for analytics. Rows normally
// arrive through the analytics worker; when the queue is disabled they are
// written synchronously on the upload path.
type UploadEvent struct {
	thing.BaseModel
	LinkID      int64  `db:"link_id,index:idx_event_link" json:"link_id"`
	WorkspaceID int64  `db:"workspace_id,index:idx_event_ws" json:"workspace_id"`
	LinkSlug    string `db:"link_slug" json:"link_slug"`
	FileCount   int64  `db:"file_count" json:"file_count"`
	TotalBytes  int64  `db:"total_bytes" json:"total_bytes"`
	UserAgent   string `db:"user_agent" json:"user_agent"`
}

func (e *UploadEvent) TableName() string {
	return "upload_events"
}

var UploadEventDB *thing.Thing[*UploadEvent]

func UploadEventInit() error {
	var err error
	UploadEventDB, err = thing.Use[*UploadEvent]()
	return err
}

func CreateUploadEvent(e *UploadEvent) error {
	return UploadEventDB.Save(e)
}

// GetUploadEventsSince fetches events for a workspace newer than the given
// time. Aggregation happens in the caller; windows are bounded so the
// result set stays reasonable.
func GetUploadEventsSince(workspaceID int64, since time.Time) ([]*UploadEvent, error) {
	return UploadEventDB.Query(thing.QueryParams{}).
		Where("workspace_id = ? AND created_at >= ?", workspaceID, since).
		Order("created_at ASC").Fetch(0, 10000)
}

func GetUploadEventsByLink(linkID int64, since time.Time) ([]*UploadEvent, error) {
	return UploadEventDB.Query(thing.QueryParams{}).
		Where("link_id = ? AND created_at >= ?", linkID, since).
		Order("created_at ASC").Fetch(0, 10000)
}
