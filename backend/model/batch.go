package model

import (
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"

	"github.com/burugo/thing"
)

// Batch groups the files of one upload request against a link. LinkSlug is
// denormalized so the batch stays readable after the link is deleted.
type Batch struct {
	thing.BaseModel
	PublicID      string `db:"public_id,unique" json:"public_id"`
	LinkID        int64  `db:"link_id,index:idx_batch_link" json:"link_id"`
	WorkspaceID   int64  `db:"workspace_id,index:idx_batch_ws" json:"workspace_id"`
	LinkSlug      string `db:"link_slug" json:"link_slug"`
	UploaderName  string `db:"uploader_name" json:"uploader_name"`
	UploaderEmail string `db:"uploader_email" json:"uploader_email"`
	Note          string `db:"note" json:"note"`
	FileCount     int64  `db:"file_count" json:"file_count"`
	TotalBytes    int64  `db:"total_bytes" json:"total_bytes"`
}

func (b *Batch) TableName() string {
	return "batches"
}

var BatchDB *thing.Thing[*Batch]

func BatchInit() error {
	var err error
	BatchDB, err = thing.Use[*Batch]()
	return err
}

func (b *Batch) Save() error {
	return BatchDB.Save(b)
}

func GetBatchByID(id int64, lang string) (*Batch, error) {
	if id == 0 {
		return nil, i18n.New(uperrors.ErrEmptyID, lang)
	}
	batch, err := BatchDB.ByID(id)
	if err != nil {
		return nil, i18n.Wrap(err, uperrors.ErrBatchNotFound, lang)
	}
	return batch, nil
}

func GetBatchByPublicID(publicID string, lang string) (*Batch, error) {
	batches, err := BatchDB.Query(thing.QueryParams{}).Where("public_id = ?", publicID).Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, i18n.New(uperrors.ErrBatchNotFound, lang)
	}
	return batches[0], nil
}

func GetBatchesByWorkspace(workspaceID int64, startIdx int, num int) ([]*Batch, error) {
	return BatchDB.Query(thing.QueryParams{}).
		Where("workspace_id = ?", workspaceID).Order("id DESC").Fetch(startIdx, num)
}

func GetBatchesByLink(linkID int64, startIdx int, num int) ([]*Batch, error) {
	return BatchDB.Query(thing.QueryParams{}).
		Where("link_id = ?", linkID).Order("id DESC").Fetch(startIdx, num)
}
