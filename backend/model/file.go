package model

import (
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"

	"github.com/burugo/thing"
)

// File is a collected upload. ObjectKey addresses the blob in storage and
// never changes; Name is the uploader-supplied filename.
type File struct {
	thing.BaseModel
	WorkspaceID int64  `db:"workspace_id,index:idx_file_ws" json:"workspace_id"`
	FolderID    int64  `db:"folder_id,index:idx_file_folder" json:"folder_id"`
	BatchID     int64  `db:"batch_id,index:idx_file_batch" json:"batch_id"`
	ObjectKey   string `db:"object_key,unique" json:"object_key"`
	Name        string `db:"name,index" json:"name"`
	Size        int64  `db:"size" json:"size"`
	ContentType string `db:"content_type" json:"content_type"`
}

func (f *File) TableName() string {
	return "files"
}

var FileDB *thing.Thing[*File]

func FileInit() error {
	var err error
	FileDB, err = thing.Use[*File]()
	return err
}

func (f *File) Save() error {
	return FileDB.Save(f)
}

func GetFileByID(id int64, lang string) (*File, error) {
	if id == 0 {
		return nil, i18n.New(uperrors.ErrEmptyID, lang)
	}
	file, err := FileDB.ByID(id)
	if err != nil {
		return nil, i18n.Wrap(err, uperrors.ErrFileNotFound, lang)
	}
	return file, nil
}

func GetFilesByWorkspace(workspaceID int64, startIdx int, num int) ([]*File, error) {
	return FileDB.Query(thing.QueryParams{}).
		Where("workspace_id = ?", workspaceID).Order("id DESC").Fetch(startIdx, num)
}

func GetFilesByBatch(batchID int64) ([]*File, error) {
	return FileDB.Query(thing.QueryParams{}).
		Where("batch_id = ?", batchID).Order("id ASC").Fetch(0, 1000)
}

func GetFilesByFolder(folderID int64, startIdx int, num int) ([]*File, error) {
	return FileDB.Query(thing.QueryParams{}).
		Where("folder_id = ?", folderID).Order("id DESC").Fetch(startIdx, num)
}

func SearchFiles(workspaceID int64, keyword string) ([]*File, error) {
	return FileDB.Query(thing.QueryParams{}).
		Where("workspace_id = ? AND name LIKE ?", workspaceID, "%"+keyword+"%").
		Order("id DESC").Fetch(0, 100)
}

func DeleteFile(file *File) error {
	return FileDB.Delete(file)
}
