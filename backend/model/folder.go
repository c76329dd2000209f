package model

import (
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"

	"github.com/burugo/thing"
)

// Folder is a node in a workspace's folder tree. ParentID 0 marks a root
// folder.
type Folder struct {
	thing.BaseModel
	WorkspaceID int64  `db:"workspace_id,index:idx_folder_ws" json:"workspace_id"`
	ParentID    int64  `db:"parent_id,index:idx_folder_parent" json:"parent_id"`
	Name        string `db:"name" json:"name"`
}

func (f *Folder) TableName() string {
	return "folders"
}

var FolderDB *thing.Thing[*Folder]

func FolderInit() error {
	var err error
	FolderDB, err = thing.Use[*Folder]()
	return err
}

func GetFolderByID(id int64, lang string) (*Folder, error) {
	if id == 0 {
		return nil, i18n.New(uperrors.ErrEmptyID, lang)
	}
	folder, err := FolderDB.ByID(id)
	if err != nil {
		return nil, i18n.Wrap(err, uperrors.ErrFolderNotFound, lang)
	}
	return folder, nil
}

func GetFoldersByWorkspace(workspaceID int64) ([]*Folder, error) {
	return FolderDB.Query(thing.QueryParams{}).
		Where("workspace_id = ?", workspaceID).Order("parent_id ASC, name ASC").Fetch(0, 1000)
}

func GetChildFolders(folderID int64) ([]*Folder, error) {
	return FolderDB.Query(thing.QueryParams{}).Where("parent_id = ?", folderID).Fetch(0, 1000)
}

// IsFolderEmpty reports whether a folder holds no files and no child
// folders; deletion requires both.
func IsFolderEmpty(folderID int64) (bool, error) {
	children, err := FolderDB.Query(thing.QueryParams{}).Where("parent_id = ?", folderID).Count()
	if err != nil {
		return false, err
	}
	if children > 0 {
		return false, nil
	}
	files, err := FileDB.Query(thing.QueryParams{}).Where("folder_id = ?", folderID).Count()
	if err != nil {
		return false, err
	}
	return files == 0, nil
}

func (f *Folder) Save() error {
	return FolderDB.Save(f)
}

// DeleteFolder removes an empty folder. Links still targeting it are
// deactivated so uploads cannot land in a deleted folder.
func DeleteFolder(folder *Folder, lang string) error {
	empty, err := IsFolderEmpty(folder.ID)
	if err != nil {
		return err
	}
	if !empty {
		return i18n.New(uperrors.ErrFolderNotEmpty, lang)
	}
	links, err := LinkDB.Query(thing.QueryParams{}).Where("folder_id = ?", folder.ID).Fetch(0, 1000)
	if err != nil {
		return err
	}
	for _, link := range links {
		if link.Active {
			link.Active = false
			if err := LinkDB.Save(link); err != nil {
				return err
			}
			InvalidateLinkCache(link.Slug)
		}
	}
	return FolderDB.Delete(folder)
}
