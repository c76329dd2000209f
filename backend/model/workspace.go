package model

import (
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"

	"github.com/burugo/thing"
)

// Workspace is a user's root file-collection container. Exactly one per
// user; UsedBytes/FileCount are denormalized sums over its files.
type Workspace struct {
	thing.BaseModel
	UserID    int64  `db:"user_id,unique" json:"user_id"`
	Name      string `db:"name" json:"name"`
	UsedBytes int64  `db:"used_bytes" json:"used_bytes"`
	FileCount int64  `db:"file_count" json:"file_count"`
}

func (w *Workspace) TableName() string {
	return "workspaces"
}

var WorkspaceDB *thing.Thing[*Workspace]

func WorkspaceInit() error {
	var err error
	WorkspaceDB, err = thing.Use[*Workspace]()
	return err
}

func GetWorkspaceByUserID(userID int64, lang string) (*Workspace, error) {
	workspaces, err := WorkspaceDB.Query(thing.QueryParams{}).Where("user_id = ?", userID).Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(workspaces) == 0 {
		return nil, i18n.New(uperrors.ErrWorkspaceNotFound, lang)
	}
	return workspaces[0], nil
}

func GetWorkspaceByID(id int64, lang string) (*Workspace, error) {
	if id == 0 {
		return nil, i18n.New(uperrors.ErrEmptyID, lang)
	}
	workspace, err := WorkspaceDB.ByID(id)
	if err != nil {
		return nil, i18n.Wrap(err, uperrors.ErrWorkspaceNotFound, lang)
	}
	return workspace, nil
}

// EnsureWorkspaceForUser returns the user's workspace, creating it with a
// root folder on first call. This is the onboarding path.
func EnsureWorkspaceForUser(userID int64, name string) (*Workspace, error) {
	workspaces, err := WorkspaceDB.Query(thing.QueryParams{}).Where("user_id = ?", userID).Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(workspaces) > 0 {
		return workspaces[0], nil
	}
	workspace := &Workspace{UserID: userID, Name: name}
	if err := WorkspaceDB.Save(workspace); err != nil {
		return nil, err
	}
	rootFolder := &Folder{WorkspaceID: workspace.ID, ParentID: 0, Name: "Inbox"}
	if err := FolderDB.Save(rootFolder); err != nil {
		return nil, err
	}
	return workspace, nil
}

// AddUsage adjusts the denormalized counters. Negative deltas come from
// file deletion; counters are clamped at zero rather than trusted blindly.
func (w *Workspace) AddUsage(bytesDelta int64, filesDelta int64) error {
	w.UsedBytes += bytesDelta
	w.FileCount += filesDelta
	if w.UsedBytes < 0 {
		w.UsedBytes = 0
	}
	if w.FileCount < 0 {
		w.FileCount = 0
	}
	return WorkspaceDB.Save(w)
}

func (w *Workspace) Rename(name string) error {
	w.Name = name
	return WorkspaceDB.Save(w)
}

func CountActiveLinks(workspaceID int64) (int64, error) {
	return LinkDB.Query(thing.QueryParams{}).
		Where("workspace_id = ? AND active = ?", workspaceID, true).Count()
}
