package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"
	"uplink/backend/library/queue"
	"uplink/backend/library/storage"
	"uplink/backend/model"

	"github.com/google/uuid"
)

// Store is the blob backend for collected files, wired up in main.
var Store storage.Storage

func InitStorage() error {
	local, err := storage.NewLocalStorage(common.UploadPath)
	if err != nil {
		return err
	}
	Store = local
	return nil
}

// UploadMeta is what the visitor tells us about themselves alongside the
// files.
type UploadMeta struct {
	UploaderName  string
	UploaderEmail string
	Note          string
	Password      string
	UserAgent     string
}

// ValidateUpload enforces every link and plan constraint before a single
// byte is stored: link state, password, batch size, per-file size, and the
// workspace storage quota.
func ValidateUpload(link *model.Link, files []*multipart.FileHeader, meta UploadMeta, lang string) error {
	if !link.Active {
		return i18n.New(uperrors.ErrLinkInactive, lang)
	}
	if link.Expired() {
		return i18n.New(uperrors.ErrLinkExpired, lang)
	}
	if link.RequiresPassword() && !common.ValidatePasswordAndHash(meta.Password, link.PasswordHash) {
		return i18n.New(uperrors.ErrLinkPassword, lang)
	}
	if len(files) == 0 {
		return i18n.New(uperrors.ErrNoFilesInUpload, lang)
	}

	limits, err := model.EffectivePlanLimits(link.WorkspaceID)
	if err != nil {
		return err
	}

	maxFiles := link.MaxFilesPerBatch
	if maxFiles <= 0 || maxFiles > common.MaxBatchSize {
		maxFiles = common.MaxBatchSize
	}
	if len(files) > maxFiles {
		return i18n.New(uperrors.ErrTooManyFiles, lang, maxFiles)
	}

	maxFileBytes := limits.MaxFileBytes
	if link.MaxFileBytes > 0 && link.MaxFileBytes < maxFileBytes {
		maxFileBytes = link.MaxFileBytes
	}

	var total int64
	for _, fh := range files {
		if fh.Size > maxFileBytes {
			return i18n.New(uperrors.ErrFileTooLarge, lang, fh.Filename)
		}
		total += fh.Size
	}

	workspace, err := model.GetWorkspaceByID(link.WorkspaceID, lang)
	if err != nil {
		return err
	}
	if workspace.UsedBytes+total > limits.StorageBytes {
		return i18n.New(uperrors.ErrQuotaExceeded, lang)
	}
	return nil
}

// ProcessUpload stores every file of the request as one batch, updates the
// denormalized counters, writes the upload notification, and hands the
// event to analytics. Callers must have run ValidateUpload first.
func ProcessUpload(ctx context.Context, link *model.Link, files []*multipart.FileHeader, meta UploadMeta, lang string) (*model.Batch, error) {
	batch := &model.Batch{
		PublicID:      uuid.New().String(),
		LinkID:        link.ID,
		WorkspaceID:   link.WorkspaceID,
		LinkSlug:      link.Slug,
		UploaderName:  meta.UploaderName,
		UploaderEmail: meta.UploaderEmail,
		Note:          meta.Note,
	}
	if err := batch.Save(); err != nil {
		return nil, err
	}

	var storedKeys []string
	var storedRecords []*model.File
	var totalBytes int64
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			rollbackUpload(batch, storedRecords, storedKeys)
			return nil, err
		}
		objectKey := common.GetUUID()
		written, err := Store.Save(objectKey, src)
		src.Close()
		if err != nil {
			rollbackUpload(batch, storedRecords, storedKeys)
			return nil, err
		}
		storedKeys = append(storedKeys, objectKey)

		record := &model.File{
			WorkspaceID: link.WorkspaceID,
			FolderID:    link.FolderID,
			BatchID:     batch.ID,
			ObjectKey:   objectKey,
			Name:        fh.Filename,
			Size:        written,
			ContentType: fh.Header.Get("Content-Type"),
		}
		if err := record.Save(); err != nil {
			rollbackUpload(batch, storedRecords, storedKeys)
			return nil, err
		}
		storedRecords = append(storedRecords, record)
		totalBytes += written
	}

	batch.FileCount = int64(len(files))
	batch.TotalBytes = totalBytes
	if err := batch.Save(); err != nil {
		return nil, err
	}

	workspace, err := model.GetWorkspaceByID(link.WorkspaceID, lang)
	if err != nil {
		return nil, err
	}
	if err := workspace.AddUsage(totalBytes, int64(len(files))); err != nil {
		return nil, err
	}
	if err := link.AddLinkUsage(int64(len(files)), totalBytes); err != nil {
		return nil, err
	}

	notifyUpload(link, batch)
	maybeWarnStorage(workspace)
	recordUploadEvent(ctx, link, batch, meta.UserAgent)

	return batch, nil
}

func rollbackBlobs(keys []string) {
	for _, key := range keys {
		if err := Store.Delete(key); err != nil {
			common.SysError("failed to roll back stored blob " + key + ": " + err.Error())
		}
	}
}

// rollbackUpload undoes a partially stored batch: blobs, file rows, and the
// batch row itself, so the dashboard never lists files without blobs.
func rollbackUpload(batch *model.Batch, records []*model.File, keys []string) {
	rollbackBlobs(keys)
	for _, record := range records {
		if err := model.DeleteFile(record); err != nil {
			common.SysError("failed to roll back file row " + record.ObjectKey + ": " + err.Error())
		}
	}
	if err := model.BatchDB.Delete(batch); err != nil {
		common.SysError("failed to roll back batch " + batch.PublicID + ": " + err.Error())
	}
}

func notifyUpload(link *model.Link, batch *model.Batch) {
	uploader := batch.UploaderName
	if uploader == "" {
		uploader = "Someone"
	}
	n := &model.Notification{
		WorkspaceID: link.WorkspaceID,
		Type:        model.NotificationUpload,
		Title:       fmt.Sprintf("%s uploaded %d file(s) to \"%s\"", uploader, batch.FileCount, link.Title),
		Body:        fmt.Sprintf("Batch %s, %d bytes via link /u/%s", batch.PublicID, batch.TotalBytes, link.Slug),
	}
	if err := model.CreateNotification(n); err != nil {
		common.SysError("failed to create upload notification: " + err.Error())
	}
}

// maybeWarnStorage drops a warning notification when usage crosses 90% of
// the plan quota.
func maybeWarnStorage(workspace *model.Workspace) {
	limits, err := model.EffectivePlanLimits(workspace.ID)
	if err != nil || limits.StorageBytes == 0 {
		return
	}
	if workspace.UsedBytes*10 < limits.StorageBytes*9 {
		return
	}
	n := &model.Notification{
		WorkspaceID: workspace.ID,
		Type:        model.NotificationStorageWarning,
		Title:       "Storage almost full",
		Body:        fmt.Sprintf("Workspace is using %d of %d bytes", workspace.UsedBytes, limits.StorageBytes),
	}
	if err := model.CreateNotification(n); err != nil {
		common.SysError("failed to create storage warning: " + err.Error())
	}
}

// recordUploadEvent publishes to RabbitMQ when available and falls back to
// a synchronous row. Queue failure never fails the upload.
func recordUploadEvent(ctx context.Context, link *model.Link, batch *model.Batch, userAgent string) {
	if queue.QueueEnabled {
		msg := queue.UploadEventMessage{
			LinkID:      link.ID,
			WorkspaceID: link.WorkspaceID,
			LinkSlug:    link.Slug,
			FileCount:   batch.FileCount,
			TotalBytes:  batch.TotalBytes,
			UserAgent:   userAgent,
			Timestamp:   time.Now(),
		}
		err := queue.PublishUploadEvent(ctx, msg)
		if err == nil {
			return
		}
		common.SysError("failed to publish upload event, recording synchronously: " + err.Error())
	}
	event := &model.UploadEvent{
		LinkID:      link.ID,
		WorkspaceID: link.WorkspaceID,
		LinkSlug:    link.Slug,
		FileCount:   batch.FileCount,
		TotalBytes:  batch.TotalBytes,
		UserAgent:   userAgent,
	}
	if err := model.CreateUploadEvent(event); err != nil {
		common.SysError("failed to record upload event: " + err.Error())
	}
}

// DeleteStoredFile removes the blob and the row, then releases the usage it
// occupied.
func DeleteStoredFile(file *model.File, lang string) error {
	if err := Store.Delete(file.ObjectKey); err != nil {
		return err
	}
	if err := model.DeleteFile(file); err != nil {
		return err
	}
	workspace, err := model.GetWorkspaceByID(file.WorkspaceID, lang)
	if err != nil {
		return err
	}
	return workspace.AddUsage(-file.Size, -1)
}

// DeleteBatch removes a batch together with its files and usage.
func DeleteBatch(batch *model.Batch, lang string) error {
	files, err := model.GetFilesByBatch(batch.ID)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := DeleteStoredFile(file, lang); err != nil {
			return err
		}
	}
	return model.BatchDB.Delete(batch)
}
