package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"
	"uplink/backend/library/storage"
	"uplink/backend/model"

	"github.com/stretchr/testify/assert"
)

type testFile struct {
	name    string
	content string
}

// multipartFiles builds real multipart file headers the way gin receives
// them, so ProcessUpload can open and read them.
func multipartFiles(t *testing.T, files []testFile) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.name)
		assert.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/u/test", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	assert.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["files"]
}

func setupUploadTest(t *testing.T) (*model.Workspace, *model.Link, func()) {
	t.Helper()
	teardown := setupServiceTestDB(t)

	local, err := storage.NewLocalStorage(t.TempDir())
	assert.NoError(t, err)
	originalStore := Store
	Store = local

	workspace, err := model.EnsureWorkspaceForUser(2, "Test Workspace")
	assert.NoError(t, err)
	folders, err := model.GetFoldersByWorkspace(workspace.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, folders)

	link := &model.Link{
		WorkspaceID: workspace.ID,
		FolderID:    folders[0].ID,
		Slug:        "drop-zone",
		Title:       "Drop Zone",
		Active:      true,
	}
	assert.NoError(t, link.Save())

	return workspace, link, func() {
		Store = originalStore
		teardown()
	}
}

func TestValidateUpload_InactiveLink(t *testing.T) {
	_, link, teardown := setupUploadTest(t)
	defer teardown()

	link.Active = false
	files := multipartFiles(t, []testFile{{"a.txt", "hello"}})

	err := ValidateUpload(link, files, UploadMeta{}, "en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrLinkInactive))
}

func TestValidateUpload_ExpiredLink(t *testing.T) {
	_, link, teardown := setupUploadTest(t)
	defer teardown()

	link.ExpiresAt = time.Now().Add(-time.Hour).Unix()
	files := multipartFiles(t, []testFile{{"a.txt", "hello"}})

	err := ValidateUpload(link, files, UploadMeta{}, "en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrLinkExpired))
}

func TestValidateUpload_Password(t *testing.T) {
	_, link, teardown := setupUploadTest(t)
	defer teardown()

	hash, err := common.Password2Hash("secret")
	assert.NoError(t, err)
	link.PasswordHash = hash
	files := multipartFiles(t, []testFile{{"a.txt", "hello"}})

	err = ValidateUpload(link, files, UploadMeta{Password: "wrong"}, "en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrLinkPassword))

	err = ValidateUpload(link, files, UploadMeta{}, "en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrLinkPassword))

	err = ValidateUpload(link, files, UploadMeta{Password: "secret"}, "en")
	assert.NoError(t, err)
}

func TestValidateUpload_NoFiles(t *testing.T) {
	_, link, teardown := setupUploadTest(t)
	defer teardown()

	err := ValidateUpload(link, nil, UploadMeta{}, "en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrNoFilesInUpload))
}

func TestValidateUpload_TooManyFiles(t *testing.T) {
	_, link, teardown := setupUploadTest(t)
	defer teardown()

	link.MaxFilesPerBatch = 1
	files := multipartFiles(t, []testFile{{"a.txt", "a"}, {"b.txt", "b"}})

	err := ValidateUpload(link, files, UploadMeta{}, "en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrTooManyFiles))
}

func TestValidateUpload_FileTooLarge(t *testing.T) {
	_, link, teardown := setupUploadTest(t)
	defer teardown()

	link.MaxFileBytes = 4
	files := multipartFiles(t, []testFile{{"big.bin", "way too big"}})

	err := ValidateUpload(link, files, UploadMeta{}, "en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrFileTooLarge))
}

func TestValidateUpload_QuotaExceeded(t *testing.T) {
	workspace, link, teardown := setupUploadTest(t)
	defer teardown()

	limits, err := model.EffectivePlanLimits(workspace.ID)
	assert.NoError(t, err)
	assert.NoError(t, workspace.AddUsage(limits.StorageBytes-2, 1))

	files := multipartFiles(t, []testFile{{"a.txt", "hello"}})
	err = ValidateUpload(link, files, UploadMeta{}, "en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrQuotaExceeded))
}

func TestProcessUpload_StoresFilesAndCounters(t *testing.T) {
	workspace, link, teardown := setupUploadTest(t)
	defer teardown()

	files := multipartFiles(t, []testFile{
		{"invoice.pdf", "pdf-bytes"},
		{"photo.jpg", "jpeg-bytes!"},
	})
	meta := UploadMeta{UploaderName: "Carol", UploaderEmail: "carol@example.com", Note: "Q3 docs"}

	batch, err := ProcessUpload(context.Background(), link, files, meta, "en")
	assert.NoError(t, err)
	assert.NotNil(t, batch)
	assert.NotEmpty(t, batch.PublicID)
	assert.Equal(t, int64(2), batch.FileCount)
	assert.Equal(t, int64(len("pdf-bytes")+len("jpeg-bytes!")), batch.TotalBytes)
	assert.Equal(t, "drop-zone", batch.LinkSlug)

	stored, err := model.GetFilesByBatch(batch.ID)
	assert.NoError(t, err)
	assert.Len(t, stored, 2)
	for _, f := range stored {
		reader, err := Store.Open(f.ObjectKey)
		assert.NoError(t, err)
		data, err := io.ReadAll(reader)
		assert.NoError(t, err)
		assert.NoError(t, reader.Close())
		assert.Equal(t, f.Size, int64(len(data)))
	}

	workspace, err = model.GetWorkspaceByID(workspace.ID, "en")
	assert.NoError(t, err)
	assert.Equal(t, batch.TotalBytes, workspace.UsedBytes)
	assert.Equal(t, int64(2), workspace.FileCount)

	link, err = model.GetLinkByID(link.ID, "en")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), link.BatchCount)
	assert.Equal(t, int64(2), link.FileCount)
	assert.Equal(t, batch.TotalBytes, link.TotalBytes)
}

func TestProcessUpload_CreatesNotificationAndEvent(t *testing.T) {
	workspace, link, teardown := setupUploadTest(t)
	defer teardown()

	files := multipartFiles(t, []testFile{{"a.txt", "hello"}})
	batch, err := ProcessUpload(context.Background(), link, files, UploadMeta{UserAgent: "test-agent"}, "en")
	assert.NoError(t, err)

	notifications, err := model.GetNotifications(workspace.ID, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationUpload, notifications[0].Type)
	assert.Contains(t, notifications[0].Body, batch.PublicID)

	unread, err := model.GetUnreadCount(workspace.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	// Queue is disabled in tests, so the event lands synchronously.
	events, err := model.GetUploadEventsByLink(link.ID, time.Now().Add(-time.Minute))
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "test-agent", events[0].UserAgent)
}

func TestDeleteStoredFile_ReleasesUsage(t *testing.T) {
	workspace, link, teardown := setupUploadTest(t)
	defer teardown()

	files := multipartFiles(t, []testFile{{"a.txt", "hello"}})
	batch, err := ProcessUpload(context.Background(), link, files, UploadMeta{}, "en")
	assert.NoError(t, err)

	stored, err := model.GetFilesByBatch(batch.ID)
	assert.NoError(t, err)
	assert.Len(t, stored, 1)

	assert.NoError(t, DeleteStoredFile(stored[0], "en"))

	_, err = Store.Open(stored[0].ObjectKey)
	assert.Error(t, err)

	workspace, err = model.GetWorkspaceByID(workspace.ID, "en")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), workspace.UsedBytes)
	assert.Equal(t, int64(0), workspace.FileCount)
}

func TestDeleteBatch_RemovesFiles(t *testing.T) {
	_, link, teardown := setupUploadTest(t)
	defer teardown()

	files := multipartFiles(t, []testFile{{"a.txt", "a"}, {"b.txt", "b"}})
	batch, err := ProcessUpload(context.Background(), link, files, UploadMeta{}, "en")
	assert.NoError(t, err)

	assert.NoError(t, DeleteBatch(batch, "en"))

	remaining, err := model.GetFilesByBatch(batch.ID)
	assert.NoError(t, err)
	assert.Len(t, remaining, 0)
}
