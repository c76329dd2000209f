package model

import (
	"testing"
	"time"

	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"

	"github.com/stretchr/testify/assert"
)

func TestIsSlugTaken(t *testing.T) {
	teardown := setupModelTestDB(t)
	defer teardown()

	taken, err := IsSlugTaken("wedding-photos")
	assert.NoError(t, err)
	assert.False(t, taken)

	link := &Link{WorkspaceID: 1, Slug: "wedding-photos", Title: "Wedding Photos", Active: true}
	assert.NoError(t, link.Save())

	taken, err = IsSlugTaken("wedding-photos")
	assert.NoError(t, err)
	assert.True(t, taken)
}

func TestGetLinkBySlug(t *testing.T) {
	teardown := setupModelTestDB(t)
	defer teardown()

	link := &Link{WorkspaceID: 1, Slug: "drop-here", Title: "Drop Here", Active: true}
	assert.NoError(t, link.Save())

	found, err := GetLinkBySlug("drop-here", "en")
	assert.NoError(t, err)
	assert.Equal(t, link.ID, found.ID)

	_, err = GetLinkBySlug("no-such-slug", "en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrLinkNotFound))
}

func TestLinkExpired(t *testing.T) {
	link := &Link{}
	assert.False(t, link.Expired())

	link.ExpiresAt = time.Now().Add(time.Hour).Unix()
	assert.False(t, link.Expired())

	link.ExpiresAt = time.Now().Add(-time.Hour).Unix()
	assert.True(t, link.Expired())
}

func TestAddLinkUsage(t *testing.T) {
	teardown := setupModelTestDB(t)
	defer teardown()

	link := &Link{WorkspaceID: 1, Slug: "usage", Title: "Usage", Active: true}
	assert.NoError(t, link.Save())

	assert.NoError(t, link.AddLinkUsage(3, 300))
	assert.NoError(t, link.AddLinkUsage(1, 50))

	fresh, err := GetLinkByID(link.ID, "en")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), fresh.BatchCount)
	assert.Equal(t, int64(4), fresh.FileCount)
	assert.Equal(t, int64(350), fresh.TotalBytes)
}

func TestDeleteLink_KeepsFiles(t *testing.T) {
	teardown := setupModelTestDB(t)
	defer teardown()

	link := &Link{WorkspaceID: 1, Slug: "doomed", Title: "Doomed", Active: true}
	assert.NoError(t, link.Save())

	file := &File{WorkspaceID: 1, BatchID: 1, ObjectKey: "abc123def", Name: "kept.txt", Size: 10}
	assert.NoError(t, file.Save())

	assert.NoError(t, DeleteLink(link))

	_, err := GetLinkBySlug("doomed", "en")
	assert.Error(t, err)

	kept, err := GetFileByID(file.ID, "en")
	assert.NoError(t, err)
	assert.Equal(t, "kept.txt", kept.Name)
}

func TestCountActiveLinks(t *testing.T) {
	teardown := setupModelTestDB(t)
	defer teardown()

	for i, active := range []bool{true, true, false} {
		link := &Link{WorkspaceID: 5, Slug: "count-" + string(rune('a'+i)), Active: active}
		assert.NoError(t, link.Save())
	}

	count, err := CountActiveLinks(5)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
