package service

import (
	"fmt"
	"path/filepath"
	"testing"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"
	"uplink/backend/model"

	"github.com/stretchr/testify/assert"
)

func setupServiceTestDB(t *testing.T) func() {
	t.Helper()
	originalSQLitePath := common.SQLitePath
	originalRedisEnabled := common.RedisEnabled
	common.SQLitePath = filepath.Join(t.TempDir(), "service_test.db")
	common.RedisEnabled = false

	err := model.InitDB()
	assert.NoError(t, err)

	return func() {
		common.SQLitePath = originalSQLitePath
		common.RedisEnabled = originalRedisEnabled
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Wedding Photos", "wedding-photos"},
		{"  Q3 Invoices!!", "q3-invoices"},
		{"already-slugged", "already-slugged"},
		{"UPPER case", "upper-case"},
		{"dots.and.spaces here", "dots-and-spaces-here"},
		{"---", ""},
		{"", ""},
		{"日本語のみ", ""},
		{"mixed 日本語 title", "mixed-title"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.title), "title: %q", tc.title)
	}
}

func TestGenerateUniqueSlug_FromTitle(t *testing.T) {
	teardown := setupServiceTestDB(t)
	defer teardown()

	slug, err := GenerateUniqueSlug("Wedding Photos", "en")
	assert.NoError(t, err)
	assert.Equal(t, "wedding-photos", slug)
}

func TestGenerateUniqueSlug_CollisionAppendsSuffix(t *testing.T) {
	teardown := setupServiceTestDB(t)
	defer teardown()

	taken := &model.Link{WorkspaceID: 1, Slug: "wedding-photos", Title: "Wedding Photos", Active: true}
	assert.NoError(t, taken.Save())

	slug, err := GenerateUniqueSlug("Wedding Photos", "en")
	assert.NoError(t, err)
	assert.Equal(t, "wedding-photos-2", slug)

	second := &model.Link{WorkspaceID: 1, Slug: slug, Title: "Wedding Photos", Active: true}
	assert.NoError(t, second.Save())

	slug, err = GenerateUniqueSlug("Wedding Photos", "en")
	assert.NoError(t, err)
	assert.Equal(t, "wedding-photos-3", slug)
}

func TestGenerateUniqueSlug_BlankTitleGetsRandomSlug(t *testing.T) {
	teardown := setupServiceTestDB(t)
	defer teardown()

	slug, err := GenerateUniqueSlug("", "en")
	assert.NoError(t, err)
	assert.Len(t, slug, 8)

	other, err := GenerateUniqueSlug("   ", "en")
	assert.NoError(t, err)
	assert.NotEqual(t, slug, other)
}

func TestGenerateUniqueSlug_ExhaustionReportsCode(t *testing.T) {
	teardown := setupServiceTestDB(t)
	defer teardown()

	base := &model.Link{WorkspaceID: 1, Slug: "busy", Title: "busy", Active: true}
	assert.NoError(t, base.Save())
	for i := 2; i <= maxSlugAttempts+1; i++ {
		link := &model.Link{
			WorkspaceID: 1,
			Slug:        fmt.Sprintf("busy-%d", i),
			Title:       "busy",
			Active:      true,
		}
		assert.NoError(t, link.Save())
	}

	_, err := GenerateUniqueSlug("busy", "en")
	assert.Error(t, err)
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrSlugGenExhausted))
}
