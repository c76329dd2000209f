package service

import (
	"testing"
	"time"

	"uplink/backend/model"

	"github.com/stretchr/testify/assert"
)

func seedUploadEvents(t *testing.T, workspaceID int64) {
	t.Helper()
	events := []*model.UploadEvent{
		{LinkID: 1, WorkspaceID: workspaceID, LinkSlug: "alpha", FileCount: 2, TotalBytes: 200},
		{LinkID: 1, WorkspaceID: workspaceID, LinkSlug: "alpha", FileCount: 1, TotalBytes: 50},
		{LinkID: 2, WorkspaceID: workspaceID, LinkSlug: "beta", FileCount: 5, TotalBytes: 1000},
	}
	for _, e := range events {
		assert.NoError(t, model.CreateUploadEvent(e))
	}
}

func TestUploadsPerDay(t *testing.T) {
	teardown := setupServiceTestDB(t)
	defer teardown()

	seedUploadEvents(t, 7)

	stats, err := UploadsPerDay(7, 7)
	assert.NoError(t, err)
	assert.Len(t, stats, 7)

	// Every day is present even without activity; today carries the seeds.
	today := time.Now().Format("2006-01-02")
	assert.Equal(t, today, stats[len(stats)-1].Date)
	assert.Equal(t, int64(3), stats[len(stats)-1].Batches)
	assert.Equal(t, int64(8), stats[len(stats)-1].Files)
	assert.Equal(t, int64(1250), stats[len(stats)-1].TotalBytes)

	var totalBatches int64
	for _, s := range stats {
		totalBatches += s.Batches
	}
	assert.Equal(t, int64(3), totalBatches)
}

func TestUploadsPerDay_ClampsWindow(t *testing.T) {
	teardown := setupServiceTestDB(t)
	defer teardown()

	stats, err := UploadsPerDay(7, -5)
	assert.NoError(t, err)
	assert.Len(t, stats, 30)

	stats, err = UploadsPerDay(7, 9999)
	assert.NoError(t, err)
	assert.Len(t, stats, 30)
}

func TestTopLinks(t *testing.T) {
	teardown := setupServiceTestDB(t)
	defer teardown()

	seedUploadEvents(t, 7)

	top, err := TopLinks(7, 30, 10)
	assert.NoError(t, err)
	assert.Len(t, top, 2)

	// beta moved more bytes, so it leads.
	assert.Equal(t, "beta", top[0].LinkSlug)
	assert.Equal(t, int64(1000), top[0].TotalBytes)
	assert.Equal(t, "alpha", top[1].LinkSlug)
	assert.Equal(t, int64(2), top[1].Batches)
	assert.Equal(t, int64(250), top[1].TotalBytes)

	limited, err := TopLinks(7, 30, 1)
	assert.NoError(t, err)
	assert.Len(t, limited, 1)
	assert.Equal(t, "beta", limited[0].LinkSlug)
}

func TestWindowStart_LocalMidnightBoundary(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*3600)
	now := time.Date(2026, 8, 26, 15, 4, 5, 0, loc)

	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, loc), windowStart(now, 1))
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, loc), windowStart(now, 7))

	// The bucket label of the window start is the first chart day.
	assert.Equal(t, "2026-08-20", windowStart(now, 7).Format("2006-01-02"))
}

func TestTopLinks_SameWindowAsDailyBuckets(t *testing.T) {
	teardown := setupServiceTestDB(t)
	defer teardown()

	seedUploadEvents(t, 7)

	// An event recorded right now must land in both dashboard queries for
	// the one day window, since they share the same lower bound.
	daily, err := UploadsPerDay(7, 1)
	assert.NoError(t, err)
	assert.Len(t, daily, 1)
	assert.Equal(t, int64(3), daily[0].Batches)

	top, err := TopLinks(7, 1, 10)
	assert.NoError(t, err)
	var batches int64
	for _, totals := range top {
		batches += totals.Batches
	}
	assert.Equal(t, daily[0].Batches, batches)
}

func TestLinkActivity(t *testing.T) {
	teardown := setupServiceTestDB(t)
	defer teardown()

	seedUploadEvents(t, 7)

	stats, err := LinkActivity(1, 7)
	assert.NoError(t, err)
	assert.Len(t, stats, 7)
	assert.Equal(t, int64(2), stats[len(stats)-1].Batches)
	assert.Equal(t, int64(3), stats[len(stats)-1].Files)
}
