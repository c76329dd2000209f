package service

import (
	"sort"
	"time"

	"uplink/backend/model"
)

// DailyUploadStat is one day of upload activity for a workspace.
type DailyUploadStat struct {
	Date       string `json:"date"`
	Batches    int64  `json:"batches"`
	Files      int64  `json:"files"`
	TotalBytes int64  `json:"total_bytes"`
}

// LinkTotals aggregates everything a link has collected in a window.
type LinkTotals struct {
	LinkID     int64  `json:"link_id"`
	LinkSlug   string `json:"link_slug"`
	Batches    int64  `json:"batches"`
	Files      int64  `json:"files"`
	TotalBytes int64  `json:"total_bytes"`
}

// windowStart is the inclusive lower bound of a trailing window of whole
// local days, today included. Every dashboard query shares it so the same
// events fall inside the same window.
func windowStart(now time.Time, days int) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -days+1)
}

// UploadsPerDay buckets the workspace's upload events by calendar day over
// the trailing window. Days without activity are filled with zero rows so
// charts do not skip.
func UploadsPerDay(workspaceID int64, days int) ([]DailyUploadStat, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	first := windowStart(time.Now(), days)
	events, err := model.GetUploadEventsSince(workspaceID, first)
	if err != nil {
		return nil, err
	}

	return bucketByDay(events, first, days), nil
}

func bucketByDay(events []*model.UploadEvent, first time.Time, days int) []DailyUploadStat {
	byDay := make(map[string]*DailyUploadStat)
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i).Format("2006-01-02")
		byDay[date] = &DailyUploadStat{Date: date}
	}
	for _, event := range events {
		date := event.CreatedAt.Format("2006-01-02")
		stat, ok := byDay[date]
		if !ok {
			continue
		}
		stat.Batches++
		stat.Files += event.FileCount
		stat.TotalBytes += event.TotalBytes
	}

	stats := make([]DailyUploadStat, 0, len(byDay))
	for _, stat := range byDay {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats
}

// TopLinks returns per-link totals over the window, busiest first.
func TopLinks(workspaceID int64, days int, limit int) ([]LinkTotals, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	since := windowStart(time.Now(), days)
	events, err := model.GetUploadEventsSince(workspaceID, since)
	if err != nil {
		return nil, err
	}

	byLink := make(map[int64]*LinkTotals)
	for _, event := range events {
		totals, ok := byLink[event.LinkID]
		if !ok {
			totals = &LinkTotals{LinkID: event.LinkID, LinkSlug: event.LinkSlug}
			byLink[event.LinkID] = totals
		}
		totals.Batches++
		totals.Files += event.FileCount
		totals.TotalBytes += event.TotalBytes
	}

	result := make([]LinkTotals, 0, len(byLink))
	for _, totals := range byLink {
		result = append(result, *totals)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalBytes != result[j].TotalBytes {
			return result[i].TotalBytes > result[j].TotalBytes
		}
		return result[i].LinkID < result[j].LinkID
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// LinkActivity returns daily stats for a single link.
func LinkActivity(linkID int64, days int) ([]DailyUploadStat, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	first := windowStart(time.Now(), days)
	events, err := model.GetUploadEventsByLink(linkID, first)
	if err != nil {
		return nil, err
	}
	return bucketByDay(events, first, days), nil
}
