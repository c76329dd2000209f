package model

import (
	"encoding/json"
	"time"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"

	"github.com/burugo/thing"
	"github.com/redis/go-redis/v9"
)

// Link grants external upload access to one folder of a workspace. Slug is
// globally unique. ExpiresAt is unix seconds, 0 means never. A zero
// MaxFileBytes or MaxFilesPerBatch falls back to the plan limit.
type Link struct {
	thing.BaseModel
	WorkspaceID      int64  `db:"workspace_id,index:idx_link_ws" json:"workspace_id"`
	FolderID         int64  `db:"folder_id,index:idx_link_folder" json:"folder_id"`
	Slug             string `db:"slug,unique" json:"slug"`
	Title            string `db:"title" json:"title"`
	Message          string `db:"message" json:"message"`
	PasswordHash     string `db:"password_hash" json:"-"`
	ExpiresAt        int64  `db:"expires_at" json:"expires_at"`
	MaxFileBytes     int64  `db:"max_file_bytes" json:"max_file_bytes"`
	MaxFilesPerBatch int    `db:"max_files_per_batch" json:"max_files_per_batch"`
	Active           bool   `db:"active,index" json:"active"`
	BatchCount       int64  `db:"batch_count" json:"batch_count"`
	FileCount        int64  `db:"file_count" json:"file_count"`
	TotalBytes       int64  `db:"total_bytes" json:"total_bytes"`
}

func (l *Link) TableName() string {
	return "links"
}

var LinkDB *thing.Thing[*Link]

func LinkInit() error {
	var err error
	LinkDB, err = thing.Use[*Link]()
	return err
}

func (l *Link) Expired() bool {
	return l.ExpiresAt > 0 && time.Now().Unix() > l.ExpiresAt
}

func (l *Link) RequiresPassword() bool {
	return l.PasswordHash != ""
}

func (l *Link) Save() error {
	return LinkDB.Save(l)
}

func GetLinkByID(id int64, lang string) (*Link, error) {
	if id == 0 {
		return nil, i18n.New(uperrors.ErrEmptyID, lang)
	}
	link, err := LinkDB.ByID(id)
	if err != nil {
		return nil, i18n.Wrap(err, uperrors.ErrLinkNotFound, lang)
	}
	return link, nil
}

func GetLinksByWorkspace(workspaceID int64, startIdx int, num int) ([]*Link, error) {
	return LinkDB.Query(thing.QueryParams{}).
		Where("workspace_id = ?", workspaceID).Order("id DESC").Fetch(startIdx, num)
}

func IsSlugTaken(slug string) (bool, error) {
	count, err := LinkDB.Query(thing.QueryParams{}).Where("slug = ?", slug).Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

const linkCacheTTL = time.Hour

// linkCacheEntry is the Redis payload for a cached link. Link's own JSON
// shape hides PasswordHash from API responses, so the cache carries the hash
// in an explicit field; otherwise a cache hit would come back unprotected.
type linkCacheEntry struct {
	Link
	PasswordHash string `json:"password_hash"`
}

// The v2 segment skips entries written before the payload carried the
// password hash.
func linkCacheKey(slug string) string {
	return "link:slug:v2:" + slug
}

// GetLinkBySlug resolves a slug for the public upload page, cache-aside
// through Redis when it is enabled.
func GetLinkBySlug(slug string, lang string) (*Link, error) {
	if common.RedisEnabled && common.RDB != nil {
		cached, err := common.RedisGet(linkCacheKey(slug))
		if err == nil {
			var entry linkCacheEntry
			if jsonErr := json.Unmarshal([]byte(cached), &entry); jsonErr == nil {
				link := entry.Link
				link.PasswordHash = entry.PasswordHash
				return &link, nil
			}
		} else if err != redis.Nil {
			common.SysError("link cache read failed: " + err.Error())
		}
	}

	links, err := LinkDB.Query(thing.QueryParams{}).Where("slug = ?", slug).Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, i18n.New(uperrors.ErrLinkNotFound, lang)
	}
	link := links[0]

	if common.RedisEnabled && common.RDB != nil {
		entry := linkCacheEntry{Link: *link, PasswordHash: link.PasswordHash}
		if data, jsonErr := json.Marshal(entry); jsonErr == nil {
			if err := common.RedisSet(linkCacheKey(slug), string(data), linkCacheTTL); err != nil {
				common.SysError("link cache write failed: " + err.Error())
			}
		}
	}
	return link, nil
}

// InvalidateLinkCache drops a slug from the cache. Call it on every write
// to a link so the public page never serves stale constraints.
func InvalidateLinkCache(slug string) {
	if !common.RedisEnabled || common.RDB == nil || slug == "" {
		return
	}
	if err := common.RedisDel(linkCacheKey(slug)); err != nil {
		common.SysError("link cache invalidation failed: " + err.Error())
	}
}

// AddLinkUsage bumps the per-link counters after an accepted batch.
func (l *Link) AddLinkUsage(fileCount int64, bytes int64) error {
	l.BatchCount++
	l.FileCount += fileCount
	l.TotalBytes += bytes
	if err := LinkDB.Save(l); err != nil {
		return err
	}
	InvalidateLinkCache(l.Slug)
	return nil
}

// DeleteLink removes the link only; collected batches and files survive
// under their denormalized slug.
func DeleteLink(link *Link) error {
	if err := LinkDB.Delete(link); err != nil {
		return err
	}
	InvalidateLinkCache(link.Slug)
	return nil
}
