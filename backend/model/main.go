package model

import (
	"os"
	"path/filepath"

	"uplink/backend/common"

	"github.com/burugo/thing"
	redisCache "github.com/burugo/thing/drivers/cache/redis"
	"github.com/burugo/thing/drivers/db/sqlite"
)

func createRootAccountIfNeed() error {
	users, err := UserDB.Query(thing.QueryParams{}).Fetch(0, 1)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		common.SysLog("no user exists, creating a root user: username is root, password is 123456")
		hashedPassword, err := common.Password2Hash("123456")
		if err != nil {
			return err
		}
		rootUser := &User{
			Username:    "root",
			Password:    hashedPassword,
			Role:        common.RoleRootUser,
			Status:      common.UserStatusEnabled,
			DisplayName: "Root User",
			Email:       "root@localhost",
		}
		if err := UserDB.Save(rootUser); err != nil {
			return err
		}
		// Root gets a workspace like everyone else.
		_, err = EnsureWorkspaceForUser(rootUser.ID, "Root's Workspace")
		return err
	}
	return nil
}

func InitDB() error {
	if dir := filepath.Dir(common.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	dbAdapter, err := sqlite.NewSQLiteAdapter(common.SQLitePath)
	if err != nil {
		return err
	}
	var cacheClient thing.CacheClient
	if common.RedisEnabled && common.RDB != nil {
		cacheClient, err = redisCache.NewClient(common.RDB, nil)
		if err != nil {
			return err
		}
	}
	thing.Configure(dbAdapter, cacheClient)

	err = thing.AutoMigrate(
		&User{},
		&Option{},
		&Workspace{},
		&Folder{},
		&Link{},
		&Batch{},
		&File{},
		&Notification{},
		&Subscription{},
		&UploadEvent{},
	)
	if err != nil {
		return err
	}

	inits := []func() error{
		UserInit,
		OptionInit,
		WorkspaceInit,
		FolderInit,
		LinkInit,
		BatchInit,
		FileInit,
		NotificationInit,
		SubscriptionInit,
		UploadEventInit,
	}
	for _, initFn := range inits {
		if err := initFn(); err != nil {
			return err
		}
	}

	// Options feed plan limits and toggles; load them before anything
	// consults the option map.
	if err := InitOptionMapFromDB(); err != nil {
		return err
	}

	return createRootAccountIfNeed()
}

func CloseDB() error {
	// The ORM owns the pool; nothing to release explicitly.
	return nil
}
