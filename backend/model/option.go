package model

import (
	"strconv"
	"sync"

	"uplink/backend/common"

	"github.com/burugo/thing"
)

// Option is a key/value system setting row. The full set is mirrored in
// an in-memory map so hot paths never hit the database for a toggle.
type Option struct {
	thing.BaseModel
	Key   string `db:"key,unique" json:"key"`
	Value string `db:"value" json:"value"`
}

func (o *Option) TableName() string {
	return "options"
}

var OptionDB *thing.Thing[*Option]

var optionMap map[string]string
var optionMapRWMutex sync.RWMutex

// Option keys.
const (
	OptionRegisterEnabled      = "RegisterEnabled"
	OptionWebhookSecret        = "BillingWebhookSecret"
	OptionFreeStorageBytes     = "FreeStorageBytes"
	OptionFreeActiveLinks      = "FreeActiveLinks"
	OptionFreeMaxFileBytes     = "FreeMaxFileBytes"
	OptionProStorageBytes      = "ProStorageBytes"
	OptionProActiveLinks       = "ProActiveLinks"
	OptionProMaxFileBytes      = "ProMaxFileBytes"
	OptionBusinessStorageBytes = "BusinessStorageBytes"
	OptionBusinessActiveLinks  = "BusinessActiveLinks"
	OptionBusinessMaxFileBytes = "BusinessMaxFileBytes"
)

func defaultOptions() map[string]string {
	return map[string]string{
		OptionRegisterEnabled:      "true",
		OptionWebhookSecret:        "",
		OptionFreeStorageBytes:     strconv.FormatInt(2<<30, 10),   // 2 GiB
		OptionFreeActiveLinks:      "3",
		OptionFreeMaxFileBytes:     strconv.FormatInt(100<<20, 10), // 100 MiB
		OptionProStorageBytes:      strconv.FormatInt(100<<30, 10),
		OptionProActiveLinks:       "50",
		OptionProMaxFileBytes:      strconv.FormatInt(2<<30, 10),
		OptionBusinessStorageBytes: strconv.FormatInt(1<<40, 10),
		OptionBusinessActiveLinks:  "1000",
		OptionBusinessMaxFileBytes: strconv.FormatInt(10<<30, 10),
	}
}

func OptionInit() error {
	var err error
	OptionDB, err = thing.Use[*Option]()
	return err
}

// InitOptionMapFromDB seeds the map with defaults and overlays whatever the
// database carries.
func InitOptionMapFromDB() error {
	optionMapRWMutex.Lock()
	defer optionMapRWMutex.Unlock()
	optionMap = defaultOptions()
	options, err := OptionDB.Query(thing.QueryParams{}).All()
	if err != nil {
		return err
	}
	for _, option := range options {
		optionMap[option.Key] = option.Value
	}
	return nil
}

func GetOption(key string) string {
	optionMapRWMutex.RLock()
	defer optionMapRWMutex.RUnlock()
	return optionMap[key]
}

func GetOptionBool(key string) bool {
	return GetOption(key) == "true"
}

func GetOptionInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(GetOption(key), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func AllOptions() map[string]string {
	optionMapRWMutex.RLock()
	defer optionMapRWMutex.RUnlock()
	snapshot := make(map[string]string, len(optionMap))
	for k, v := range optionMap {
		snapshot[k] = v
	}
	return snapshot
}

// UpdateOption persists a key and refreshes the in-memory map.
func UpdateOption(key string, value string) error {
	options, err := OptionDB.Query(thing.QueryParams{}).Where("key = ?", key).Fetch(0, 1)
	if err != nil {
		return err
	}
	var option *Option
	if len(options) == 0 {
		option = &Option{Key: key, Value: value}
	} else {
		option = options[0]
		option.Value = value
	}
	if err := OptionDB.Save(option); err != nil {
		return err
	}
	optionMapRWMutex.Lock()
	optionMap[key] = value
	optionMapRWMutex.Unlock()
	common.SysLog("option updated: " + key)
	return nil
}
