package i18n

import (
	"fmt"
	"strings"

	uperrors "uplink/backend/common/errors"
)

const defaultLang = "en"

// Message catalogs keyed by error code. English is the fallback for any
// language we do not carry.
var locales = map[string]map[string]string{
	"en": {
		uperrors.ErrInternalServer: "Internal server error",
		uperrors.ErrInvalidParam:   "Invalid parameter: %s",
		uperrors.ErrEmptyID:        "ID is empty",

		uperrors.ErrUserNotFound:       "User not found",
		uperrors.ErrEmptyCredentials:   "Username or password is empty",
		uperrors.ErrInvalidCredentials: "Invalid username or password, or the user is disabled",
		uperrors.ErrUserDisabled:       "User is disabled",
		uperrors.ErrEmailTaken:         "Email is already in use",
		uperrors.ErrUsernameTaken:      "Username is already taken",

		uperrors.ErrWorkspaceNotFound: "Workspace not found",
		uperrors.ErrWorkspaceExists:   "Workspace already exists",
		uperrors.ErrFolderNotFound:    "Folder not found",
		uperrors.ErrFolderNotEmpty:    "Folder is not empty",
		uperrors.ErrNotOwner:          "You do not own this resource",

		uperrors.ErrLinkNotFound:     "Upload link not found",
		uperrors.ErrLinkInactive:     "This upload link has been turned off",
		uperrors.ErrLinkExpired:      "This upload link has expired",
		uperrors.ErrLinkPassword:     "Wrong or missing link password",
		uperrors.ErrSlugTaken:        "Slug is already taken",
		uperrors.ErrSlugGenExhausted: "Could not generate a unique slug",
		uperrors.ErrTooManyFiles:     "Too many files in one upload, the limit is %d",
		uperrors.ErrFileTooLarge:     "File %s exceeds the size limit",
		uperrors.ErrQuotaExceeded:    "Workspace storage quota exceeded",
		uperrors.ErrActiveLinkLimit:  "Active link limit reached for the current plan",
		uperrors.ErrNoFilesInUpload:  "No files in upload",

		uperrors.ErrFileNotFound:  "File not found",
		uperrors.ErrBatchNotFound: "Batch not found",

		uperrors.ErrNotificationNotFound: "Notification not found",

		uperrors.ErrSubscriptionNotFound: "Subscription not found",
		uperrors.ErrUnknownPlan:          "Unknown plan: %s",
		uperrors.ErrWebhookSignature:     "Invalid webhook signature",
	},
	"zh": {
		uperrors.ErrInternalServer: "服务器内部错误",
		uperrors.ErrInvalidParam:   "无效的参数: %s",
		uperrors.ErrEmptyID:        "ID 为空",

		uperrors.ErrUserNotFound:       "未找到用户",
		uperrors.ErrEmptyCredentials:   "用户名或密码为空",
		uperrors.ErrInvalidCredentials: "用户名或密码错误，或用户已被封禁",
		uperrors.ErrUserDisabled:       "用户已被封禁",
		uperrors.ErrEmailTaken:         "邮箱已被占用",
		uperrors.ErrUsernameTaken:      "用户名已被占用",

		uperrors.ErrWorkspaceNotFound: "未找到工作区",
		uperrors.ErrWorkspaceExists:   "工作区已存在",
		uperrors.ErrFolderNotFound:    "未找到文件夹",
		uperrors.ErrFolderNotEmpty:    "文件夹不为空",
		uperrors.ErrNotOwner:          "无权操作此资源",

		uperrors.ErrLinkNotFound:     "未找到上传链接",
		uperrors.ErrLinkInactive:     "上传链接已关闭",
		uperrors.ErrLinkExpired:      "上传链接已过期",
		uperrors.ErrLinkPassword:     "链接密码错误或缺失",
		uperrors.ErrSlugTaken:        "短链已被占用",
		uperrors.ErrSlugGenExhausted: "无法生成唯一短链",
		uperrors.ErrTooManyFiles:     "单次上传文件过多，上限为 %d",
		uperrors.ErrFileTooLarge:     "文件 %s 超出大小限制",
		uperrors.ErrQuotaExceeded:    "工作区存储配额已用尽",
		uperrors.ErrActiveLinkLimit:  "已达到当前套餐的活跃链接上限",
		uperrors.ErrNoFilesInUpload:  "上传中没有文件",

		uperrors.ErrFileNotFound:  "未找到文件",
		uperrors.ErrBatchNotFound: "未找到上传批次",

		uperrors.ErrNotificationNotFound: "未找到通知",

		uperrors.ErrSubscriptionNotFound: "未找到订阅",
		uperrors.ErrUnknownPlan:          "未知套餐: %s",
		uperrors.ErrWebhookSignature:     "Webhook 签名无效",
	},
}

// Translate resolves an error code to a human message. Unknown codes come
// back unchanged so callers can always surface something.
func Translate(code string, lang string, args ...interface{}) string {
	lang = normalizeLang(lang)
	catalog, ok := locales[lang]
	if !ok {
		catalog = locales[defaultLang]
	}
	msg, ok := catalog[code]
	if !ok {
		msg, ok = locales[defaultLang][code]
		if !ok {
			return code
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if lang == "" {
		return defaultLang
	}
	return lang
}
