package service

import (
	"fmt"
	"strings"
	"unicode"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"
	"uplink/backend/model"
)

const (
	slugMaxLen      = 48
	randomSlugLen   = 8
	maxSlugAttempts = 50
)

// Slugify lowers a title to url-safe form: letters and digits survive,
// everything else collapses into single dashes.
func Slugify(title string) string {
	var sb strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
		if sb.Len() >= slugMaxLen {
			break
		}
	}
	return strings.Trim(sb.String(), "-")
}

// GenerateUniqueSlug derives a slug from the title and, on collision,
// appends an incrementing numeric suffix (report, report-2, report-3, ...)
// until the uniqueness check passes. A blank title gets a random base58
// code instead.
func GenerateUniqueSlug(title string, lang string) (string, error) {
	base := Slugify(title)
	if base == "" {
		return generateRandomSlug(lang)
	}
	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts+1; attempt++ {
		taken, err := model.IsSlugTaken(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
	return "", i18n.New(uperrors.ErrSlugGenExhausted, lang)
}

func generateRandomSlug(lang string) (string, error) {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := common.RandomBase58(randomSlugLen)
		taken, err := model.IsSlugTaken(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", i18n.New(uperrors.ErrSlugGenExhausted, lang)
}
