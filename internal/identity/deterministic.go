package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

func EntryUUID(sourcePath string) uuid.UUID {
	return UUID("sitegen:entry:" + strings.TrimSpace(sourcePath))
}

func TagUUID(tag string) uuid.UUID {
	return UUID("sitegen:tag:" + strings.ToLower(strings.TrimSpace(tag)))
}

func LocaleUUID(localeCode string) uuid.UUID {
	return UUID("sitegen:locale:" + strings.ToLower(strings.TrimSpace(localeCode)))
}

func ThemeUUID(themePath string) uuid.UUID {
	return UUID("sitegen:theme:" + strings.TrimSpace(themePath))
}

func RouteUUID(locale, route string) uuid.UUID {
	return UUID("sitegen:route:" + strings.ToLower(strings.TrimSpace(locale)) + ":" + strings.TrimSpace(route))
}

func BuildUUID(outputDir string, startedAt string) uuid.UUID {
	return UUID("sitegen:build:" + strings.TrimSpace(outputDir) + ":" + strings.TrimSpace(startedAt))
}

func ListingUUID(collection string) uuid.UUID {
	return UUID("sitegen:listing:" + strings.ToLower(strings.TrimSpace(collection)))
}
