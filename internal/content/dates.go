package content

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DateFromPath infers a publish date from a source path of the form
// <postsDir>/YYYY/MM/DD/slug.md. The boolean reports whether a valid date
// was found. Invalid calendar dates (2024/02/31) do not match.
func DateFromPath(sourcePath, postsDir string) (time.Time, bool) {
	rel := strings.TrimPrefix(path.Clean(filepath.ToSlash(sourcePath)), path.Clean(filepath.ToSlash(postsDir)))
	rel = strings.TrimPrefix(rel, "/")
	segments := strings.Split(rel, "/")
	if len(segments) < 4 {
		return time.Time{}, false
	}

	year, ok := parseDatePart(segments[0], 4)
	if !ok {
		return time.Time{}, false
	}
	month, ok := parseDatePart(segments[1], 2)
	if !ok || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, ok := parseDatePart(segments[2], 2)
	if !ok || day < 1 || day > 31 {
		return time.Time{}, false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 31 -> Mar 2); a round-trip mismatch
	// means the path did not name a real calendar date.
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

func parseDatePart(segment string, width int) (int, bool) {
	if len(segment) != width {
		return 0, false
	}
	value, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return value, true
}
