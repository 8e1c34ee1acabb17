package sources

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var tagRe = regexp.MustCompile(`<[^<]+?>`)

// stripTags removes embedded HTML markup from feed text.
func stripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// normalizeDate renders an outlet's publish date string as YYYY-MM-DD.
// Outlets mix absolute timestamps with relative forms like "3H ago" and
// "45M ago", sometimes prefixed with "updated ".
func normalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "updated "))
	if raw == "" {
		return "", fmt.Errorf("empty date string")
	}

	if strings.Contains(raw, "H ago") {
		hours, err := strconv.Atoi(strings.TrimSpace(strings.Split(raw, "H")[0]))
		if err != nil {
			return "", fmt.Errorf("parse relative hours %q: %w", raw, err)
		}
		return time.Now().Add(-time.Duration(hours) * time.Hour).Format(dateLayout), nil
	}

	if strings.Contains(raw, "M ago") {
		minutes, err := strconv.Atoi(strings.TrimSpace(strings.Split(raw, "M")[0]))
		if err != nil {
			return "", fmt.Errorf("parse relative minutes %q: %w", raw, err)
		}
		return time.Now().Add(-time.Duration(minutes) * time.Minute).Format(dateLayout), nil
	}

	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(dateLayout), nil
		}
	}

	// "Jan 2" style; assume the current year when the outlet omits it.
	if !strings.Contains(raw, ",") {
		raw = fmt.Sprintf("%s, %d", raw, time.Now().Year())
	}
	t, err := time.Parse("Jan 2, 2006", raw)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t.Format(dateLayout), nil
}
