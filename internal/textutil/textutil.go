package textutil

import (
	"strconv"
	"strings"
	"time"
)

// DateStr formats t as YYYY-MM-DD in UTC.
func DateStr(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Timestamp returns the unix-seconds timestamp of t as a decimal string.
func Timestamp(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

// UnixToISO converts a unix timestamp (seconds, possibly fractional)
// into an RFC3339 UTC string. A zero timestamp yields an empty string.
func UnixToISO(sec float64) string {
	if sec == 0 {
		return ""
	}
	t := time.Unix(int64(sec), int64((sec-float64(int64(sec)))*1e9))
	return t.UTC().Format(time.RFC3339)
}

// StandardizeLineBreaks rewrites CRLF and lone CR line endings to LF.
func StandardizeLineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
