// Package http serves the JSON API for records, reports and exports.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"xpense/internal/core"
)

// maxBodySize bounds JSON request bodies (64 KB).
const maxBodySize = 64 * 1024

// createRecordRequest is the POST /records payload. Amount is a decimal
// string so clients never deal in float cents.
type createRecordRequest struct {
	Title     string `json:"title"`
	Amount    string `json:"amount"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp,omitempty"`
	Notes     string `json:"notes,omitempty"`
	ImageRef  string `json:"image_ref,omitempty"`
}

func decodeCreateRecord(r *http.Request) (createRecordRequest, error) {
	var req createRecordRequest

	body := http.MaxBytesReader(nil, r.Body, maxBodySize)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return req, fmt.Errorf("unexpected trailing data in request body")
	}

	req.Title = sanitizeInput(req.Title)
	req.Category = sanitizeInput(req.Category)
	req.Notes = sanitizeInput(req.Notes)
	req.ImageRef = strings.TrimSpace(req.ImageRef)
	return req, nil
}

// parseTimestamp accepts RFC 3339 or a plain date; empty means now.
func parseTimestamp(s string, loc *time.Location, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: want RFC 3339 or YYYY-MM-DD", s)
}

// parseDays reads a trailing-window length, clamped to [1, 90].
func parseDays(r *http.Request, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get("days"))
	if v == "" {
		return def
	}
	days, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if days < 1 {
		return 1
	}
	if days > 90 {
		return 90
	}
	return days
}

// parseRange reads from/to query params as dates in loc. Defaults to the
// trailing defDays window ending today.
func parseRange(r *http.Request, loc *time.Location, now time.Time, defDays int) (time.Time, time.Time, error) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))

	if from == "" && to == "" {
		days := parseDays(r, defDays)
		start, end := core.LastNDaysRange(now, days, loc)
		return start, end, nil
	}

	start, err := parseTimestamp(from, loc, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := now
	if to != "" {
		end, err = parseTimestamp(to, loc, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// A bare date for "to" means the whole of that day.
		if len(to) == len("2006-01-02") {
			end = end.AddDate(0, 0, 1).Add(-time.Millisecond)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range: to precedes from")
	}
	return start, end, nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
