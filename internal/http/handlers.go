package http

import (
	"net/http"
	"strconv"
	"time"

	"xpense/internal/chart"
	"xpense/internal/core"
	"xpense/internal/export"
	"xpense/internal/log"
	"xpense/internal/pipeline"
	"xpense/internal/services"
)

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())

	req, err := decodeCreateRecord(r)
	if err != nil {
		logger.WarnContext(r.Context(), "Malformed create request", log.FieldError, err)
		writeError(w, http.StatusBadRequest, "malformed_body", err.Error())
		return
	}

	ts, err := parseTimestamp(req.Timestamp, s.loc, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_timestamp", err.Error())
		return
	}

	rec, err := s.entry.Submit(r.Context(), services.Submission{
		Title:      req.Title,
		AmountText: req.Amount,
		Category:   req.Category,
		Timestamp:  ts,
		Notes:      req.Notes,
		ImageRef:   req.ImageRef,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "Record rejected",
			log.FieldError, err,
			log.FieldRecordTitle, req.Title)
		writeValidationError(w, err)
		return
	}

	s.invalidateReports()
	s.slog.LogRecordCreated(r.Context(), rec.Title, rec.Amount.Cents, rec.Category, rec.ID)

	writeJSON(w, http.StatusCreated, toRecordJSON(rec))
}

// handleListRecords runs the range+category pipeline for one request and
// returns the resulting snapshot.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())

	start, end, err := parseRange(r, s.loc, time.Now(), defaultDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
		return
	}

	p := pipeline.New(s.src)
	if err := p.SetRange(r.Context(), start, end); err != nil {
		logger.ErrorContext(r.Context(), "Record load failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "query_failed", "could not load records")
		return
	}
	p.SetCategory(r.URL.Query().Get("category"))

	snap := p.Current()
	records := make([]recordJSON, 0, len(snap.Records))
	for _, rec := range snap.Records {
		records = append(records, toRecordJSON(rec))
	}

	writeJSON(w, http.StatusOK, struct {
		Records          []recordJSON `json:"records"`
		TotalCount       int          `json:"total_count"`
		TotalAmountCents int64        `json:"total_amount_cents"`
	}{records, snap.TotalCount, snap.TotalAmount.Cents})
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	days := parseDays(r, defaultDays)
	now := time.Now()

	totals, ok := s.dailyCache.Get(s.reportKey("daily", days, now))
	if !ok {
		var err error
		totals, err = s.agg.DailyWindow(r.Context(), now, days)
		if err != nil {
			logger.ErrorContext(r.Context(), "Daily report failed", log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "report_failed", "could not build daily report")
			return
		}
		s.dailyCache.Set(s.reportKey("daily", days, now), totals)
	}

	out := make([]dailyTotalJSON, 0, len(totals))
	for _, t := range totals {
		out = append(out, dailyTotalJSON{Day: t.Day, TotalCents: t.Total.Cents})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	days := parseDays(r, defaultDays)
	now := time.Now()

	totals, ok := s.categoryCache.Get(s.reportKey("category", days, now))
	if !ok {
		start, end := core.LastNDaysRange(now, days, s.loc)
		var err error
		totals, err = s.agg.CategoryTotals(r.Context(), start, end)
		if err != nil {
			logger.ErrorContext(r.Context(), "Category report failed", log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "report_failed", "could not build category report")
			return
		}
		s.categoryCache.Set(s.reportKey("category", days, now), totals)
	}

	out := make([]categoryTotalJSON, 0, len(totals))
	for _, t := range totals {
		out = append(out, categoryTotalJSON{Category: t.Category, TotalCents: t.Total.Cents})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleChart lays out the daily window as a bar chart for the requested
// pixel geometry, so clients render without any scaling logic.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	days := parseDays(r, defaultDays)
	now := time.Now()

	geom := chart.Geometry{Width: 360, Height: 240}
	if v, err := strconv.ParseFloat(r.URL.Query().Get("width"), 64); err == nil && v > 0 {
		geom.Width = v
	}
	if v, err := strconv.ParseFloat(r.URL.Query().Get("height"), 64); err == nil && v > 0 {
		geom.Height = v
	}

	opts := chart.Options{Formatter: s.fmtr}
	if v, err := strconv.ParseFloat(r.URL.Query().Get("bar"), 64); err == nil && v > 0 {
		opts.BarWidthFraction = v
	}
	if v, err := strconv.ParseBool(r.URL.Query().Get("compact")); err == nil {
		opts.Formatter.Compact = v
	}

	totals, err := s.agg.DailyWindow(r.Context(), now, days)
	if err != nil {
		logger.ErrorContext(r.Context(), "Chart data failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "report_failed", "could not build chart data")
		return
	}

	// A zero-spend window still renders its days as zero-height bars over
	// the degenerate axis; the placeholder is the chart engine's own case
	// for an empty bucket list.
	var maxUnits float64
	buckets := make([]chart.Bucket, 0, len(totals))
	for _, t := range totals {
		units := t.Total.Units()
		if units > maxUnits {
			maxUnits = units
		}
		// Trim the year; axis labels only need month-day.
		label := t.Day
		if len(label) > 5 {
			label = label[5:]
		}
		buckets = append(buckets, chart.Bucket{Label: label, Value: units})
	}

	axis := chart.ComputeAxis(maxUnits, 5)
	layout := chart.Compute(buckets, axis, geom, opts)
	writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	days := parseDays(r, defaultDays)
	now := time.Now()
	start, end := core.LastNDaysRange(now, days, s.loc)

	daily, err := s.agg.DailyWindow(r.Context(), now, days)
	if err != nil {
		logger.ErrorContext(r.Context(), "Export daily totals failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "export_failed", "could not build export")
		return
	}
	categories, err := s.agg.CategoryTotals(r.Context(), start, end)
	if err != nil {
		logger.ErrorContext(r.Context(), "Export category totals failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "export_failed", "could not build export")
		return
	}
	total, err := s.src.SumRange(r.Context(), start, end)
	if err != nil {
		logger.ErrorContext(r.Context(), "Export sum failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "export_failed", "could not build export")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="summary.csv"`)
	if err := export.WriteSummary(w, export.Summary{
		From:       start,
		To:         end,
		Total:      total,
		Daily:      daily,
		Categories: categories,
	}); err != nil {
		// Headers are gone; all we can do is log.
		logger.ErrorContext(r.Context(), "CSV write failed", log.FieldError, err)
	}
}
