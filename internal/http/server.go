package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"xpense/internal/cache"
	"xpense/internal/chart"
	"xpense/internal/core"
	"xpense/internal/log"
	"xpense/internal/report"
	"xpense/internal/services"
	"xpense/internal/store"
)

const (
	reportCacheSize = 100
	reportCacheTTL  = 5 * time.Minute
	defaultDays     = 7

	// POST /records budget per client IP.
	writeRateLimit  = 60
	writeRateWindow = time.Minute
)

type Server struct {
	http.Server

	entry  *services.EntryService
	src    store.RecordSource
	agg    *report.Aggregator
	loc    *time.Location
	fmtr   chart.Formatter
	logger *log.Logger
	slog   *log.StructuredLogger

	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// Report caches keyed by a generation counter bumped on every insert,
	// so a new record invalidates all derived views at once.
	dailyCache    *cache.LRUCache[[]core.DailyTotal]
	categoryCache *cache.LRUCache[[]core.CategoryTotal]
	cacheManager  *cache.Manager
	generation    atomic.Int64

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, entry *services.EntryService, src store.RecordSource, loc *time.Location, logger *log.Logger) *Server {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		entry:         entry,
		src:           src,
		agg:           report.NewAggregator(src, loc),
		loc:           loc,
		fmtr:          chart.Formatter{Symbol: "₹", Compact: true},
		logger:        logger.WithComponent(log.ComponentHTTP),
		rateLimiter:   newRateLimiter(writeRateLimit, writeRateWindow),
		metrics:       &securityMetrics{},
		dailyCache:    cache.NewLRUCache[[]core.DailyTotal](reportCacheSize, reportCacheTTL),
		categoryCache: cache.NewLRUCache[[]core.CategoryTotal](reportCacheSize, reportCacheTTL),
		cacheManager:  cache.NewManager(),
	}
	s.slog = log.NewStructuredLogger(s.logger)

	s.cacheManager.Register(s.dailyCache)
	s.cacheManager.Register(s.categoryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("POST /records", s.withMiddleware(s.handleCreateRecord))
	mux.HandleFunc("GET /records", s.withMiddleware(s.handleListRecords))
	mux.HandleFunc("GET /reports/daily", s.withMiddleware(s.handleDailyReport))
	mux.HandleFunc("GET /reports/categories", s.withMiddleware(s.handleCategoryReport))
	mux.HandleFunc("GET /reports/chart", s.withMiddleware(s.handleChart))
	mux.HandleFunc("GET /exports/summary.csv", s.withMiddleware(s.handleExportCSV))

	return s
}

// withMiddleware adds request IDs, security headers, rate limiting and
// request logging around a handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		reqLogger := s.logger.With(log.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), log.LoggerContextKey, reqLogger)
		r = r.WithContext(ctx)

		s.slog.LogHTTPStart(ctx, r, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			reqLogger.WarnContext(ctx, "Suspicious request pattern",
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
		}

		// Rate limit mutations only; reads are cached and cheap.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			reqLogger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.slog.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady probes the backend with a cheap bounded query.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	now := time.Now()
	if _, err := s.src.SumRange(ctx, core.StartOfDay(now, s.loc), now); err != nil {
		s.logger.ErrorContext(ctx, "Readiness probe failed", log.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("backend unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// invalidateReports makes every cached report view stale.
func (s *Server) invalidateReports() {
	s.generation.Add(1)
}

func (s *Server) reportKey(kind string, days int, now time.Time) string {
	return kind + ":" + strconv.FormatInt(s.generation.Load(), 10) + ":" +
		strconv.Itoa(days) + ":" + core.DayKey(now, s.loc)
}

// Shutdown stops background routines then drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
