package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"apbdes/internal/core"
	"apbdes/internal/export"
	applog "apbdes/internal/log"
	"apbdes/internal/middleware/ratelimit"
	"apbdes/internal/middleware/security"
	"apbdes/internal/middleware/trace"
	"apbdes/internal/session"
	appweb "apbdes/web"
)

// ExportJournal records finished downloads.
type ExportJournal interface {
	RecordExport(ctx context.Context, rec core.ExportRecord) error
}

// Pinger is implemented by dependencies the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type nopJournal struct{}

func (nopJournal) RecordExport(context.Context, core.ExportRecord) error { return nil }

// Options wires the server to its collaborators. Zero durations and an
// empty prefix fall back to the defaults of the config package.
type Options struct {
	Addr           string
	Sessions       *session.Store
	Journal        ExportJournal
	Formats        []export.Format
	Logger         *applog.Logger
	IDs            core.IDGenerator
	ExportTimeout  time.Duration
	ExportRate     int
	SessionTTL     time.Duration
	FilenamePrefix string
}

type Server struct {
	http.Server
	templates  *template.Template
	sessions   *session.Store
	journal    ExportJournal
	formats    []export.Format
	ids        core.IDGenerator
	logger     *applog.Logger
	structured *applog.StructuredLogger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	exportTimeout time.Duration
	sessionTTL    time.Duration
	prefix        string

	appMetrics   *appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	edits           int64
	exports         int64
	exportFailures  int64
	journalFailures int64
	uptime          time.Time
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(o Options) *Server {
	if o.Logger == nil {
		o.Logger = applog.New(applog.DefaultConfig())
	}
	if o.Journal == nil {
		o.Journal = nopJournal{}
	}
	if o.IDs == nil {
		o.IDs = core.UUIDs
	}
	if o.ExportTimeout <= 0 {
		o.ExportTimeout = 20 * time.Second
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 12 * time.Hour
	}
	if o.FilenamePrefix == "" {
		o.FilenamePrefix = "apbdes"
	}

	mux := http.NewServeMux()
	logger := o.Logger.WithComponent(applog.ComponentHTTP)
	detector := security.NewDetector()

	s := &Server{
		Server: http.Server{
			Addr:              o.Addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		sessions:         o.Sessions,
		journal:          o.Journal,
		formats:          o.Formats,
		ids:              o.IDs,
		logger:           logger,
		structured:       applog.NewStructuredLogger(logger),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: o.ExportRate}),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(logger, detector.ExtractClientIP),
		exportTimeout:    o.ExportTimeout,
		sessionTTL:       o.SessionTTL,
		prefix:           o.FilenamePrefix,
		appMetrics:       &appMetrics{uptime: time.Now()},
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	} else {
		s.templates = t
	}

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// UI partials and edit operations
	mux.HandleFunc("GET /ui/banner", s.handleBanner)
	mux.HandleFunc("POST /doc/header", s.handleUpdateHeader)
	mux.HandleFunc("POST /doc/rows/add", s.handleAddRow)
	mux.HandleFunc("POST /doc/rows/remove", s.handleRemoveRow)
	mux.HandleFunc("POST /doc/rows/update", s.handleUpdateRow)
	mux.HandleFunc("POST /doc/images/{slot}", s.handleUploadImage)
	mux.HandleFunc("POST /doc/images/{slot}/clear", s.handleClearImage)
	mux.HandleFunc("POST /doc/reset", s.handleReset)
	mux.Handle("GET /api/document", security.NoStore(http.HandlerFunc(s.handleDocument)))

	// Downloads share one rate limit per client
	limit := s.rateLimiter.Middleware(detector.ExtractClientIP, s.handleRateLimited)
	for _, f := range o.Formats {
		mux.Handle("GET /export."+f.Extension, limit(security.NoStore(s.handleExport(f))))
	}

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = s.traceMiddleware.Middleware(detector.Middleware(headers.Middleware(mux)))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
