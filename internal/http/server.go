package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"financeiro/internal/log"
	"financeiro/internal/metrics"
	"financeiro/internal/middleware/ratelimit"
	"financeiro/internal/middleware/security"
	"financeiro/internal/middleware/trace"
	"financeiro/internal/services"
)

// Options tunes the server's middleware.
type Options struct {
	RateLimitPerMinute int
	// Now returns the current time; it decides which bills are near due.
	Now func() time.Time
}

// Server is the JSON API in front of one document session.
type Server struct {
	http.Server
	session  *services.Session
	metrics  *metrics.Metrics
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	now      func() time.Time
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware. m may be nil, in which case
// /metrics is not served.
func NewServer(addr string, session *services.Session, m *metrics.Metrics, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	limitCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limitCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		session:  session,
		metrics:  m,
		logger:   logger.WithComponent(log.ComponentHTTP),
		limiter:  ratelimit.NewLimiter(limitCfg),
		detector: security.NewDetector(),
		now:      opts.Now,
		started:  time.Now(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/sync", s.handleSync)
	mux.HandleFunc("GET /api/reports", s.handleReports)

	mux.HandleFunc("GET /api/years", s.handleListYears)
	mux.HandleFunc("POST /api/years", s.handleCreateYear)
	mux.HandleFunc("GET /api/years/{year}", s.handleYear)

	mux.HandleFunc("GET /api/years/{year}/months/{month}", s.handleMonth)
	mux.HandleFunc("PUT /api/years/{year}/months/{month}", s.handleReplaceMonth)
	mux.HandleFunc("PUT /api/years/{year}/months/{month}/income", s.handleUpdateIncome)
	mux.HandleFunc("POST /api/years/{year}/months/{month}/sweep", s.handleSweep)
	mux.HandleFunc("POST /api/years/{year}/months/{month}/bills", s.handleAddBill)
	mux.HandleFunc("PATCH /api/years/{year}/months/{month}/bills/{billID}", s.handleUpdateBill)
	mux.HandleFunc("DELETE /api/years/{year}/months/{month}/bills/{billID}", s.handleDeleteBill)
	mux.HandleFunc("POST /api/years/{year}/months/{month}/bills/{billID}/toggle", s.handleToggleBill)

	mux.HandleFunc("PUT /api/reserve", s.handleSetReserve)
	mux.HandleFunc("POST /api/reserve/deposit", s.handleDeposit)

	// Outermost first: trace, headers, detection, rate limit.
	var h http.Handler = mux
	h = s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(),
			"Rate limit exceeded", log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
	})(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
