package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/TimurManjosov/tpformat/internal/formatter"
	"github.com/TimurManjosov/tpformat/internal/logging"
	"github.com/TimurManjosov/tpformat/internal/telemetry"
)

// Options tunes request handling.
type Options struct {
	MaxDocumentBytes int64 // body limit; <= 0 means defaultMaxDocumentBytes
	RateLimitPerIP   int   // requests per minute per client IP; 0 disables limiting

	TracerProvider trace.TracerProvider // nil uses the global provider
}

const defaultMaxDocumentBytes = 1 << 20

type Server struct {
	formatter *formatter.Formatter
	logger    zerolog.Logger
	opts      Options
}

func NewServer(f *formatter.Formatter, logger zerolog.Logger, opts Options) *Server {
	if opts.MaxDocumentBytes <= 0 {
		opts.MaxDocumentBytes = defaultMaxDocumentBytes
	}
	return &Server{formatter: f, logger: logger, opts: opts}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(telemetry.Tracing(s.opts.TracerProvider))
	r.Use(logging.Middleware(s.logger), telemetry.Middleware)
	r.Use(middleware.Timeout(5 * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError(w, r, "no such endpoint")
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		if s.opts.RateLimitPerIP > 0 {
			r.Use(httprate.Limit(
				s.opts.RateLimitPerIP,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					RateLimitedError(w, r, "rate limit exceeded")
				}),
			))
		}
		r.Post("/format", s.handleFormat)
		r.Post("/inspect", s.handleInspect)
		r.Post("/jsonlogic", s.handleJSONLogic)
		r.Post("/cel", s.handleCEL)
		r.Post("/evaluate", s.handleEvaluate)
	})

	return r
}
