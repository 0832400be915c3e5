// Package handler implements the HTTP handlers for the product registry API.
// All handlers are methods on Server. Methods are split into
// resource-specific files (health.go, registration.go, etc.) but share the
// same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/events"
	"github.com/pkordes/product-registry/internal/gateway"
	"github.com/pkordes/product-registry/internal/middleware"
	"github.com/pkordes/product-registry/internal/service"
	"github.com/pkordes/product-registry/internal/stats"
	"github.com/pkordes/product-registry/spec"
)

// The interfaces below are defined here, in the consumer package, so handler
// tests can inject mocks without touching storage or the service layer.

// RegistrationServicer defines the registration operations the handlers use.
type RegistrationServicer interface {
	Create(ctx context.Context, reg domain.Registration) (gateway.Result[domain.Registration], error)
	List(ctx context.Context, p domain.PaginationParams) (service.RegistrationPage, error)
}

// ReferenceServicer defines the reference-list operations the handlers use.
type ReferenceServicer interface {
	Snapshot(ctx context.Context) (domain.ReferenceSnapshot, error)
	List(ctx context.Context, kind domain.ReferenceKind) (gateway.Result[[]string], error)
	Add(ctx context.Context, kind domain.ReferenceKind, name string) (gateway.Result[[]string], error)
	Replace(ctx context.Context, kind domain.ReferenceKind, items []string) (gateway.Result[[]string], error)
	Delete(ctx context.Context, kind domain.ReferenceKind, name string) (gateway.Result[[]string], error)
}

// ImportServicer defines bulk import and template download.
type ImportServicer interface {
	Import(ctx context.Context, kind domain.ReferenceKind, filename string, content []byte) (service.ImportReport, error)
	Template(kind domain.ReferenceKind, format string) (service.Template, error)
}

// PhotoServicer stores uploaded photos.
type PhotoServicer interface {
	Upload(ctx context.Context, filename, contentType string, body io.ReadSeeker) (gateway.Result[string], error)
}

// StatsServicer computes statistics over the registration history.
type StatsServicer interface {
	Summary(ctx context.Context) (stats.Summary, error)
	ReportPDF(ctx context.Context) ([]byte, error)
}

// ExportServicer flattens the registration history for download.
type ExportServicer interface {
	Export(ctx context.Context) ([]service.ExportRow, error)
}

// CategoryServicer defines product category CRUD.
type CategoryServicer interface {
	Create(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.ProductCategory, error)
	List(ctx context.Context) ([]domain.ProductCategory, error)
	Update(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Backend exposes the remote connection handle.
type Backend interface {
	Status() gateway.Status
	Reconnect(ctx context.Context) gateway.Status
}

// EventSource hands out change-notification subscriptions.
type EventSource interface {
	Subscribe() (<-chan events.Event, func())
}

// Deps lists everything a Server needs. Tests set only the services their
// routes reach.
type Deps struct {
	Registrations RegistrationServicer
	References    ReferenceServicer
	Imports       ImportServicer
	Photos        PhotoServicer
	Stats         StatsServicer
	Export        ExportServicer
	Categories    CategoryServicer
	Backend       Backend
	Events        EventSource

	// Metrics serves /metrics when set.
	Metrics http.Handler
	// MediaDir is served under /media/ when set.
	MediaDir string

	// MaxBodyBytes caps JSON bodies; MaxUploadBytes caps multipart uploads.
	// Zero disables the limit.
	MaxBodyBytes   int64
	MaxUploadBytes int64

	// KeepAlive is the interval between SSE comments on idle streams.
	KeepAlive time.Duration

	Log *slog.Logger
}

// Server implements every API endpoint.
type Server struct {
	regs       RegistrationServicer
	refs       ReferenceServicer
	imports    ImportServicer
	photos     PhotoServicer
	stats      StatsServicer
	export     ExportServicer
	categories CategoryServicer
	backend    Backend
	events     EventSource

	metrics        http.Handler
	mediaDir       string
	maxBodyBytes   int64
	maxUploadBytes int64
	keepAlive      time.Duration
	log            *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	s := &Server{
		regs:           d.Registrations,
		refs:           d.References,
		imports:        d.Imports,
		photos:         d.Photos,
		stats:          d.Stats,
		export:         d.Export,
		categories:     d.Categories,
		backend:        d.Backend,
		events:         d.Events,
		metrics:        d.Metrics,
		mediaDir:       d.MediaDir,
		maxBodyBytes:   d.MaxBodyBytes,
		maxUploadBytes: d.MaxUploadBytes,
		keepAlive:      d.KeepAlive,
		log:            d.Log,
	}
	if s.keepAlive <= 0 {
		s.keepAlive = 25 * time.Second
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Deps{})
}

// Routes registers every endpoint on a fresh chi router. Cross-cutting
// middleware (request IDs, logging, CORS, metrics) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	if s.mediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", mediaHeaders(http.FileServer(http.Dir(s.mediaDir)))))
	}
	if s.events != nil {
		r.Get("/events", s.StreamEvents)
	}

	r.Group(func(r chi.Router) {
		r.Use(limit(s.maxBodyBytes))

		r.Get("/backend", s.GetBackend)
		r.Post("/backend/reconnect", s.ReconnectBackend)

		r.Post("/registrations", s.CreateRegistration)
		r.Get("/registrations", s.ListRegistrations)

		r.Get("/reference", s.GetReferenceSnapshot)
		r.Get("/reference/{kind}", s.ListReference)
		r.Post("/reference/{kind}", s.AddReference)
		r.Put("/reference/{kind}", s.ReplaceReference)
		r.Delete("/reference/{kind}/{name}", s.DeleteReference)
		r.Get("/reference/{kind}/template", s.GetReferenceTemplate)

		r.Get("/stats", s.GetStats)
		r.Get("/stats/report.pdf", s.GetStatsReport)
		r.Get("/export", s.GetExport)

		r.Get("/categories", s.ListCategories)
		r.Post("/categories", s.CreateCategory)
		r.Get("/categories/{id}", s.GetCategory)
		r.Put("/categories/{id}", s.UpdateCategory)
		r.Delete("/categories/{id}", s.DeleteCategory)
	})

	r.Group(func(r chi.Router) {
		r.Use(limit(s.maxUploadBytes))

		r.Post("/photos", s.UploadPhoto)
		r.Post("/reference/{kind}/import", s.ImportReference)
	})

	return r
}

// noteSource reports the serving backend to the request logger.
func noteSource(r *http.Request, src gateway.Source) {
	middleware.NoteSource(r.Context(), string(src))
}

func limit(n int64) func(http.Handler) http.Handler {
	if n <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.NewMaxBodySizeHandler(n)
}

// serveOpenAPI handles GET /openapi.yaml.
// mediaHeaders stops browsers from sniffing or executing stored uploads.
// Files are served as passive content with no script or subresource access.
func mediaHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "default-src 'none'; sandbox")
		next.ServeHTTP(w, r)
	})
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
