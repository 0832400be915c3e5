package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/media"
	"github.com/pkordes/product-registry/internal/repo"
)

// Source names the backend that served a call.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Result is the uniform outcome of a gateway call.
type Result[T any] struct {
	Data   T
	Source Source
}

// FallbackRecorder is told about every call served by the local store.
type FallbackRecorder interface {
	RecordFallback(op string, kind domain.StoreErrorKind)
}

// Local bundles the fallback stores.
type Local struct {
	Registrations repo.RegistrationRepo
	References    repo.ReferenceRepo
	Media         media.Store
}

// Gateway tries the remote store first and falls back to the local store when
// the remote is not ready, not configured, missing a resource or unreachable.
// Any other remote failure is logged and returned; the local store is not
// consulted then, so callers never see data from a backend that just refused
// a write for a reason of its own.
type Gateway struct {
	client      *Client
	remoteMedia media.Store
	local       Local
	log         *slog.Logger
	recorder    FallbackRecorder
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithFallbackRecorder reports fallbacks to r, typically the metrics collector.
func WithFallbackRecorder(r FallbackRecorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

// WithRemoteMedia sets the remote photo store. Without it photos always go
// to the local media store.
func WithRemoteMedia(s media.Store) Option {
	return func(g *Gateway) { g.remoteMedia = s }
}

// New constructs a Gateway.
func New(client *Client, local Local, log *slog.Logger, opts ...Option) *Gateway {
	g := &Gateway{client: client, local: local, log: log}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Client returns the remote connection handle.
func (g *Gateway) Client() *Client { return g.client }

// SaveRegistration persists a new registration.
func (g *Gateway) SaveRegistration(ctx context.Context, reg domain.Registration) (Result[domain.Registration], error) {
	return run(ctx, g, "SaveRegistration",
		func(r *Remote) (domain.Registration, error) { return r.Registrations.Create(ctx, reg) },
		func() (domain.Registration, error) { return g.local.Registrations.Create(ctx, reg) },
	)
}

// ListRegistrations returns every registration, newest first.
func (g *Gateway) ListRegistrations(ctx context.Context) (Result[[]domain.Registration], error) {
	return run(ctx, g, "ListRegistrations",
		func(r *Remote) ([]domain.Registration, error) { return r.Registrations.List(ctx) },
		func() ([]domain.Registration, error) { return g.local.Registrations.List(ctx) },
	)
}

// ListReference returns one reference list in insertion order.
func (g *Gateway) ListReference(ctx context.Context, kind domain.ReferenceKind) (Result[[]string], error) {
	return run(ctx, g, "ListReference",
		func(r *Remote) ([]string, error) { return r.References.List(ctx, kind) },
		func() ([]string, error) { return g.local.References.List(ctx, kind) },
	)
}

// SaveReference replaces a whole list and returns it as stored.
func (g *Gateway) SaveReference(ctx context.Context, kind domain.ReferenceKind, items []string) (Result[[]string], error) {
	return run(ctx, g, "SaveReference",
		func(r *Remote) ([]string, error) { return replaceAndList(ctx, r.References, kind, items) },
		func() ([]string, error) { return replaceAndList(ctx, g.local.References, kind, items) },
	)
}

// AddReference inserts items and returns the ones actually added. A single
// item that already exists is reported as domain.ErrDuplicate; in bulk,
// existing items are skipped.
func (g *Gateway) AddReference(ctx context.Context, kind domain.ReferenceKind, items ...string) (Result[[]string], error) {
	add := func(rr repo.ReferenceRepo) ([]string, error) {
		if len(items) == 1 {
			if err := rr.Add(ctx, kind, items[0]); err != nil {
				return nil, err
			}
			return []string{items[0]}, nil
		}
		return rr.AddMany(ctx, kind, items)
	}
	return run(ctx, g, "AddReference",
		func(r *Remote) ([]string, error) { return add(r.References) },
		func() ([]string, error) { return add(g.local.References) },
	)
}

// DeleteReference removes one item and returns the remaining list.
func (g *Gateway) DeleteReference(ctx context.Context, kind domain.ReferenceKind, name string) (Result[[]string], error) {
	del := func(rr repo.ReferenceRepo) ([]string, error) {
		if err := rr.Delete(ctx, kind, name); err != nil {
			return nil, err
		}
		return rr.List(ctx, kind)
	}
	return run(ctx, g, "DeleteReference",
		func(r *Remote) ([]string, error) { return del(r.References) },
		func() ([]string, error) { return del(g.local.References) },
	)
}

// UploadPhoto stores body under name and returns its address. The remote
// media store is independent of the database handle, so only its own error
// decides the fallback.
func (g *Gateway) UploadPhoto(ctx context.Context, name, contentType string, body io.ReadSeeker) (Result[string], error) {
	const op = "UploadPhoto"
	if g.remoteMedia != nil {
		url, err := g.remoteMedia.Put(ctx, name, contentType, body)
		if err == nil {
			return Result[string]{Data: url, Source: SourceRemote}, nil
		}
		if !shouldFallback(err) {
			g.log.ErrorContext(ctx, "remote store failed", "op", op, "error", err)
			return Result[string]{}, err
		}
		g.fellBack(ctx, op, err)
		if _, err := body.Seek(0, io.SeekStart); err != nil {
			return Result[string]{}, fmt.Errorf("gateway.UploadPhoto: rewind: %w", err)
		}
	} else {
		g.fellBack(ctx, op, domain.NewStoreError(domain.KindNotConfigured, op, errors.New("no remote media store")))
	}

	url, err := g.local.Media.Put(ctx, name, contentType, body)
	if err != nil {
		g.log.ErrorContext(ctx, "local store failed", "op", op, "error", err)
		return Result[string]{}, err
	}
	return Result[string]{Data: url, Source: SourceLocal}, nil
}

// Categories returns the remote category repository. Categories have no
// local copy, so an unready remote is an error here.
func (g *Gateway) Categories(ctx context.Context) (repo.ProductCategoryRepo, error) {
	r, err := g.client.Remote(ctx)
	if err != nil {
		return nil, err
	}
	return r.Categories, nil
}

func run[T any](ctx context.Context, g *Gateway, op string,
	remote func(*Remote) (T, error), local func() (T, error)) (Result[T], error) {
	r, err := g.client.Remote(ctx)
	if err == nil {
		data, rerr := remote(r)
		if rerr == nil {
			return Result[T]{Data: data, Source: SourceRemote}, nil
		}
		if !shouldFallback(rerr) {
			if !isExpected(rerr) {
				g.log.ErrorContext(ctx, "remote store failed", "op", op, "error", rerr)
			}
			return Result[T]{}, rerr
		}
		err = rerr
	}
	g.fellBack(ctx, op, err)

	data, err := local()
	if err != nil {
		if !isExpected(err) {
			g.log.ErrorContext(ctx, "local store failed", "op", op, "error", err)
		}
		return Result[T]{}, err
	}
	return Result[T]{Data: data, Source: SourceLocal}, nil
}

func (g *Gateway) fellBack(ctx context.Context, op string, err error) {
	kind := domain.KindOf(err)
	if g.recorder != nil {
		g.recorder.RecordFallback(op, kind)
	}
	level := slog.LevelWarn
	if kind == domain.KindNotConfigured {
		// Running without a remote store is a supported setup.
		level = slog.LevelDebug
	}
	g.log.Log(ctx, level, "falling back to local store", "op", op, "kind", kind.String(), "error", err)
}

func shouldFallback(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindNotConfigured, domain.KindNotFound, domain.KindTransient:
		return true
	}
	return false
}

// isExpected reports whether err is an ordinary business outcome rather
// than a backend failure.
func isExpected(err error) bool {
	return errors.Is(err, domain.ErrDuplicate) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, context.Canceled)
}

func replaceAndList(ctx context.Context, rr repo.ReferenceRepo, kind domain.ReferenceKind, items []string) ([]string, error) {
	if err := rr.Replace(ctx, kind, items); err != nil {
		return nil, err
	}
	return rr.List(ctx, kind)
}
