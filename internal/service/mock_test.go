package service_test

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/events"
	"github.com/pkordes/product-registry/internal/gateway"
	"github.com/pkordes/product-registry/internal/repo"
	"github.com/pkordes/product-registry/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs.

type mockRegistrationStore struct {
	save func(ctx context.Context, reg domain.Registration) (gateway.Result[domain.Registration], error)
	list func(ctx context.Context) (gateway.Result[[]domain.Registration], error)
}

func (m *mockRegistrationStore) SaveRegistration(ctx context.Context, reg domain.Registration) (gateway.Result[domain.Registration], error) {
	return m.save(ctx, reg)
}
func (m *mockRegistrationStore) ListRegistrations(ctx context.Context) (gateway.Result[[]domain.Registration], error) {
	return m.list(ctx)
}

var _ service.RegistrationStore = (*mockRegistrationStore)(nil)

type mockReferenceStore struct {
	list    func(ctx context.Context, kind domain.ReferenceKind) (gateway.Result[[]string], error)
	save    func(ctx context.Context, kind domain.ReferenceKind, items []string) (gateway.Result[[]string], error)
	add     func(ctx context.Context, kind domain.ReferenceKind, items ...string) (gateway.Result[[]string], error)
	deleteF func(ctx context.Context, kind domain.ReferenceKind, name string) (gateway.Result[[]string], error)
}

func (m *mockReferenceStore) ListReference(ctx context.Context, kind domain.ReferenceKind) (gateway.Result[[]string], error) {
	return m.list(ctx, kind)
}
func (m *mockReferenceStore) SaveReference(ctx context.Context, kind domain.ReferenceKind, items []string) (gateway.Result[[]string], error) {
	return m.save(ctx, kind, items)
}
func (m *mockReferenceStore) AddReference(ctx context.Context, kind domain.ReferenceKind, items ...string) (gateway.Result[[]string], error) {
	return m.add(ctx, kind, items...)
}
func (m *mockReferenceStore) DeleteReference(ctx context.Context, kind domain.ReferenceKind, name string) (gateway.Result[[]string], error) {
	return m.deleteF(ctx, kind, name)
}

var _ service.ReferenceStore = (*mockReferenceStore)(nil)

type mockPhotoStore struct {
	upload func(ctx context.Context, name, contentType string, body io.ReadSeeker) (gateway.Result[string], error)
}

func (m *mockPhotoStore) UploadPhoto(ctx context.Context, name, contentType string, body io.ReadSeeker) (gateway.Result[string], error) {
	return m.upload(ctx, name, contentType, body)
}

var _ service.PhotoStore = (*mockPhotoStore)(nil)

// mockCategoryStore hands out repo, or fails with err when it is set.
type mockCategoryStore struct {
	repo repo.ProductCategoryRepo
	err  error
}

func (m *mockCategoryStore) Categories(context.Context) (repo.ProductCategoryRepo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.repo, nil
}

var _ service.CategoryStore = (*mockCategoryStore)(nil)

type mockCategoryRepo struct {
	create  func(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.ProductCategory, error)
	list    func(ctx context.Context) ([]domain.ProductCategory, error)
	update  func(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCategoryRepo) Create(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error) {
	return m.create(ctx, c)
}
func (m *mockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ProductCategory, error) {
	return m.getByID(ctx, id)
}
func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.ProductCategory, error) {
	return m.list(ctx)
}
func (m *mockCategoryRepo) Update(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error) {
	return m.update(ctx, c)
}
func (m *mockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.ProductCategoryRepo = (*mockCategoryRepo)(nil)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return 1
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

var _ service.Publisher = (*recordingPublisher)(nil)

func remote[T any](v T) gateway.Result[T] {
	return gateway.Result[T]{Data: v, Source: gateway.SourceRemote}
}

func local[T any](v T) gateway.Result[T] {
	return gateway.Result[T]{Data: v, Source: gateway.SourceLocal}
}
