package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/gateway"
	"github.com/pkordes/product-registry/internal/handler"
	"github.com/pkordes/product-registry/internal/service"
	"github.com/pkordes/product-registry/internal/stats"
)

// Test doubles for the handler's consumer interfaces. Set only the method
// fields a test needs.

type mockRegistrationServicer struct {
	create func(ctx context.Context, reg domain.Registration) (gateway.Result[domain.Registration], error)
	list   func(ctx context.Context, p domain.PaginationParams) (service.RegistrationPage, error)
}

func (m *mockRegistrationServicer) Create(ctx context.Context, reg domain.Registration) (gateway.Result[domain.Registration], error) {
	return m.create(ctx, reg)
}
func (m *mockRegistrationServicer) List(ctx context.Context, p domain.PaginationParams) (service.RegistrationPage, error) {
	return m.list(ctx, p)
}

var _ handler.RegistrationServicer = (*mockRegistrationServicer)(nil)

type mockReferenceServicer struct {
	snapshot func(ctx context.Context) (domain.ReferenceSnapshot, error)
	list     func(ctx context.Context, kind domain.ReferenceKind) (gateway.Result[[]string], error)
	add      func(ctx context.Context, kind domain.ReferenceKind, name string) (gateway.Result[[]string], error)
	replace  func(ctx context.Context, kind domain.ReferenceKind, items []string) (gateway.Result[[]string], error)
	delete   func(ctx context.Context, kind domain.ReferenceKind, name string) (gateway.Result[[]string], error)
}

func (m *mockReferenceServicer) Snapshot(ctx context.Context) (domain.ReferenceSnapshot, error) {
	return m.snapshot(ctx)
}
func (m *mockReferenceServicer) List(ctx context.Context, kind domain.ReferenceKind) (gateway.Result[[]string], error) {
	return m.list(ctx, kind)
}
func (m *mockReferenceServicer) Add(ctx context.Context, kind domain.ReferenceKind, name string) (gateway.Result[[]string], error) {
	return m.add(ctx, kind, name)
}
func (m *mockReferenceServicer) Replace(ctx context.Context, kind domain.ReferenceKind, items []string) (gateway.Result[[]string], error) {
	return m.replace(ctx, kind, items)
}
func (m *mockReferenceServicer) Delete(ctx context.Context, kind domain.ReferenceKind, name string) (gateway.Result[[]string], error) {
	return m.delete(ctx, kind, name)
}

var _ handler.ReferenceServicer = (*mockReferenceServicer)(nil)

type mockImportServicer struct {
	importF  func(ctx context.Context, kind domain.ReferenceKind, filename string, content []byte) (service.ImportReport, error)
	template func(kind domain.ReferenceKind, format string) (service.Template, error)
}

func (m *mockImportServicer) Import(ctx context.Context, kind domain.ReferenceKind, filename string, content []byte) (service.ImportReport, error) {
	return m.importF(ctx, kind, filename, content)
}
func (m *mockImportServicer) Template(kind domain.ReferenceKind, format string) (service.Template, error) {
	return m.template(kind, format)
}

var _ handler.ImportServicer = (*mockImportServicer)(nil)

type mockPhotoServicer struct {
	upload func(ctx context.Context, filename, contentType string, body io.ReadSeeker) (gateway.Result[string], error)
}

func (m *mockPhotoServicer) Upload(ctx context.Context, filename, contentType string, body io.ReadSeeker) (gateway.Result[string], error) {
	return m.upload(ctx, filename, contentType, body)
}

var _ handler.PhotoServicer = (*mockPhotoServicer)(nil)

type mockStatsServicer struct {
	summary func(ctx context.Context) (stats.Summary, error)
	report  func(ctx context.Context) ([]byte, error)
}

func (m *mockStatsServicer) Summary(ctx context.Context) (stats.Summary, error) { return m.summary(ctx) }
func (m *mockStatsServicer) ReportPDF(ctx context.Context) ([]byte, error)     { return m.report(ctx) }

var _ handler.StatsServicer = (*mockStatsServicer)(nil)

type mockExportServicer struct {
	export func(ctx context.Context) ([]service.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]service.ExportRow, error) {
	return m.export(ctx)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

type mockCategoryServicer struct {
	create  func(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.ProductCategory, error)
	list    func(ctx context.Context) ([]domain.ProductCategory, error)
	update  func(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCategoryServicer) Create(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error) {
	return m.create(ctx, c)
}
func (m *mockCategoryServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.ProductCategory, error) {
	return m.getByID(ctx, id)
}
func (m *mockCategoryServicer) List(ctx context.Context) ([]domain.ProductCategory, error) {
	return m.list(ctx)
}
func (m *mockCategoryServicer) Update(ctx context.Context, c domain.ProductCategory) (domain.ProductCategory, error) {
	return m.update(ctx, c)
}
func (m *mockCategoryServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.CategoryServicer = (*mockCategoryServicer)(nil)

type mockBackend struct {
	status    func() gateway.Status
	reconnect func(ctx context.Context) gateway.Status
}

func (m *mockBackend) Status() gateway.Status                       { return m.status() }
func (m *mockBackend) Reconnect(ctx context.Context) gateway.Status { return m.reconnect(ctx) }

var _ handler.Backend = (*mockBackend)(nil)

// newHTTPHandler wires a Server built from d into its chi router, the same
// way main.go does in production.
func newHTTPHandler(d handler.Deps) http.Handler {
	return handler.NewServer(d).Routes()
}

// errorCode decodes the code of an error response body.
func errorCode(body io.Reader) string {
	var resp handler.ErrorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return ""
	}
	return resp.Error.Code
}
