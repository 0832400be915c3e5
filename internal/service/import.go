package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/gateway"
	"github.com/pkordes/product-registry/internal/importer"
)

// ExampleCount is how many sample items an ImportReport carries per partition.
const ExampleCount = 5

// ImportReport summarises a bulk import for user feedback.
type ImportReport struct {
	Added             int            `json:"added"`
	Duplicates        int            `json:"duplicates"`
	AddedExamples     []string       `json:"added_examples"`
	DuplicateExamples []string       `json:"duplicate_examples"`
	Source            gateway.Source `json:"source,omitempty"`
}

// ImportService bulk-loads reference lists from uploaded files.
type ImportService struct {
	store  ReferenceStore
	events Publisher
	now    func() time.Time
}

// NewImportService constructs an ImportService. A nil Publisher disables
// change notifications.
func NewImportService(store ReferenceStore, pub Publisher) *ImportService {
	return &ImportService{store: store, events: publisherOrNop(pub), now: time.Now}
}

// Import adds every new item of content to the kind list. The format is
// checked before anything is read or written, so an unsupported file
// changes nothing.
func (s *ImportService) Import(ctx context.Context, kind domain.ReferenceKind, filename string, content []byte) (ImportReport, error) {
	if _, err := importer.DetectFormat(filename); err != nil {
		return ImportReport{}, fmt.Errorf("service.ImportService.Import: %w", err)
	}

	current, err := s.store.ListReference(ctx, kind)
	if err != nil {
		return ImportReport{}, fmt.Errorf("service.ImportService.Import: list: %w", err)
	}
	result := importer.Normalize(string(content), current.Data)

	added := []string{}
	source := current.Source
	if len(result.New) > 0 {
		res, err := s.store.AddReference(ctx, kind, result.New...)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			// A lone item was added concurrently; nothing left to insert.
		case err != nil:
			return ImportReport{}, fmt.Errorf("service.ImportService.Import: add: %w", err)
		default:
			added, source = res.Data, res.Source
			s.events.Publish(referenceEvent(kind, s.now()))
		}
	}

	// Report what the store actually inserted, which may be less than
	// result.New when another writer got there first.
	addedExamples, _ := importer.Result{New: added}.Examples(ExampleCount)
	_, dupExamples := result.Examples(ExampleCount)
	return ImportReport{
		Added:             len(added),
		Duplicates:        len(result.Duplicates),
		AddedExamples:     addedExamples,
		DuplicateExamples: dupExamples,
		Source:            source,
	}, nil
}

// Template is a downloadable example import file.
type Template struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Template returns example content for kind in the named format ("csv" or "txt").
func (s *ImportService) Template(kind domain.ReferenceKind, format string) (Template, error) {
	f, err := importer.ParseFormat(format)
	if err != nil {
		return Template{}, fmt.Errorf("service.ImportService.Template: %w", err)
	}
	return Template{
		Filename:    importer.TemplateName(kind, f),
		ContentType: f.ContentType(),
		Content:     importer.Template(kind, f),
	}, nil
}
