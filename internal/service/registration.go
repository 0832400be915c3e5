package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/events"
	"github.com/pkordes/product-registry/internal/gateway"
)

// RegistrationService implements business logic for registrations.
type RegistrationService struct {
	store  RegistrationStore
	events Publisher
	format domain.DisplayFormat
	now    func() time.Time
}

// NewRegistrationService constructs a RegistrationService. A nil Publisher
// disables change notifications.
func NewRegistrationService(store RegistrationStore, pub Publisher, format domain.DisplayFormat) *RegistrationService {
	return &RegistrationService{store: store, events: publisherOrNop(pub), format: format, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	s.now = now
	return s
}

// RegistrationPage is one page of the registration history.
type RegistrationPage struct {
	Items  []domain.Registration
	Total  int
	Source gateway.Source
}

// Create validates reg, stamps it with a fresh ID, the creation instant and
// the display date and time, and persists it.
// Client-supplied ID and timestamps are ignored.
func (s *RegistrationService) Create(ctx context.Context, reg domain.Registration) (gateway.Result[domain.Registration], error) {
	reg.User = strings.TrimSpace(reg.User)
	reg.Product = strings.TrimSpace(reg.Product)
	reg.Location = strings.TrimSpace(reg.Location)
	reg.Purpose = strings.TrimSpace(reg.Purpose)
	reg.PhotoURL = strings.TrimSpace(reg.PhotoURL)
	reg.QRCode = strings.TrimSpace(reg.QRCode)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"user", reg.User},
		{"product", reg.Product},
		{"location", reg.Location},
		{"purpose", reg.Purpose},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return gateway.Result[domain.Registration]{}, fmt.Errorf("service.RegistrationService.Create: %w: %s required",
			domain.ErrValidation, strings.Join(missing, ", "))
	}

	now := s.now()
	reg.ID = uuid.NewString()
	reg.CreatedAt = now.UTC()
	reg.DisplayDate = s.format.Date(now)
	reg.DisplayTime = s.format.Time(now)

	res, err := s.store.SaveRegistration(ctx, reg)
	if err != nil {
		return gateway.Result[domain.Registration]{}, fmt.Errorf("service.RegistrationService.Create: %w", err)
	}
	s.events.Publish(events.Event{Topic: events.TopicRegistrations, At: now})
	return res, nil
}

// List returns one page of registrations, newest first.
func (s *RegistrationService) List(ctx context.Context, p domain.PaginationParams) (RegistrationPage, error) {
	res, err := s.store.ListRegistrations(ctx)
	if err != nil {
		return RegistrationPage{}, fmt.Errorf("service.RegistrationService.List: %w", err)
	}
	return RegistrationPage{
		Items:  domain.Window(res.Data, p),
		Total:  len(res.Data),
		Source: res.Source,
	}, nil
}

// All returns every registration, newest first.
func (s *RegistrationService) All(ctx context.Context) ([]domain.Registration, error) {
	res, err := s.store.ListRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RegistrationService.All: %w", err)
	}
	if res.Data == nil {
		return []domain.Registration{}, nil
	}
	return res.Data, nil
}
