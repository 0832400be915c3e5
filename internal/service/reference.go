package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/gateway"
)

// ReferenceService implements business logic for the four reference lists.
type ReferenceService struct {
	store  ReferenceStore
	events Publisher
	now    func() time.Time
}

// NewReferenceService constructs a ReferenceService. A nil Publisher
// disables change notifications.
func NewReferenceService(store ReferenceStore, pub Publisher) *ReferenceService {
	return &ReferenceService{store: store, events: publisherOrNop(pub), now: time.Now}
}

// Snapshot loads all four lists concurrently.
func (s *ReferenceService) Snapshot(ctx context.Context) (domain.ReferenceSnapshot, error) {
	lists := make([][]string, len(domain.ReferenceKinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range domain.ReferenceKinds {
		g.Go(func() error {
			res, err := s.store.ListReference(gctx, kind)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			lists[i] = res.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ReferenceSnapshot{}, fmt.Errorf("service.ReferenceService.Snapshot: %w", err)
	}

	var snap domain.ReferenceSnapshot
	for i, kind := range domain.ReferenceKinds {
		items := lists[i]
		if items == nil {
			items = []string{}
		}
		snap.Set(kind, items)
	}
	return snap, nil
}

// List returns one list in insertion order.
func (s *ReferenceService) List(ctx context.Context, kind domain.ReferenceKind) (gateway.Result[[]string], error) {
	res, err := s.store.ListReference(ctx, kind)
	if err != nil {
		return gateway.Result[[]string]{}, fmt.Errorf("service.ReferenceService.List: %w", err)
	}
	return res, nil
}

// Add inserts one trimmed, non-empty item. Existing items yield domain.ErrDuplicate.
func (s *ReferenceService) Add(ctx context.Context, kind domain.ReferenceKind, name string) (gateway.Result[[]string], error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return gateway.Result[[]string]{}, fmt.Errorf("service.ReferenceService.Add: %w: name is required", domain.ErrValidation)
	}
	res, err := s.store.AddReference(ctx, kind, name)
	if err != nil {
		return gateway.Result[[]string]{}, fmt.Errorf("service.ReferenceService.Add: %w", err)
	}
	s.events.Publish(referenceEvent(kind, s.now()))
	return res, nil
}

// Replace overwrites the whole list. Items are trimmed; empty and repeated
// items are dropped.
func (s *ReferenceService) Replace(ctx context.Context, kind domain.ReferenceKind, items []string) (gateway.Result[[]string], error) {
	res, err := s.store.SaveReference(ctx, kind, dedupeTrimmed(items))
	if err != nil {
		return gateway.Result[[]string]{}, fmt.Errorf("service.ReferenceService.Replace: %w", err)
	}
	s.events.Publish(referenceEvent(kind, s.now()))
	return res, nil
}

// Delete removes one item and returns the remaining list. Deleting an absent
// item is not an error. Registrations that mention the item are left as they are.
func (s *ReferenceService) Delete(ctx context.Context, kind domain.ReferenceKind, name string) (gateway.Result[[]string], error) {
	res, err := s.store.DeleteReference(ctx, kind, name)
	if err != nil {
		return gateway.Result[[]string]{}, fmt.Errorf("service.ReferenceService.Delete: %w", err)
	}
	s.events.Publish(referenceEvent(kind, s.now()))
	return res, nil
}
