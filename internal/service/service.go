// Package service contains the business logic of the product registry.
// Services validate inputs, enforce business rules, and orchestrate gateway
// calls and change notifications.
// No SQL lives here: services depend on small interfaces over the gateway.
package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/events"
	"github.com/pkordes/product-registry/internal/gateway"
	"github.com/pkordes/product-registry/internal/repo"
)

// RegistrationStore is the part of the gateway that handles registrations.
type RegistrationStore interface {
	SaveRegistration(ctx context.Context, reg domain.Registration) (gateway.Result[domain.Registration], error)
	ListRegistrations(ctx context.Context) (gateway.Result[[]domain.Registration], error)
}

// ReferenceStore is the part of the gateway that handles reference lists.
type ReferenceStore interface {
	ListReference(ctx context.Context, kind domain.ReferenceKind) (gateway.Result[[]string], error)
	SaveReference(ctx context.Context, kind domain.ReferenceKind, items []string) (gateway.Result[[]string], error)
	AddReference(ctx context.Context, kind domain.ReferenceKind, items ...string) (gateway.Result[[]string], error)
	DeleteReference(ctx context.Context, kind domain.ReferenceKind, name string) (gateway.Result[[]string], error)
}

// PhotoStore is the part of the gateway that handles photos.
type PhotoStore interface {
	UploadPhoto(ctx context.Context, name, contentType string, body io.ReadSeeker) (gateway.Result[string], error)
}

// CategoryStore hands out the remote category repository when it is usable.
type CategoryStore interface {
	Categories(ctx context.Context) (repo.ProductCategoryRepo, error)
}

// Publisher receives change notifications after successful writes.
type Publisher interface {
	Publish(e events.Event) int
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) int { return 0 }

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// dedupeTrimmed trims every item, drops empty ones and keeps the first
// occurrence of each.
func dedupeTrimmed(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

func referenceEvent(kind domain.ReferenceKind, at time.Time) events.Event {
	return events.Event{Topic: events.TopicReference, Kind: string(kind), At: at}
}
