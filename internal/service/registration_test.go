package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/events"
	"github.com/pkordes/product-registry/internal/gateway"
	"github.com/pkordes/product-registry/internal/service"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)

func utcFormat() domain.DisplayFormat {
	return domain.DisplayFormat{DateLayout: "02.01.2006", TimeLayout: "15:04", Location: time.UTC}
}

func validRegistration() domain.Registration {
	return domain.Registration{
		User:     "Alice",
		Product:  "Drill",
		Location: "Workshop",
		Purpose:  "Repair",
	}
}

// echoRegistrations saves by echoing the input back as a remote result.
func echoRegistrations() *mockRegistrationStore {
	return &mockRegistrationStore{
		save: func(_ context.Context, r domain.Registration) (gateway.Result[domain.Registration], error) {
			return remote(r), nil
		},
	}
}

func TestRegistrationService_Create_StampsFields(t *testing.T) {
	pub := &recordingPublisher{}
	svc := service.NewRegistrationService(echoRegistrations(), pub, utcFormat()).
		WithClock(func() time.Time { return fixedNow })

	in := validRegistration()
	in.ID = "client-chosen"
	in.User = "  Alice  "

	got, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, gateway.SourceRemote, got.Source)
	assert.Equal(t, "Alice", got.Data.User)
	assert.NotEqual(t, "client-chosen", got.Data.ID)
	_, parseErr := uuid.Parse(got.Data.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, fixedNow, got.Data.CreatedAt)
	assert.Equal(t, "14.03.2025", got.Data.DisplayDate)
	assert.Equal(t, "09:26", got.Data.DisplayTime)

	evs := pub.published()
	require.Len(t, evs, 1)
	assert.Equal(t, events.TopicRegistrations, evs[0].Topic)
}

func TestRegistrationService_Create_MissingFields(t *testing.T) {
	pub := &recordingPublisher{}
	store := &mockRegistrationStore{} // save must not be called
	svc := service.NewRegistrationService(store, pub, utcFormat())

	in := validRegistration()
	in.Product = "   "
	in.Purpose = ""

	_, err := svc.Create(context.Background(), in)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "product, purpose")
	assert.Empty(t, pub.published())
}

func TestRegistrationService_Create_StoreError(t *testing.T) {
	storeErr := errors.New("disk full")
	pub := &recordingPublisher{}
	store := &mockRegistrationStore{
		save: func(context.Context, domain.Registration) (gateway.Result[domain.Registration], error) {
			return gateway.Result[domain.Registration]{}, storeErr
		},
	}
	svc := service.NewRegistrationService(store, pub, utcFormat())

	_, err := svc.Create(context.Background(), validRegistration())

	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, pub.published())
}

func TestRegistrationService_Create_NilPublisher(t *testing.T) {
	svc := service.NewRegistrationService(echoRegistrations(), nil, utcFormat())

	_, err := svc.Create(context.Background(), validRegistration())

	assert.NoError(t, err)
}

func TestRegistrationService_List_Windows(t *testing.T) {
	all := make([]domain.Registration, 5)
	for i := range all {
		all[i] = domain.Registration{ID: string(rune('a' + i))}
	}
	store := &mockRegistrationStore{
		list: func(context.Context) (gateway.Result[[]domain.Registration], error) {
			return local(all), nil
		},
	}
	svc := service.NewRegistrationService(store, nil, utcFormat())

	page, err := svc.List(context.Background(), domain.PaginationParams{Page: 2, Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, gateway.SourceLocal, page.Source)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "c", page.Items[0].ID)
	assert.Equal(t, "d", page.Items[1].ID)
}

func TestRegistrationService_All_NeverNil(t *testing.T) {
	store := &mockRegistrationStore{
		list: func(context.Context) (gateway.Result[[]domain.Registration], error) {
			return local[[]domain.Registration](nil), nil
		},
	}
	svc := service.NewRegistrationService(store, nil, utcFormat())

	got, err := svc.All(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
