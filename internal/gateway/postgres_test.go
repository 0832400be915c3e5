package gateway_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/gateway"
)

func TestPostgresConnector_EmptyURLIsNotConfigured(t *testing.T) {
	connect := gateway.PostgresConnector(gateway.PostgresConfig{}, discardLogger())

	_, err := connect(context.Background())

	assert.Equal(t, domain.KindNotConfigured, domain.KindOf(err))
}

func TestPostgresConnector_MalformedURLIsNotConfigured(t *testing.T) {
	connect := gateway.PostgresConnector(gateway.PostgresConfig{DatabaseURL: "postgres://%zz"}, discardLogger())

	_, err := connect(context.Background())

	assert.Equal(t, domain.KindNotConfigured, domain.KindOf(err))
}

// TestPostgresConnector_Integration connects and migrates a real database.
// Skipped unless TEST_DATABASE_URL is set.
func TestPostgresConnector_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	c := gateway.NewClient(gateway.PostgresConnector(
		gateway.PostgresConfig{DatabaseURL: dsn, Migrate: true}, discardLogger()))
	t.Cleanup(c.Close)

	r, err := c.Remote(context.Background())

	require.NoError(t, err)
	assert.Equal(t, gateway.StateReady, c.Status().State)
	_, err = r.References.List(context.Background(), domain.KindUsers)
	assert.NoError(t, err)
}
