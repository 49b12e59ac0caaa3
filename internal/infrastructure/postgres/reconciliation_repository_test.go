package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/postgres"
	"github.com/roca12/Proyecto-de-grado/pkg/config"
)

// Requiere TEST_DATABASE_URL; sin ella se omite.
func newRepo(t *testing.T) *postgres.ReconciliationRepo {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definida")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := postgres.NewReconciliationRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))
	return repo
}

func TestReconciliationRepo_CicloCompleto(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	item := &entity.ReconciliationItem{
		ID:           uuid.NewString(),
		SagaID:       uuid.NewString(),
		Workflow:     "venta",
		ResourceType: entity.ResourceProduccion,
		ResourceID:   11,
		Previous:     decimal.RequireFromString("10.5"),
		Target:       decimal.RequireFromString("7.25"),
		RefDate:      "2026-10-19",
		LastError:    "timeout",
		Status:       entity.ReconciliationPending,
		Attempts:     1,
	}
	require.NoError(t, repo.Save(ctx, item))

	got, err := repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Previous.Equal(item.Previous))
	assert.True(t, got.Target.Equal(item.Target))
	assert.Equal(t, "2026-10-19", got.RefDate)

	item.Attempts = 2
	item.LastError = "stale"
	require.NoError(t, repo.Save(ctx, item))
	got, err = repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attempts)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(pending))
	for _, p := range pending {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, item.ID)

	require.NoError(t, repo.MarkResolved(ctx, item.ID, entity.ReconciliationDismissed))
	got, err = repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReconciliationDismissed, got.Status)

	assert.ErrorIs(t, repo.MarkResolved(ctx, uuid.NewString(), entity.ReconciliationResolved), domain.ErrNotFound)
	_, err = repo.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconciliationRepo_EstadoInvalido(t *testing.T) {
	repo := newRepo(t)
	err := repo.MarkResolved(context.Background(), "x", entity.ReconciliationPending)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
