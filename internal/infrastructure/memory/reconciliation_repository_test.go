package memory_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/memory"
	"github.com/roca12/Proyecto-de-grado/internal/infrastructure/storage"
)

func TestReconciliationRepo_CicloDeVida(t *testing.T) {
	repo := memory.NewReconciliationRepo()
	ctx := context.Background()

	first := &entity.ReconciliationItem{ID: "a", ResourceType: entity.ResourceProduccion, ResourceID: 3, Target: decimal.Zero, CreatedAt: time.Now().Add(-time.Minute)}
	second := &entity.ReconciliationItem{ID: "b", ResourceType: entity.ResourceInsumo, ResourceID: 4, CreatedAt: time.Now()}
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, first))

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].ID, "más antiguo primero")
	assert.Equal(t, entity.ReconciliationPending, pending[0].Status)

	require.NoError(t, repo.MarkResolved(ctx, "a", entity.ReconciliationResolved))
	pending, err = repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].ID)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, entity.ReconciliationResolved, got.Status)
}

func TestReconciliationRepo_Errores(t *testing.T) {
	repo := memory.NewReconciliationRepo()
	ctx := context.Background()

	_, err := repo.Get(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.MarkResolved(ctx, "x", entity.ReconciliationResolved), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Save(ctx, &entity.ReconciliationItem{}), domain.ErrInvalidInput)

	require.NoError(t, repo.Save(ctx, &entity.ReconciliationItem{ID: "a"}))
	assert.ErrorIs(t, repo.MarkResolved(ctx, "a", "OTRO"), domain.ErrInvalidInput)
}

func TestReconciliationRepo_SaveActualizaConservandoCreacion(t *testing.T) {
	repo := memory.NewReconciliationRepo()
	ctx := context.Background()
	created := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, &entity.ReconciliationItem{ID: "a", CreatedAt: created}))
	require.NoError(t, repo.Save(ctx, &entity.ReconciliationItem{ID: "a", Attempts: 2, LastError: "timeout"}))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attempts)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestPersistentReconciliationRepo_SobreviveAlProceso(t *testing.T) {
	ctx := context.Background()
	st := storage.NewFileStorage(filepath.Join(t.TempDir(), "reconciliaciones.json"))

	repo, err := memory.NewPersistentReconciliationRepo(ctx, st)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, &entity.ReconciliationItem{
		ID: "a", SagaID: "s-1", Workflow: "venta", ResourceType: entity.ResourceProduccion, ResourceID: 3,
		Previous: decimal.RequireFromString("10.5"), Target: decimal.RequireFromString("7.5"), RefDate: "2026-10-01", IDFinca: 7,
	}))
	require.NoError(t, repo.Save(ctx, &entity.ReconciliationItem{ID: "b", ResourceType: entity.ResourceInsumo, ResourceID: 4}))
	require.NoError(t, repo.MarkResolved(ctx, "b", entity.ReconciliationDismissed))

	reopened, err := memory.NewPersistentReconciliationRepo(ctx, st)
	require.NoError(t, err)
	pending, err := reopened.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	got := pending[0]
	assert.Equal(t, "s-1", got.SagaID)
	assert.Equal(t, entity.ResourceProduccion, got.ResourceType)
	assert.True(t, got.Previous.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, got.Target.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, "2026-10-01", got.RefDate)
	assert.False(t, got.CreatedAt.IsZero())

	dismissed, err := reopened.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, entity.ReconciliationDismissed, dismissed.Status)
}

func TestPersistentReconciliationRepo_FalloAlEscribirNoCambiaNada(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage(nil)
	repo, err := memory.NewPersistentReconciliationRepo(ctx, st)
	require.NoError(t, err)

	st.FailWrites = errors.New("disco lleno")
	err = repo.Save(ctx, &entity.ReconciliationItem{ID: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disco lleno")

	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, st.Writes())
}

func TestPersistentReconciliationRepo_ArchivoIlegible(t *testing.T) {
	st := storage.NewMemoryStorage(map[string]string{"a": "{no es json"})
	_, err := memory.NewPersistentReconciliationRepo(context.Background(), st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ítem a")
}
