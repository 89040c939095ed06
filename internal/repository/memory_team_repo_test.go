package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTeamRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTeamRepository(Team{ID: "santos", Name: "Santos", Founded: "1912"})

	created, err := repo.Save(ctx, &Team{Name: "Flamengo", Founded: "1895"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	teams, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "santos", teams[0].ID)
	assert.Equal(t, created.ID, teams[1].ID)

	updated, err := repo.Save(ctx, &Team{ID: created.ID, Name: "C.R. Flamengo", Founded: "1895"})
	require.NoError(t, err)
	assert.Equal(t, "C.R. Flamengo", updated.Name)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, repo.Destroy(ctx, "santos"))

	teams, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, created.ID, teams[0].ID)
}

func TestMemoryTeamRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTeamRepository()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Save(ctx, &Team{ID: "missing", Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Destroy(ctx, "missing"), ErrNotFound)
}

func TestMemoryTeamRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTeamRepository(Team{ID: "a", Name: "Grêmio", Founded: "1903"})

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	got.Name = "changed"

	again, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Grêmio", again.Name)
}
