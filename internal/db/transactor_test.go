package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNopTransactor(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "outer")

	var seen any
	err := NewNopTransactor().WithinTransaction(ctx, func(ctx context.Context) error {
		seen = ctx.Value(key{})
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "outer", seen)

	boom := errors.New("boom")
	err = NewNopTransactor().WithinTransaction(ctx, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestGetPgxExecutorFromContext_WithoutTx(t *testing.T) {
	var pool *pgxpool.Pool

	e := GetPgxExecutorFromContext(context.Background(), pool)

	assert.IsType(t, pool, e)
}
