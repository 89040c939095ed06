package backend

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/football-roster/internal/config"
	"github.com/yakoovad/football-roster/internal/repository"
	"go.uber.org/zap"
)

func TestConnector_Init(t *testing.T) {
	opened := 0
	closed := 0
	conn := NewConnector(func(ctx context.Context) (*Client, error) {
		opened++
		client, err := MemoryOpener(repository.Team{ID: "a1", Name: "Flamengo", Founded: "1895"})(ctx)
		client.Close = func() { closed++ }
		return client, err
	})

	assert.False(t, conn.Initialized())

	_, err := conn.Teams().FindAll(context.Background())
	assert.ErrorIs(t, err, repository.ErrNotInitialized)

	conn.Init(context.Background())
	conn.Init(context.Background())
	conn.Init(context.Background())

	assert.True(t, conn.Initialized())
	assert.Equal(t, 1, opened)

	teams, err := conn.Teams().FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Flamengo", teams[0].Name)

	conn.Close()
	assert.Equal(t, 1, closed)
}

func TestConnector_InitFailure(t *testing.T) {
	boom := errors.New("bad credentials")
	opened := 0
	conn := NewConnector(func(context.Context) (*Client, error) {
		opened++
		return nil, boom
	})

	conn.Init(context.Background())
	conn.Init(context.Background())

	assert.True(t, conn.Initialized())
	assert.Equal(t, 1, opened)

	_, err := conn.Teams().FindAll(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, conn.Teams().Destroy(context.Background(), "a1"), boom)
	assert.ErrorIs(t, conn.Teams().Ping(context.Background()), boom)
	assert.NotNil(t, conn.Transactor())

	conn.Close()
}

func TestNewOpener(t *testing.T) {
	tests := []struct {
		name          string
		cfg           *config.Config
		expectedError bool
	}{
		{name: "parse", cfg: &config.Config{Backend: config.BackendParse, Parse: config.ParseConfig{ServerURL: "http://localhost:1337/parse"}}},
		{name: "postgres", cfg: &config.Config{Backend: config.BackendPostgres, DatabaseURL: "postgres://localhost:5432/teams"}},
		{name: "memory", cfg: &config.Config{Backend: config.BackendMemory}},
		{name: "unknown", cfg: &config.Config{Backend: "mongo"}, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, err := NewOpener(tt.cfg, zap.NewNop())
			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, open)
				return
			}

			require.NoError(t, err)
			client, err := open(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, client.Teams)
			assert.NotNil(t, client.Tx)
			if client.Close != nil {
				client.Close()
			}
		})
	}
}

func TestPostgresOpener_InvalidURL(t *testing.T) {
	client, err := PostgresOpener("postgres://%zz")(context.Background())
	assert.Error(t, err)
	assert.Nil(t, client)
}
