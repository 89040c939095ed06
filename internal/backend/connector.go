package backend

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/yakoovad/football-roster/internal/config"
	"github.com/yakoovad/football-roster/internal/db"
	"github.com/yakoovad/football-roster/internal/repository"
	"github.com/yakoovad/football-roster/pkg/logger"
	"go.uber.org/zap"
)

// Client is a configured store handle.
type Client struct {
	Teams repository.TeamRepository
	Tx    db.Transactor
	Close func()
}

// Opener builds a Client. It is called at most once per Connector.
type Opener func(ctx context.Context) (*Client, error)

// Connector owns the single store client of the process. Init may be called
// on every roster mount; only the first call builds the client.
type Connector struct {
	open Opener

	mu     sync.Mutex
	client *Client
}

func NewConnector(open Opener) *Connector {
	return &Connector{open: open}
}

// Init builds the client if it does not exist yet. An opener failure is not
// reported here: the installed client fails every call with that error.
func (c *Connector) Init(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return
	}

	client, err := c.open(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to configure store client", zap.Error(err))
		c.client = &Client{Teams: failingRepository{err: err}, Tx: db.NewNopTransactor()}
		return
	}

	c.client = client
	logger.FromContext(ctx).Info("store client initialized")
}

func (c *Connector) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

// Teams returns the store, or one failing with repository.ErrNotInitialized before Init.
func (c *Connector) Teams() repository.TeamRepository {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return failingRepository{err: repository.ErrNotInitialized}
	}
	return c.client.Teams
}

func (c *Connector) Transactor() db.Transactor {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil || c.client.Tx == nil {
		return db.NewNopTransactor()
	}
	return c.client.Tx
}

func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && c.client.Close != nil {
		c.client.Close()
	}
}

// NewOpener selects the store named by cfg.Backend.
func NewOpener(cfg *config.Config, l *zap.Logger) (Opener, error) {
	switch cfg.Backend {
	case config.BackendParse:
		return ParseOpener(repository.ParseConfig{
			ServerURL: cfg.Parse.ServerURL,
			AppID:     cfg.Parse.AppID,
			ClientKey: cfg.Parse.JSKey,
			RetryMax:  cfg.Parse.RetryMax,
			Timeout:   cfg.Parse.Timeout,
			Logger:    l.Named("parse"),
		}), nil
	case config.BackendPostgres:
		return PostgresOpener(cfg.DatabaseURL), nil
	case config.BackendMemory:
		return MemoryOpener(), nil
	default:
		return nil, errors.Errorf("unknown backend %q", cfg.Backend)
	}
}

func ParseOpener(cfg repository.ParseConfig) Opener {
	return func(context.Context) (*Client, error) {
		return &Client{
			Teams: repository.NewParseTeamRepository(cfg),
			Tx:    db.NewNopTransactor(),
		}, nil
	}
}

// PostgresOpener does not connect eagerly; pgxpool dials on first use.
func PostgresOpener(databaseURL string) Opener {
	return func(ctx context.Context) (*Client, error) {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to configure database pool")
		}

		return &Client{
			Teams: repository.NewPgxTeamRepository(pool),
			Tx:    db.NewPgxTransactor(pool),
			Close: pool.Close,
		}, nil
	}
}

func MemoryOpener(seed ...repository.Team) Opener {
	return func(context.Context) (*Client, error) {
		return &Client{
			Teams: repository.NewMemoryTeamRepository(seed...),
			Tx:    db.NewNopTransactor(),
		}, nil
	}
}

type failingRepository struct {
	err error
}

func (f failingRepository) FindAll(context.Context) ([]*repository.Team, error) {
	return nil, f.err
}

func (f failingRepository) Get(context.Context, string) (*repository.Team, error) {
	return nil, f.err
}

func (f failingRepository) Save(context.Context, *repository.Team) (*repository.Team, error) {
	return nil, f.err
}

func (f failingRepository) Destroy(context.Context, string) error {
	return f.err
}

func (f failingRepository) Ping(context.Context) error {
	return f.err
}
