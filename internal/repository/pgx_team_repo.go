package repository

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/football-roster/internal/db"
)

const teamSchema = `CREATE TABLE IF NOT EXISTS team (
	id          text PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name        text NOT NULL,
	founded     text NOT NULL,
	logo        text NOT NULL DEFAULT '',
	description text NOT NULL DEFAULT '',
	created_at  timestamptz NOT NULL DEFAULT now()
)`

var teamColumns = []any{"id", "name", "founded", "logo", "description"}

type pgxTeamRepository struct {
	pool *pgxpool.Pool

	mu          sync.Mutex
	schemaReady bool
}

// NewPgxTeamRepository stores teams in the "team" table. The table is created
// on first use, so a database that is down at startup only fails the calls
// made while it is unreachable.
func NewPgxTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &pgxTeamRepository{pool: pool}
}

func (p *pgxTeamRepository) ensureSchema(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.schemaReady {
		return nil
	}

	if _, err := p.pool.Exec(ctx, teamSchema); err != nil {
		return errors.Wrap(err, "failed to create team table")
	}

	p.schemaReady = true
	return nil
}

func (p *pgxTeamRepository) FindAll(ctx context.Context) ([]*Team, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, err
	}

	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("team"),
		sm.OrderBy("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Team, error) {
		return scanTeam(row)
	})
}

func (p *pgxTeamRepository) Get(ctx context.Context, id string) (*Team, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, err
	}

	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(teamColumns...),
		sm.From("team"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate("team"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	team, err := scanTeam(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return team, err
}

// Save inserts or updates and returns the row as stored.
func (p *pgxTeamRepository) Save(ctx context.Context, team *Team) (*Team, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, err
	}

	if team.ID == "" {
		return p.insert(ctx, team)
	}
	return p.update(ctx, team)
}

func (p *pgxTeamRepository) insert(ctx context.Context, team *Team) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("team", "name", "founded", "logo", "description"),
		im.Values(psql.Arg(team.Name), psql.Arg(team.Founded), psql.Arg(team.Logo), psql.Arg(team.Description)),
		im.Returning(teamColumns...),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	return scanTeam(e.QueryRow(ctx, sql, args...))
}

func (p *pgxTeamRepository) update(ctx context.Context, team *Team) (*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("team"),
		um.SetCol("name").ToArg(team.Name),
		um.SetCol("founded").ToArg(team.Founded),
		um.SetCol("logo").ToArg(team.Logo),
		um.SetCol("description").ToArg(team.Description),
		um.Where(psql.Quote("id").EQ(psql.Arg(team.ID))),
		um.Returning(teamColumns...),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	saved, err := scanTeam(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return saved, err
}

func (p *pgxTeamRepository) Destroy(ctx context.Context, id string) error {
	if err := p.ensureSchema(ctx); err != nil {
		return err
	}

	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("team"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	commandTag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *pgxTeamRepository) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func scanTeam(row pgx.Row) (*Team, error) {
	team := &Team{}
	if err := row.Scan(&team.ID, &team.Name, &team.Founded, &team.Logo, &team.Description); err != nil {
		return nil, err
	}
	return team, nil
}
