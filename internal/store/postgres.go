package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables Postgres needs. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (project_id, version)
);
`

// NewPool connects to databaseURL and verifies the connection.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Postgres is a Store backed by PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate applies Schema.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (p *Postgres) CreateProject(ctx context.Context, proj Project) (*Project, error) {
	row := p.pool.QueryRow(ctx,
		`INSERT INTO projects (id, name) VALUES ($1, $2)
		 RETURNING id, name, created_at, updated_at`,
		proj.ID, proj.Name)
	out, err := scanProject(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("project %s: %w", proj.ID, ErrConflict)
		}
		return nil, fmt.Errorf("create project: %w", err)
	}
	return out, nil
}

func (p *Postgres) GetProject(ctx context.Context, id string) (*Project, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM projects WHERE id = $1`, id)
	out, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return out, nil
}

func (p *Postgres) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM projects ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	projects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Project, error) {
		out, err := scanProject(row)
		if err != nil {
			return Project{}, err
		}
		return *out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (p *Postgres) DeleteProject(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CreateSnapshot(ctx context.Context, s Snapshot) (*Snapshot, error) {
	var out *Snapshot
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE projects SET updated_at = now() WHERE id = $1`, s.ProjectID)
		if err != nil {
			return fmt.Errorf("touch project: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		row := tx.QueryRow(ctx,
			`INSERT INTO snapshots (id, project_id, version, document) VALUES ($1, $2, $3, $4)
			 RETURNING id, project_id, version, document, created_at`,
			s.ID, s.ProjectID, s.Version, s.Document)
		out, err = scanSnapshot(row, true)
		return err
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("snapshot %s v%d: %w", s.ProjectID, s.Version, ErrConflict)
		}
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	return out, nil
}

func (p *Postgres) GetLatestSnapshot(ctx context.Context, projectID string) (*Snapshot, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, project_id, version, document, created_at FROM snapshots
		 WHERE project_id = $1 ORDER BY version DESC LIMIT 1`, projectID)
	return p.getSnapshot(row)
}

func (p *Postgres) GetSnapshot(ctx context.Context, projectID string, version int) (*Snapshot, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, project_id, version, document, created_at FROM snapshots
		 WHERE project_id = $1 AND version = $2`, projectID, version)
	return p.getSnapshot(row)
}

func (p *Postgres) getSnapshot(row pgx.Row) (*Snapshot, error) {
	out, err := scanSnapshot(row, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return out, nil
}

func (p *Postgres) ListSnapshots(ctx context.Context, projectID string) ([]Snapshot, error) {
	if _, err := p.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	rows, err := p.pool.Query(ctx,
		`SELECT id, project_id, version, created_at FROM snapshots
		 WHERE project_id = $1 ORDER BY version DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	snaps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Snapshot, error) {
		out, err := scanSnapshot(row, false)
		if err != nil {
			return Snapshot{}, err
		}
		return *out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanSnapshot(row pgx.Row, withDocument bool) (*Snapshot, error) {
	var s Snapshot
	dest := []any{&s.ID, &s.ProjectID, &s.Version}
	if withDocument {
		dest = append(dest, &s.Document)
	}
	dest = append(dest, &s.CreatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &s, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
