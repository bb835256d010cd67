package migrate

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var files embed.FS

type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Load returns the embedded migrations ordered by version. Every version
// must ship both an up and a down script.
func Load() ([]Migration, error) {
	return load(files, "sql")
}

func load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	byVersion := map[int]*Migration{}
	for _, e := range entries {
		version, name, direction, err := parseFileName(e.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(fsys, dir+"/"+e.Name())
		if err != nil {
			return nil, err
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		}
		if m.Name != name {
			return nil, fmt.Errorf("migration %03d has two names: %q and %q", version, m.Name, name)
		}
		if direction == "up" {
			m.Up = string(body)
		} else {
			m.Down = string(body)
		}
	}

	out := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" || m.Down == "" {
			return nil, fmt.Errorf("migration %03d_%s needs both up and down scripts", m.Version, m.Name)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// parseFileName splits "001_users.up.sql" into its parts.
func parseFileName(file string) (int, string, string, error) {
	base, ok := strings.CutSuffix(file, ".sql")
	if !ok {
		return 0, "", "", fmt.Errorf("unexpected migration file %q", file)
	}

	var direction string
	switch {
	case strings.HasSuffix(base, ".up"):
		direction, base = "up", strings.TrimSuffix(base, ".up")
	case strings.HasSuffix(base, ".down"):
		direction, base = "down", strings.TrimSuffix(base, ".down")
	default:
		return 0, "", "", fmt.Errorf("migration %q is neither up nor down", file)
	}

	num, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", "", fmt.Errorf("migration %q has no name", file)
	}
	version, err := strconv.Atoi(num)
	if err != nil || version <= 0 {
		return 0, "", "", fmt.Errorf("migration %q has a bad version", file)
	}
	return version, name, direction, nil
}

type Migrator struct {
	DB  *pgxpool.Pool
	Log zerolog.Logger
}

const lockID = 7_310_021

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.DB.Exec(ctx, `
		create table if not exists schema_migrations (
			version    integer primary key,
			name       text not null,
			applied_at timestamptz not null default now()
		)`)
	return err
}

func (m *Migrator) applied(ctx context.Context) (map[int]bool, error) {
	rows, err := m.DB.Query(ctx, `select version from schema_migrations`)
	if err != nil {
		return nil, err
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int32])
	if err != nil {
		return nil, err
	}
	out := make(map[int]bool, len(versions))
	for _, v := range versions {
		out[int(v)] = true
	}
	return out, nil
}

// Up applies every pending migration, each in its own transaction.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	migrations, err := Load()
	if err != nil {
		return 0, err
	}
	if err := m.ensureTable(ctx); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}
	done, err := m.applied(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema_migrations: %w", err)
	}

	n := 0
	for _, mig := range migrations {
		if done[mig.Version] {
			continue
		}
		err := pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `select pg_advisory_xact_lock($1)`, lockID); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, mig.Up); err != nil {
				return err
			}
			_, err := tx.Exec(ctx,
				`insert into schema_migrations (version, name) values ($1, $2) on conflict do nothing`,
				mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return n, fmt.Errorf("apply %03d_%s: %w", mig.Version, mig.Name, err)
		}
		m.Log.Info().Int("version", mig.Version).Str("name", mig.Name).Msg("migration applied")
		n++
	}
	return n, nil
}

// Down reverts up to steps applied migrations, newest first.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	migrations, err := Load()
	if err != nil {
		return 0, err
	}
	if err := m.ensureTable(ctx); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}
	done, err := m.applied(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema_migrations: %w", err)
	}

	n := 0
	for i := len(migrations) - 1; i >= 0 && n < steps; i-- {
		mig := migrations[i]
		if !done[mig.Version] {
			continue
		}
		err := pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `select pg_advisory_xact_lock($1)`, lockID); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, mig.Down); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `delete from schema_migrations where version = $1`, mig.Version)
			return err
		})
		if err != nil {
			return n, fmt.Errorf("revert %03d_%s: %w", mig.Version, mig.Name, err)
		}
		m.Log.Info().Int("version", mig.Version).Str("name", mig.Name).Msg("migration reverted")
		n++
	}
	return n, nil
}
