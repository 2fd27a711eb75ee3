package census

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/census-lookup/internal/geoid"
)

// Store holds census values in SQLite, one narrow row per (geoid, variable).
// PL 94-171 rows are block level and aggregate upward by GEOID prefix; ACS
// rows are tract level and are served as-is for any finer geography.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the store at path and configures WAL mode.
// Use ":memory:" for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "census: open store")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "census: exec %s", pragma)
		}
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const storeMigration = `
CREATE TABLE IF NOT EXISTS pl94 (
	geoid    TEXT NOT NULL,
	variable TEXT NOT NULL,
	value    REAL NOT NULL,
	PRIMARY KEY (geoid, variable)
);

CREATE TABLE IF NOT EXISTS acs (
	geoid    TEXT NOT NULL,
	variable TEXT NOT NULL,
	value    REAL NOT NULL,
	PRIMARY KEY (geoid, variable)
);

CREATE TABLE IF NOT EXISTS loaded_states (
	kind      TEXT NOT NULL,
	state     TEXT NOT NULL,
	loaded_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (kind, state)
);
`

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, storeMigration)
	return eris.Wrap(err, "census: migrate")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// LoadPL94 inserts block-level rows for a state and records the load.
// Reloading a state replaces its rows so aggregates never double count.
func (s *Store) LoadPL94(ctx context.Context, stateFIPS string, rows []Row) error {
	return s.load(ctx, "pl94", stateFIPS, rows, true)
}

// LoadACS merges tract-level rows for a state and records the load. Merging
// lets successive fetches of different variable sets accumulate.
func (s *Store) LoadACS(ctx context.Context, stateFIPS string, rows []Row) error {
	return s.load(ctx, "acs", stateFIPS, rows, false)
}

func (s *Store) load(ctx context.Context, table, stateFIPS string, rows []Row, replace bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "census: begin load")
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE substr(geoid, 1, 2) = ?`, table), stateFIPS,
		); err != nil {
			return eris.Wrapf(err, "census: clear %s rows for %s", table, stateFIPS)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`INSERT OR REPLACE INTO %s (geoid, variable, value) VALUES (?, ?, ?)`, table),
	)
	if err != nil {
		return eris.Wrap(err, "census: prepare insert")
	}
	defer stmt.Close()

	for _, row := range rows {
		for variable, value := range row.Values {
			if _, err := stmt.ExecContext(ctx, row.GEOID, variable, value); err != nil {
				return eris.Wrapf(err, "census: insert %s %s", row.GEOID, variable)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO loaded_states (kind, state, loaded_at) VALUES (?, ?, datetime('now'))`,
		table, stateFIPS,
	); err != nil {
		return eris.Wrapf(err, "census: record load %s %s", table, stateFIPS)
	}
	return eris.Wrap(tx.Commit(), "census: commit load")
}

// HasState reports whether a state's rows of the given kind are loaded.
// Kind is "pl94" or "acs".
func (s *Store) HasState(ctx context.Context, kind, stateFIPS string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loaded_states WHERE kind = ? AND state = ?`,
		kind, stateFIPS,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrap(err, "census: has state")
	}
	return n > 0, nil
}

// PL94Values returns the requested variables for the geography identified by
// a GEOID prefix. Block-level rows are summed under the prefix, which yields
// the stored value itself at block level and correct totals at coarser
// levels because PL 94-171 variables are all counts. Variables with no rows
// map to nil.
func (s *Store) PL94Values(ctx context.Context, id string, level geoid.Level, variables []string) (map[string]*float64, error) {
	if len(variables) == 0 {
		return map[string]*float64{}, nil
	}
	prefix := id
	if len(prefix) > level.Len() {
		prefix = prefix[:level.Len()]
	}

	query := fmt.Sprintf(
		`SELECT variable, SUM(value) FROM pl94
		 WHERE substr(geoid, 1, %d) = ? AND variable IN (%s)
		 GROUP BY variable`,
		len(prefix), placeholders(len(variables)),
	)
	args := make([]any, 0, len(variables)+1)
	args = append(args, prefix)
	for _, v := range variables {
		args = append(args, v)
	}

	return s.queryValues(ctx, query, args, variables)
}

// ACSValues returns the requested ACS variables at the tract containing the
// GEOID. ACS estimates are not published below tract level, so finer GEOIDs
// resolve to their tract's values. Variables with no rows map to nil.
func (s *Store) ACSValues(ctx context.Context, id string, variables []string) (map[string]*float64, error) {
	if len(variables) == 0 {
		return map[string]*float64{}, nil
	}
	tract := id
	if len(tract) > geoid.LevelTract.Len() {
		tract = tract[:geoid.LevelTract.Len()]
	}

	query := fmt.Sprintf(
		`SELECT variable, value FROM acs WHERE geoid = ? AND variable IN (%s)`,
		placeholders(len(variables)),
	)
	args := make([]any, 0, len(variables)+1)
	args = append(args, tract)
	for _, v := range variables {
		args = append(args, v)
	}

	return s.queryValues(ctx, query, args, variables)
}

func (s *Store) queryValues(ctx context.Context, query string, args []any, variables []string) (map[string]*float64, error) {
	out := make(map[string]*float64, len(variables))
	for _, v := range variables {
		out[v] = nil
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "census: query values")
	}
	defer rows.Close()

	for rows.Next() {
		var variable string
		var value float64
		if err := rows.Scan(&variable, &value); err != nil {
			return nil, eris.Wrap(err, "census: scan value")
		}
		v := value
		out[variable] = &v
	}
	return out, eris.Wrap(rows.Err(), "census: iterate values")
}

// ClearState removes a state's rows of the given kind.
func (s *Store) ClearState(ctx context.Context, kind, stateFIPS string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "census: begin clear")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE substr(geoid, 1, 2) = ?`, kind), stateFIPS,
	); err != nil {
		return eris.Wrapf(err, "census: clear %s %s", kind, stateFIPS)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM loaded_states WHERE kind = ? AND state = ?`, kind, stateFIPS,
	); err != nil {
		return eris.Wrapf(err, "census: forget %s %s", kind, stateFIPS)
	}
	return eris.Wrap(tx.Commit(), "census: commit clear")
}

// LoadedStates lists states with loaded rows for the given kind, sorted.
func (s *Store) LoadedStates(ctx context.Context, kind string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT state FROM loaded_states WHERE kind = ? ORDER BY state`, kind,
	)
	if err != nil {
		return nil, eris.Wrap(err, "census: loaded states")
	}
	defer rows.Close()

	var states []string
	for rows.Next() {
		var st string
		if err := rows.Scan(&st); err != nil {
			return nil, eris.Wrap(err, "census: scan state")
		}
		states = append(states, st)
	}
	return states, eris.Wrap(rows.Err(), "census: iterate states")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
