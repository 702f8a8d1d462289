package metadata

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/tensio-x/tensio/pkg/voi"
	"github.com/tensio-x/tensio/pkg/yieldmodel"
)

const schema = `
CREATE TABLE IF NOT EXISTS metadata (
	experiment_id TEXT NOT NULL,
	kind          TEXT NOT NULL,
	key           TEXT NOT NULL,
	value         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	experiment_id TEXT NOT NULL,
	stage         TEXT NOT NULL,
	payload       TEXT NOT NULL,
	PRIMARY KEY (experiment_id, stage)
);
`

// SQLite is a Metadata backend and results cache in one embedded database
// file. MCMC runs are expensive; caching an ensemble under its session and
// stage lets a rerun skip straight to the decision analysis.
type SQLite struct {
	experimentID string
	db           *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and scopes all
// operations to the given experiment session ID.
func NewSQLite(experimentID string, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening metadata database %s failed", path)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, errors.Wrap(err, "setting journal mode failed")
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "creating metadata schema failed")
	}
	return &SQLite{experimentID: experimentID, db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Record implements Metadata.
func (s *SQLite) Record(key, value, kind string) error {
	_, err := s.db.Exec(
		`INSERT INTO metadata (experiment_id, kind, key, value) VALUES (?, ?, ?, ?)`,
		s.experimentID, kind, key, value,
	)
	return errors.Wrapf(err, "recording metadata %s failed", key)
}

// RecordMap implements Metadata.
func (s *SQLite) RecordMap(metadata map[string]string, kind string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning metadata transaction failed")
	}
	defer tx.Rollback()
	for key, value := range metadata {
		if _, err := tx.Exec(
			`INSERT INTO metadata (experiment_id, kind, key, value) VALUES (?, ?, ?, ?)`,
			s.experimentID, kind, key, value,
		); err != nil {
			return errors.Wrapf(err, "recording metadata %s failed", key)
		}
	}
	return errors.Wrap(tx.Commit(), "committing metadata failed")
}

// GetByKind implements Metadata.
func (s *SQLite) GetByKind(kind string) (map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT key, value FROM metadata WHERE experiment_id = ? AND kind = ?`,
		s.experimentID, kind,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "querying metadata of kind %s failed", kind)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.Wrap(err, "scanning metadata row failed")
		}
		out[key] = value
	}
	return out, errors.Wrap(rows.Err(), "iterating metadata rows failed")
}

// Clear implements Metadata.
func (s *SQLite) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning clear transaction failed")
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM metadata WHERE experiment_id = ?`, s.experimentID); err != nil {
		return errors.Wrap(err, "clearing metadata failed")
	}
	if _, err := tx.Exec(`DELETE FROM results WHERE experiment_id = ?`, s.experimentID); err != nil {
		return errors.Wrap(err, "clearing cached results failed")
	}
	return errors.Wrap(tx.Commit(), "committing clear failed")
}

// ErrNotCached is returned when no result is stored for the requested
// stage.
var ErrNotCached = errors.New("no cached result for stage")

func (s *SQLite) storePayload(stage string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "marshaling %s payload failed", stage)
	}
	_, err = s.db.Exec(
		`INSERT INTO results (experiment_id, stage, payload) VALUES (?, ?, ?)
		 ON CONFLICT (experiment_id, stage) DO UPDATE SET payload = excluded.payload`,
		s.experimentID, stage, string(data),
	)
	return errors.Wrapf(err, "storing %s payload failed", stage)
}

func (s *SQLite) loadPayload(stage string, payload interface{}) error {
	var data string
	err := s.db.QueryRow(
		`SELECT payload FROM results WHERE experiment_id = ? AND stage = ?`,
		s.experimentID, stage,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return ErrNotCached
	}
	if err != nil {
		return errors.Wrapf(err, "loading %s payload failed", stage)
	}
	return errors.Wrapf(json.Unmarshal([]byte(data), payload), "unmarshaling %s payload failed", stage)
}

// StoreEnsemble caches a posterior ensemble under the given stage name.
func (s *SQLite) StoreEnsemble(stage string, ensemble *yieldmodel.Ensemble) error {
	return s.storePayload(stage, ensemble)
}

// LoadEnsemble retrieves a cached ensemble, or ErrNotCached.
func (s *SQLite) LoadEnsemble(stage string) (*yieldmodel.Ensemble, error) {
	ensemble := &yieldmodel.Ensemble{}
	if err := s.loadPayload(stage, ensemble); err != nil {
		return nil, err
	}
	return ensemble, nil
}

// StoreSweep caches a value-of-information sweep.
func (s *SQLite) StoreSweep(stage string, points []voi.SweepPoint) error {
	return s.storePayload(stage, points)
}

// LoadSweep retrieves a cached sweep, or ErrNotCached.
func (s *SQLite) LoadSweep(stage string) ([]voi.SweepPoint, error) {
	var points []voi.SweepPoint
	if err := s.loadPayload(stage, &points); err != nil {
		return nil, err
	}
	return points, nil
}
