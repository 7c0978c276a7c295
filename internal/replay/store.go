package replay

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrTraceNotFound is returned when loading a trace ID that does not exist.
var ErrTraceNotFound = errors.New("replay: trace not found")

// Store persists sealed traces in SQLite, used for debugging and automated
// regression tests. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
type Store struct {
	db *sql.DB
}

// TraceInfo is the listing metadata for a stored trace.
type TraceInfo struct {
	ID        int64
	Name      string
	Seed      uint64
	StepCount uint32
	FinalHash uint64
	CreatedAt time.Time
}

// OpenStore creates or opens a trace database at the given path. It creates
// the parent directories if needed and runs migrations.
func OpenStore(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("replay: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("replay: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("replay: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("replay: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS traces (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			seed INTEGER NOT NULL,
			step_count INTEGER NOT NULL,
			final_hash INTEGER NOT NULL,
			payload BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_traces_name ON traces(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveTrace stores a sealed trace under a name and returns the record ID.
func (s *Store) SaveTrace(name string, t *Trace) (int64, error) {
	payload, err := Encode(t)
	if err != nil {
		return 0, err
	}
	result, err := s.db.Exec(
		"INSERT INTO traces (name, seed, step_count, final_hash, payload) VALUES (?, ?, ?, ?, ?)",
		name, int64(t.Seed), t.StepCount, int64(t.FinalHash), payload,
	)
	if err != nil {
		return 0, fmt.Errorf("replay: cannot save trace: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("replay: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// LoadTrace retrieves and validates a stored trace by ID.
func (s *Store) LoadTrace(id int64) (*Trace, error) {
	var payload []byte
	err := s.db.QueryRow("SELECT payload FROM traces WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("replay: trace %d: %w", id, ErrTraceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("replay: cannot load trace %d: %w", id, err)
	}
	return Decode(payload)
}

// ListTraces returns metadata for all stored traces, newest first.
func (s *Store) ListTraces() ([]TraceInfo, error) {
	rows, err := s.db.Query(
		`SELECT id, name, seed, step_count, final_hash, created_at
		 FROM traces
		 ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot query traces: %w", err)
	}
	defer rows.Close()

	var infos []TraceInfo
	for rows.Next() {
		var info TraceInfo
		var seed, hash int64
		var createdAt any
		if err := rows.Scan(&info.ID, &info.Name, &seed, &info.StepCount, &hash, &createdAt); err != nil {
			return nil, fmt.Errorf("replay: cannot scan row: %w", err)
		}
		info.Seed = uint64(seed)
		info.FinalHash = uint64(hash)

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			info.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				info.CreatedAt = parsed
			}
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("replay: row iteration error: %w", err)
	}
	return infos, nil
}

// DeleteTrace removes a stored trace.
func (s *Store) DeleteTrace(id int64) error {
	res, err := s.db.Exec("DELETE FROM traces WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("replay: cannot delete trace %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("replay: trace %d: %w", id, ErrTraceNotFound)
	}
	return nil
}
