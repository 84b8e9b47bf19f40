package registry

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the sqlite connection with pooling and a prepared-statement map.
type DB struct {
	*sql.DB
	prepared map[string]*sql.Stmt
	mutex    sync.RWMutex
}

// NewDB opens (or creates) the registry database under dataDir and runs
// migrations.
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "trust_registry.db")
	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	database := &DB{
		DB:       db,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := database.initPreparedStatements(); err != nil {
		return nil, fmt.Errorf("failed to initialize prepared statements: %w", err)
	}

	slog.Info("Registry database initialized", "path", dbPath)

	return database, nil
}

// migrate creates the necessary tables
func (db *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS artifacts (
			id TEXT NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			download_url TEXT,
			license TEXT,
			lineage TEXT, -- JSON array of parent names
			size_bytes INTEGER DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (type, id)
		)`,

		`CREATE TABLE IF NOT EXISTS ratings (
			id TEXT PRIMARY KEY,
			artifact_type TEXT NOT NULL,
			artifact_id TEXT NOT NULL,
			rating TEXT NOT NULL, -- JSON rating document
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_artifacts_name ON artifacts(name)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_type ON artifacts(type)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_artifact ON ratings(artifact_type, artifact_id, created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// initPreparedStatements initializes frequently used prepared statements
func (db *DB) initPreparedStatements() error {
	statements := map[string]string{
		"insert_artifact": `INSERT INTO artifacts (id, type, name, url, download_url, license, lineage, size_bytes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"get_artifact": `SELECT id, type, name, url, download_url, license, lineage, size_bytes, created_at, updated_at
			FROM artifacts WHERE type = ? AND id = ?`,

		"insert_rating": `INSERT INTO ratings (id, artifact_type, artifact_id, rating, created_at)
			VALUES (?, ?, ?, ?, ?)`,

		"latest_rating": `SELECT rating FROM ratings
			WHERE artifact_type = ? AND artifact_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT 1`,
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, query := range statements {
		stmt, err := db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		db.prepared[name] = stmt
	}

	return nil
}

// GetPreparedStatement returns a prepared statement by name
func (db *DB) GetPreparedStatement(name string) (*sql.Stmt, bool) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	stmt, ok := db.prepared[name]
	return stmt, ok
}

// Close closes prepared statements and the underlying connection.
func (db *DB) Close() error {
	db.mutex.Lock()
	for _, stmt := range db.prepared {
		stmt.Close()
	}
	db.prepared = make(map[string]*sql.Stmt)
	db.mutex.Unlock()

	return db.DB.Close()
}
