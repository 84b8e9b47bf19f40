package registry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/modeltrust/registry/internal/artifact"
)

// ErrNotFound is returned when an artifact does not exist.
var ErrNotFound = fmt.Errorf("artifact not found")

// Store handles registry persistence on top of the sqlite connection.
type Store struct {
	db *DB
}

// NewStore creates a new store
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// CreateArtifact inserts a new metadata record. The name is persisted in
// normalized form so FindByName, which normalizes only its query, matches
// regardless of the casing the source URL carried.
func (s *Store) CreateArtifact(a *Artifact) error {
	now := time.Now().UTC()
	a.Name = NormalizeName(a.Name)
	a.CreatedAt = now
	a.UpdatedAt = now

	lineage, err := json.Marshal(a.Lineage)
	if err != nil {
		return fmt.Errorf("failed to encode lineage: %w", err)
	}

	stmt, ok := s.db.GetPreparedStatement("insert_artifact")
	if !ok {
		return fmt.Errorf("insert_artifact statement not prepared")
	}
	if _, err := stmt.Exec(a.ID, a.Type, a.Name, a.URL, a.DownloadURL, a.License,
		string(lineage), a.SizeBytes, a.CreatedAt, a.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert artifact: %w", err)
	}

	return nil
}

// GetArtifact fetches one metadata record by type and id.
func (s *Store) GetArtifact(artifactType, id string) (*Artifact, error) {
	stmt, ok := s.db.GetPreparedStatement("get_artifact")
	if !ok {
		return nil, fmt.Errorf("get_artifact statement not prepared")
	}
	return scanArtifact(stmt.QueryRow(artifactType, id))
}

// UpdateArtifactURL updates the stored source URL.
func (s *Store) UpdateArtifactURL(artifactType, id, url string) error {
	result, err := s.db.Exec(`
		UPDATE artifacts SET url = ?, updated_at = ? WHERE type = ? AND id = ?
	`, url, time.Now().UTC(), artifactType, id)
	if err != nil {
		return fmt.Errorf("failed to update artifact: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteArtifact removes the metadata record and every rating for it.
func (s *Store) DeleteArtifact(artifactType, id string) error {
	result, err := s.db.Exec(`DELETE FROM artifacts WHERE type = ? AND id = ?`, artifactType, id)
	if err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := s.db.Exec(`DELETE FROM ratings WHERE artifact_type = ? AND artifact_id = ?`, artifactType, id); err != nil {
		return fmt.Errorf("failed to delete ratings: %w", err)
	}

	return nil
}

// ListArtifacts returns metadata records ordered by creation time, optionally
// filtered by type, with offset/limit pagination.
func (s *Store) ListArtifacts(filterType string, offset, limit int) ([]*Artifact, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, type, name, url, download_url, license, lineage, size_bytes, created_at, updated_at
		FROM artifacts`
	args := []any{}
	if filterType != "" {
		query += ` WHERE type = ?`
		args = append(args, filterType)
	}
	query += ` ORDER BY created_at, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	return scanArtifacts(rows)
}

// FindByName returns every artifact whose stored name equals the normalized
// form of name.
func (s *Store) FindByName(name string) ([]*Artifact, error) {
	rows, err := s.db.Query(`
		SELECT id, type, name, url, download_url, license, lineage, size_bytes, created_at, updated_at
		FROM artifacts WHERE name = ? ORDER BY created_at, id
	`, NormalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to find artifacts by name: %w", err)
	}
	defer rows.Close()

	return scanArtifacts(rows)
}

// FindByRegex returns every artifact whose name matches the pattern,
// case-insensitively. An invalid pattern is the caller's error.
func (s *Store) FindByRegex(pattern string) ([]*Artifact, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	all, err := s.ListArtifacts("", 0, 0)
	if err != nil {
		return nil, err
	}

	var matched []*Artifact
	for _, a := range all {
		if re.MatchString(a.Name) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// SaveRating appends a timestamped rating record for the artifact.
func (s *Store) SaveRating(artifactType, id string, rating *artifact.Rating) error {
	data, err := json.Marshal(rating)
	if err != nil {
		return fmt.Errorf("failed to encode rating: %w", err)
	}

	stmt, ok := s.db.GetPreparedStatement("insert_rating")
	if !ok {
		return fmt.Errorf("insert_rating statement not prepared")
	}
	if _, err := stmt.Exec(uuid.New().String(), artifactType, id, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}

	return nil
}

// LatestRating returns the most recent rating for the artifact, or
// ErrNotFound when none has been stored.
func (s *Store) LatestRating(artifactType, id string) (*artifact.Rating, error) {
	stmt, ok := s.db.GetPreparedStatement("latest_rating")
	if !ok {
		return nil, fmt.Errorf("latest_rating statement not prepared")
	}

	var data string
	if err := stmt.QueryRow(artifactType, id).Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query rating: %w", err)
	}

	var rating artifact.Rating
	if err := json.Unmarshal([]byte(data), &rating); err != nil {
		return nil, fmt.Errorf("failed to decode rating: %w", err)
	}
	return &rating, nil
}

// Reset deletes every artifact and rating, returning the number of rows
// removed.
func (s *Store) Reset() (int64, error) {
	var deleted int64

	for _, table := range []string{"artifacts", "ratings"} {
		result, err := s.db.Exec("DELETE FROM " + table)
		if err != nil {
			return deleted, fmt.Errorf("failed to reset %s: %w", table, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return deleted, fmt.Errorf("failed to read reset result: %w", err)
		}
		deleted += affected
	}

	return deleted, nil
}

func scanArtifact(row *sql.Row) (*Artifact, error) {
	var a Artifact
	var lineage sql.NullString
	var downloadURL, license sql.NullString

	err := row.Scan(&a.ID, &a.Type, &a.Name, &a.URL, &downloadURL, &license,
		&lineage, &a.SizeBytes, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan artifact: %w", err)
	}

	a.DownloadURL = downloadURL.String
	a.License = license.String
	if lineage.Valid && lineage.String != "" {
		if err := json.Unmarshal([]byte(lineage.String), &a.Lineage); err != nil {
			return nil, fmt.Errorf("failed to decode lineage: %w", err)
		}
	}
	return &a, nil
}

func scanArtifacts(rows *sql.Rows) ([]*Artifact, error) {
	var artifacts []*Artifact
	for rows.Next() {
		var a Artifact
		var lineage sql.NullString
		var downloadURL, license sql.NullString

		if err := rows.Scan(&a.ID, &a.Type, &a.Name, &a.URL, &downloadURL, &license,
			&lineage, &a.SizeBytes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		a.DownloadURL = downloadURL.String
		a.License = license.String
		if lineage.Valid && lineage.String != "" {
			if err := json.Unmarshal([]byte(lineage.String), &a.Lineage); err != nil {
				return nil, fmt.Errorf("failed to decode lineage: %w", err)
			}
		}
		artifacts = append(artifacts, &a)
	}
	return artifacts, rows.Err()
}
