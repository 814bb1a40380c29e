// Copyright 2025 Truby AI, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/trubyai/screenplay-search/internal/core/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS movies (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    tmdb_id      INTEGER NOT NULL UNIQUE,
    imdb_id      TEXT,
    title        TEXT NOT NULL,
    overview     TEXT,
    release_date TEXT,
    vote_average REAL,
    vote_count   INTEGER,
    created_at   TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS screenplays (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    movie_id     INTEGER NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
    storage_path TEXT,
    text         TEXT,
    total_scenes INTEGER NOT NULL,
    created_at   TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS scenes (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    screenplay_id     INTEGER NOT NULL REFERENCES screenplays(id) ON DELETE CASCADE,
    scene_number      INTEGER NOT NULL,
    progress_raw      TEXT NOT NULL,
    progress_num      REAL NOT NULL,
    beat              TEXT,
    ai_summary        TEXT,
    previous_scene_id INTEGER,
    next_scene_id     INTEGER,
    document_id       TEXT,
    created_at        TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at        TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE (screenplay_id, scene_number)
);

CREATE INDEX IF NOT EXISTS idx_scenes_screenplay ON scenes(screenplay_id);
`

// Store is the relational persistence layer. One Store owns one SQLite
// database handle; it is safe for concurrent use by multiple ingestions of
// different screenplays.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path, applies
// the connection pragmas, and runs migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateMovie inserts a movie row. Returns ErrDuplicateMovie when a movie
// with the same TMDB id already exists; the duplicate check runs before the
// insert so the caller can refuse the whole ingest up front.
func (s *Store) CreateMovie(ctx context.Context, m *model.Movie) (int64, error) {
	var existing int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM movies WHERE tmdb_id = ?`, m.TmdbID).Scan(&existing)
	switch {
	case err == nil:
		return 0, fmt.Errorf("tmdb id %d: %w", m.TmdbID, ErrDuplicateMovie)
	case !errors.Is(err, sql.ErrNoRows):
		return 0, &PersistenceError{Op: "movie duplicate check", Err: err}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO movies (tmdb_id, imdb_id, title, overview, release_date, vote_average, vote_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.TmdbID, nullableString(m.ImdbID), m.Title, nullableString(m.Overview),
		nullableString(m.ReleaseDate), m.VoteAverage, m.VoteCount)
	if err != nil {
		return 0, &PersistenceError{Op: "movie insert", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &PersistenceError{Op: "movie insert id", Err: err}
	}
	m.ID = id
	return id, nil
}

// GetMovieByTMDB looks a movie up by its external TMDB id.
func (s *Store) GetMovieByTMDB(ctx context.Context, tmdbID int64) (*model.Movie, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, tmdb_id, COALESCE(imdb_id, ''), title, COALESCE(overview, ''),
		       COALESCE(release_date, ''), COALESCE(vote_average, 0), COALESCE(vote_count, 0), created_at
		FROM movies WHERE tmdb_id = ?`, tmdbID)
	return scanMovie(row, fmt.Sprintf("tmdb id %d", tmdbID))
}

// CreateScreenplay inserts the screenplay row that owns the scene sequence.
func (s *Store) CreateScreenplay(ctx context.Context, sp *model.Screenplay) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO screenplays (movie_id, storage_path, text, total_scenes)
		VALUES (?, ?, ?, ?)`,
		sp.MovieID, nullableString(sp.StoragePath), nullableString(sp.Text), sp.TotalScenes)
	if err != nil {
		return 0, &PersistenceError{Op: "screenplay insert", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &PersistenceError{Op: "screenplay insert id", Err: err}
	}
	sp.ID = id
	return id, nil
}

// GetScreenplay retrieves one screenplay by id.
func (s *Store) GetScreenplay(ctx context.Context, id int64) (*model.Screenplay, error) {
	sp := &model.Screenplay{}
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, movie_id, COALESCE(storage_path, ''), COALESCE(text, ''), total_scenes, created_at
		FROM screenplays WHERE id = ?`, id).
		Scan(&sp.ID, &sp.MovieID, &sp.StoragePath, &sp.Text, &sp.TotalScenes, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("screenplay %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, &PersistenceError{Op: "screenplay select", Err: err}
	}
	sp.CreatedAt = parseTimestamp(createdAt)
	return sp, nil
}

// DeleteScreenplay removes a screenplay. Its scenes go with it via the
// foreign-key cascade.
func (s *Store) DeleteScreenplay(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM screenplays WHERE id = ?`, id)
	if err != nil {
		return &PersistenceError{Op: "screenplay delete", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "screenplay delete count", Err: err}
	}
	if affected == 0 {
		return fmt.Errorf("screenplay %d: %w", id, ErrNotFound)
	}
	return nil
}

// CreateScenePlaceholder inserts the scene row before classification: the
// sequence position is fixed, beat and summary stay null until the scene is
// classified.
func (s *Store) CreateScenePlaceholder(ctx context.Context, sc *model.Scene) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scenes (screenplay_id, scene_number, progress_raw, progress_num, previous_scene_id)
		VALUES (?, ?, ?, ?, ?)`,
		sc.ScreenplayID, sc.SceneNumber, sc.ProgressRaw, sc.ProgressNum, sc.PreviousSceneID)
	if err != nil {
		return 0, &PersistenceError{Op: "scene placeholder insert", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &PersistenceError{Op: "scene placeholder insert id", Err: err}
	}
	sc.ID = id
	return id, nil
}

// UpdateSceneAnalysis stores the classification outcome on the scene row.
// This is the single mutation a scene receives from classification.
func (s *Store) UpdateSceneAnalysis(ctx context.Context, sceneID int64, beat, aiSummary string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE scenes SET beat = ?, ai_summary = ?, updated_at = datetime('now') WHERE id = ?`,
		beat, nullableString(aiSummary), sceneID)
	if err != nil {
		return &PersistenceError{Op: "scene analysis update", Err: err}
	}
	return requireRow(res, fmt.Sprintf("scene %d", sceneID))
}

// SetNextScene links a scene forward to its successor. Called
// retrospectively once the successor's placeholder exists.
func (s *Store) SetNextScene(ctx context.Context, sceneID, nextSceneID int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE scenes SET next_scene_id = ?, updated_at = datetime('now') WHERE id = ?`,
		nextSceneID, sceneID)
	if err != nil {
		return &PersistenceError{Op: "scene next link update", Err: err}
	}
	return requireRow(res, fmt.Sprintf("scene %d", sceneID))
}

// SetSceneDocumentRef records the document-store id assigned when the scene
// was indexed.
func (s *Store) SetSceneDocumentRef(ctx context.Context, sceneID int64, documentID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE scenes SET document_id = ?, updated_at = datetime('now') WHERE id = ?`,
		documentID, sceneID)
	if err != nil {
		return &PersistenceError{Op: "scene document ref update", Err: err}
	}
	return requireRow(res, fmt.Sprintf("scene %d", sceneID))
}

// ListScenesByScreenplay returns the screenplay's scenes in sequence order.
func (s *Store) ListScenesByScreenplay(ctx context.Context, screenplayID int64) ([]*model.Scene, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, screenplay_id, scene_number, progress_raw, progress_num,
		       COALESCE(beat, ''), COALESCE(ai_summary, ''), previous_scene_id, next_scene_id,
		       COALESCE(document_id, ''), created_at, updated_at
		FROM scenes WHERE screenplay_id = ? ORDER BY scene_number`, screenplayID)
	if err != nil {
		return nil, &PersistenceError{Op: "scene list", Err: err}
	}
	defer func() { _ = rows.Close() }()

	out := make([]*model.Scene, 0)
	for rows.Next() {
		sc := &model.Scene{}
		var createdAt, updatedAt string
		if err := rows.Scan(&sc.ID, &sc.ScreenplayID, &sc.SceneNumber, &sc.ProgressRaw, &sc.ProgressNum,
			&sc.Beat, &sc.AISummary, &sc.PreviousSceneID, &sc.NextSceneID,
			&sc.DocumentID, &createdAt, &updatedAt); err != nil {
			return nil, &PersistenceError{Op: "scene scan", Err: err}
		}
		sc.CreatedAt = parseTimestamp(createdAt)
		sc.UpdatedAt = parseTimestamp(updatedAt)
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "scene iterate", Err: err}
	}
	return out, nil
}

// GetScene retrieves one scene by id.
func (s *Store) GetScene(ctx context.Context, id int64) (*model.Scene, error) {
	sc := &model.Scene{}
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, screenplay_id, scene_number, progress_raw, progress_num,
		       COALESCE(beat, ''), COALESCE(ai_summary, ''), previous_scene_id, next_scene_id,
		       COALESCE(document_id, ''), created_at, updated_at
		FROM scenes WHERE id = ?`, id).
		Scan(&sc.ID, &sc.ScreenplayID, &sc.SceneNumber, &sc.ProgressRaw, &sc.ProgressNum,
			&sc.Beat, &sc.AISummary, &sc.PreviousSceneID, &sc.NextSceneID,
			&sc.DocumentID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scene %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, &PersistenceError{Op: "scene select", Err: err}
	}
	sc.CreatedAt = parseTimestamp(createdAt)
	sc.UpdatedAt = parseTimestamp(updatedAt)
	return sc, nil
}

func scanMovie(row *sql.Row, key string) (*model.Movie, error) {
	m := &model.Movie{}
	var createdAt string
	err := row.Scan(&m.ID, &m.TmdbID, &m.ImdbID, &m.Title, &m.Overview,
		&m.ReleaseDate, &m.VoteAverage, &m.VoteCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movie %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, &PersistenceError{Op: "movie select", Err: err}
	}
	m.CreatedAt = parseTimestamp(createdAt)
	return m, nil
}

func requireRow(res sql.Result, key string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "rows affected", Err: err}
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return nil
}

// nullableString maps the empty string to SQL NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
