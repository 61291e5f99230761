// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile persists aggregated skill profiles in SQLite. Each
// owner holds at most one record per skill; extraction replaces an
// owner's whole profile, while UpsertIfHigher merges in place.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/skillgap/pkg/types"
)

const dbFile = "skillgap.db"

// ErrNoSkills is returned when an owner has no stored skills.
var ErrNoSkills = errors.New("no skills extracted")

// Store manages the profile SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
	now     func() time.Time
}

// NewStore opens or creates the profile database at dataDir/skillgap.db.
// It creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: cfg.DataDir, now: time.Now}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the directory holding the database and exports.
func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS owners (
			id TEXT PRIMARY KEY,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS skills (
			owner_id TEXT NOT NULL REFERENCES owners(id) ON DELETE CASCADE,
			skill TEXT NOT NULL,
			proficiency REAL NOT NULL,
			confidence REAL NOT NULL,
			source_count INTEGER NOT NULL,
			sources TEXT,
			PRIMARY KEY (owner_id, skill)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_skills_skill ON skills(skill)`,
		`CREATE TABLE IF NOT EXISTS extraction_status (
			owner_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS roadmaps (
			owner_id TEXT NOT NULL,
			domain TEXT NOT NULL,
			started_at TEXT NOT NULL,
			PRIMARY KEY (owner_id, domain)
		)`,
		`CREATE TABLE IF NOT EXISTS roadmap_progress (
			owner_id TEXT NOT NULL,
			domain TEXT NOT NULL,
			milestone_id TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at TEXT,
			completed_at TEXT,
			PRIMARY KEY (owner_id, domain, milestone_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SourceModTime returns the bundle modification time recorded by the
// owner's last extraction, or "" if there is none.
func (s *Store) SourceModTime(ctx context.Context, owner string) (string, error) {
	var modTime string
	err := s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM extraction_status WHERE owner_id = ?`, owner,
	).Scan(&modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading extraction status: %w", err)
	}
	return modTime, nil
}

// ReplaceSkills deletes the owner's stored skills and inserts skills in
// one transaction. A non-empty sourceModTime is recorded as the
// owner's extraction status.
func (s *Store) ReplaceSkills(ctx context.Context, owner string, skills []types.AggregatedSkill, sourceModTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.touchOwner(ctx, tx, owner); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM skills WHERE owner_id = ?`, owner); err != nil {
		return fmt.Errorf("deleting old skills: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO skills (owner_id, skill, proficiency, confidence, source_count, sources)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, sk := range skills {
		sourcesJSON, _ := json.Marshal(sk.Sources)
		if _, err := stmt.ExecContext(ctx,
			owner, sk.Skill, sk.Proficiency, sk.Confidence, sk.SourceCount, string(sourcesJSON),
		); err != nil {
			return fmt.Errorf("inserting skill %s: %w", sk.Skill, err)
		}
	}

	if sourceModTime != "" {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO extraction_status (owner_id, file_mod_time) VALUES (?, ?)
			 ON CONFLICT(owner_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
			owner, sourceModTime,
		)
		if err != nil {
			return fmt.Errorf("updating extraction status: %w", err)
		}
	}

	return tx.Commit()
}

// UpsertIfHigher merges skills into the owner's profile: new skills are
// inserted and existing ones are overwritten only when the incoming
// proficiency is strictly higher. It returns the number of rows written.
func (s *Store) UpsertIfHigher(ctx context.Context, owner string, skills []types.AggregatedSkill) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.touchOwner(ctx, tx, owner); err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO skills (owner_id, skill, proficiency, confidence, source_count, sources)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner_id, skill) DO UPDATE SET
			proficiency=excluded.proficiency, confidence=excluded.confidence,
			source_count=excluded.source_count, sources=excluded.sources
		 WHERE excluded.proficiency > skills.proficiency`)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, sk := range skills {
		sourcesJSON, _ := json.Marshal(sk.Sources)
		res, err := stmt.ExecContext(ctx,
			owner, sk.Skill, sk.Proficiency, sk.Confidence, sk.SourceCount, string(sourcesJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("upserting skill %s: %w", sk.Skill, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			written += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing upsert: %w", err)
	}
	return written, nil
}

func (s *Store) touchOwner(ctx context.Context, tx *sql.Tx, owner string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO owners (id, updated_at) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET updated_at=excluded.updated_at`,
		owner, s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting owner: %w", err)
	}
	return nil
}

// Skills returns the owner's stored skills ordered by proficiency
// descending, then name. It returns ErrNoSkills when there are none.
func (s *Store) Skills(ctx context.Context, owner string) ([]types.AggregatedSkill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT skill, proficiency, confidence, source_count, sources
		 FROM skills WHERE owner_id = ?
		 ORDER BY proficiency DESC, skill ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying skills: %w", err)
	}
	defer rows.Close()

	var out []types.AggregatedSkill
	for rows.Next() {
		var (
			sk          types.AggregatedSkill
			sourcesJSON sql.NullString
		)
		if err := rows.Scan(&sk.Skill, &sk.Proficiency, &sk.Confidence, &sk.SourceCount, &sourcesJSON); err != nil {
			return nil, fmt.Errorf("scanning skill: %w", err)
		}
		if sourcesJSON.Valid && sourcesJSON.String != "" {
			if err := json.Unmarshal([]byte(sourcesJSON.String), &sk.Sources); err != nil {
				return nil, fmt.Errorf("decoding sources for %s: %w", sk.Skill, err)
			}
		}
		out = append(out, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skills: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("owner %q: %w", owner, ErrNoSkills)
	}
	return out, nil
}

// UserSkills returns the owner's profile as the skill → score map the
// gap analyzer consumes.
func (s *Store) UserSkills(ctx context.Context, owner string) (map[string]types.Score, error) {
	skills, err := s.Skills(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make(map[string]types.Score, len(skills))
	for _, sk := range skills {
		out[sk.Skill] = sk.Score()
	}
	return out, nil
}

// OwnerSummary describes one stored profile.
type OwnerSummary struct {
	Owner      string `json:"owner" yaml:"owner"`
	SkillCount int    `json:"skill_count" yaml:"skill_count"`
	UpdatedAt  string `json:"updated_at" yaml:"updated_at"`
}

// Owners lists stored profiles by owner name.
func (s *Store) Owners(ctx context.Context) ([]OwnerSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.id, COUNT(sk.skill), COALESCE(o.updated_at, '')
		 FROM owners o LEFT JOIN skills sk ON sk.owner_id = o.id
		 GROUP BY o.id ORDER BY o.id`)
	if err != nil {
		return nil, fmt.Errorf("querying owners: %w", err)
	}
	defer rows.Close()

	var out []OwnerSummary
	for rows.Next() {
		var o OwnerSummary
		if err := rows.Scan(&o.Owner, &o.SkillCount, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning owner: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
