package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/skillgap/pkg/types"
)

// ErrNoRoadmap is returned when an owner has not selected a roadmap.
var ErrNoRoadmap = errors.New("no roadmap selected")

// SelectRoadmap makes domain the owner's active roadmap and returns when
// it was started. Selecting a roadmap the owner already follows keeps
// its start time and progress and reports existed.
func (s *Store) SelectRoadmap(ctx context.Context, owner, domain string) (startedAt string, existed bool, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT started_at FROM roadmaps WHERE owner_id = ? AND domain = ?`, owner, domain,
	).Scan(&startedAt)
	switch {
	case err == nil:
		return startedAt, true, nil
	case !errors.Is(err, sql.ErrNoRows):
		return "", false, fmt.Errorf("reading roadmap selection: %w", err)
	}

	startedAt = s.now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO roadmaps (owner_id, domain, started_at) VALUES (?, ?, ?)`,
		owner, domain, startedAt,
	); err != nil {
		return "", false, fmt.Errorf("selecting roadmap: %w", err)
	}
	return startedAt, false, nil
}

// ActiveRoadmap returns the owner's most recently selected roadmap.
func (s *Store) ActiveRoadmap(ctx context.Context, owner string) (domain, startedAt string, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT domain, started_at FROM roadmaps WHERE owner_id = ?
		 ORDER BY started_at DESC, rowid DESC LIMIT 1`, owner,
	).Scan(&domain, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("owner %q: %w", owner, ErrNoRoadmap)
	}
	if err != nil {
		return "", "", fmt.Errorf("reading active roadmap: %w", err)
	}
	return domain, startedAt, nil
}

// MilestoneStates returns the recorded milestone progress for one of the
// owner's roadmaps, keyed by milestone id.
func (s *Store) MilestoneStates(ctx context.Context, owner, domain string) (map[string]types.MilestoneState, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT milestone_id, status, started_at, completed_at
		 FROM roadmap_progress WHERE owner_id = ? AND domain = ?`, owner, domain)
	if err != nil {
		return nil, fmt.Errorf("querying roadmap progress: %w", err)
	}
	defer rows.Close()

	out := make(map[string]types.MilestoneState)
	for rows.Next() {
		var (
			id, status         string
			started, completed sql.NullString
		)
		if err := rows.Scan(&id, &status, &started, &completed); err != nil {
			return nil, fmt.Errorf("scanning roadmap progress: %w", err)
		}
		out[id] = types.MilestoneState{
			Status:      types.MilestoneStatus(status),
			StartedAt:   started.String,
			CompletedAt: completed.String,
		}
	}
	return out, rows.Err()
}

// SetMilestoneStatus records status for one milestone and returns the
// stored state.
func (s *Store) SetMilestoneStatus(ctx context.Context, owner, domain, milestoneID string, status types.MilestoneStatus) (types.MilestoneState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.MilestoneState{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		prev               types.MilestoneState
		prevStatus         string
		started, completed sql.NullString
	)
	err = tx.QueryRowContext(ctx,
		`SELECT status, started_at, completed_at FROM roadmap_progress
		 WHERE owner_id = ? AND domain = ? AND milestone_id = ?`, owner, domain, milestoneID,
	).Scan(&prevStatus, &started, &completed)
	switch {
	case err == nil:
		prev = types.MilestoneState{Status: types.MilestoneStatus(prevStatus), StartedAt: started.String, CompletedAt: completed.String}
	case errors.Is(err, sql.ErrNoRows):
		prev = types.MilestoneState{Status: types.StatusNotStarted}
	default:
		return types.MilestoneState{}, fmt.Errorf("reading milestone %s: %w", milestoneID, err)
	}

	next := nextState(prev, status, s.now().UTC().Format(time.RFC3339))
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO roadmap_progress (owner_id, domain, milestone_id, status, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner_id, domain, milestone_id) DO UPDATE SET
			status=excluded.status, started_at=excluded.started_at, completed_at=excluded.completed_at`,
		owner, domain, milestoneID, string(next.Status), nullable(next.StartedAt), nullable(next.CompletedAt),
	); err != nil {
		return types.MilestoneState{}, fmt.Errorf("updating milestone %s: %w", milestoneID, err)
	}

	if err := tx.Commit(); err != nil {
		return types.MilestoneState{}, fmt.Errorf("committing milestone update: %w", err)
	}
	return next, nil
}

// nextState applies a status change. Starting or completing keeps the
// first start time; completing stamps the completion time; leaving
// completed clears it; resetting to not_started clears both.
func nextState(prev types.MilestoneState, status types.MilestoneStatus, now string) types.MilestoneState {
	next := types.MilestoneState{Status: status, StartedAt: prev.StartedAt}
	switch status {
	case types.StatusNotStarted:
		next.StartedAt = ""
	case types.StatusInProgress:
		if next.StartedAt == "" {
			next.StartedAt = now
		}
	case types.StatusCompleted:
		if next.StartedAt == "" {
			next.StartedAt = now
		}
		next.CompletedAt = prev.CompletedAt
		if prev.Status != types.StatusCompleted || next.CompletedAt == "" {
			next.CompletedAt = now
		}
	}
	return next
}

// RemoveRoadmaps deletes every roadmap selection and all progress for
// the owner. It returns the number of selections removed.
func (s *Store) RemoveRoadmaps(ctx context.Context, owner string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM roadmap_progress WHERE owner_id = ?`, owner); err != nil {
		return 0, fmt.Errorf("deleting roadmap progress: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM roadmaps WHERE owner_id = ?`, owner)
	if err != nil {
		return 0, fmt.Errorf("deleting roadmaps: %w", err)
	}
	n, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing roadmap removal: %w", err)
	}
	return int(n), nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
