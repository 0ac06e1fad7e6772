package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/shalomhq/shalom/internal/devplan"
	"github.com/shalomhq/shalom/internal/types"
)

const milestoneColumns = "id, plan_id, title, description, completed, due_date, completed_date, is_custom, created_at"

// AddMilestone inserts a user-added milestone and recalculates plan progress
// in the same transaction.
func (s *SQLiteStore) AddMilestone(ctx context.Context, planID string, m types.Milestone) (*types.Milestone, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := planExists(ctx, tx, planID); err != nil {
		return nil, 0, err
	}

	id := ulid.Make().String()
	now := nowUTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO milestones (id, plan_id, title, description, completed, due_date, completed_date, is_custom, created_at)
		VALUES (?, ?, ?, ?, 0, ?, NULL, 1, ?)
	`, id, planID, m.Title, m.Description, strNull(m.DueDate), now)
	if err != nil {
		return nil, 0, fmt.Errorf("insert milestone: %w", err)
	}

	progress, err := recalculatePlanProgress(ctx, tx, planID)
	if err != nil {
		return nil, 0, err
	}

	milestone, err := getMilestone(ctx, tx, id)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit transaction: %w", err)
	}
	return milestone, progress, nil
}

// UpdateMilestone edits title/description/due date. Completion state is only
// changed through ToggleMilestone. Progress is recalculated anyway so the
// returned value is always current.
func (s *SQLiteStore) UpdateMilestone(ctx context.Context, id string, req types.UpdateMilestoneRequest) (*types.Milestone, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getMilestone(ctx, tx, id)
	if err != nil {
		return nil, 0, err
	}

	title := current.Title
	if req.Title != nil {
		title = *req.Title
	}
	description := current.Description
	if req.Description != nil {
		description = *req.Description
	}
	dueDate := current.DueDate
	if req.DueDate != nil {
		dueDate = req.DueDate
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE milestones SET title = ?, description = ?, due_date = ? WHERE id = ?
	`, title, description, strNull(dueDate), id)
	if err != nil {
		return nil, 0, fmt.Errorf("update milestone: %w", err)
	}

	progress, err := recalculatePlanProgress(ctx, tx, current.PlanID)
	if err != nil {
		return nil, 0, err
	}

	milestone, err := getMilestone(ctx, tx, id)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit transaction: %w", err)
	}
	return milestone, progress, nil
}

// ToggleMilestone flips completed and completed_date together: false→true
// stamps today's date, true→false clears it. Plan progress is recalculated in
// the same transaction.
func (s *SQLiteStore) ToggleMilestone(ctx context.Context, id string, today time.Time) (*types.Milestone, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getMilestone(ctx, tx, id)
	if err != nil {
		return nil, 0, err
	}

	if current.Completed {
		_, err = tx.ExecContext(ctx, `
			UPDATE milestones SET completed = 0, completed_date = NULL WHERE id = ?
		`, id)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE milestones SET completed = 1, completed_date = ? WHERE id = ?
		`, today.UTC().Format(types.DateLayout), id)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("toggle milestone: %w", err)
	}

	progress, err := recalculatePlanProgress(ctx, tx, current.PlanID)
	if err != nil {
		return nil, 0, err
	}

	milestone, err := getMilestone(ctx, tx, id)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit transaction: %w", err)
	}
	return milestone, progress, nil
}

// DeleteMilestone removes a milestone and recalculates plan progress.
func (s *SQLiteStore) DeleteMilestone(ctx context.Context, id string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getMilestone(ctx, tx, id)
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM milestones WHERE id = ?", id); err != nil {
		return 0, fmt.Errorf("delete milestone: %w", err)
	}

	progress, err := recalculatePlanProgress(ctx, tx, current.PlanID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return progress, nil
}

// listMilestones returns a plan's milestones in creation order.
func (s *SQLiteStore) listMilestones(ctx context.Context, planID string) ([]types.Milestone, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+milestoneColumns+" FROM milestones WHERE plan_id = ? ORDER BY created_at ASC, id ASC", planID)
	if err != nil {
		return nil, fmt.Errorf("query milestones: %w", err)
	}
	defer rows.Close()

	milestones := []types.Milestone{}
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		milestones = append(milestones, *m)
	}
	return milestones, rows.Err()
}

// querier abstracts *sql.DB and *sql.Tx for shared helpers.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// getMilestone loads one milestone within a transaction.
func getMilestone(ctx context.Context, q querier, id string) (*types.Milestone, error) {
	row := q.QueryRowContext(ctx, "SELECT "+milestoneColumns+" FROM milestones WHERE id = ?", id)
	m, err := scanMilestone(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan milestone: %w", err)
	}
	return m, nil
}

// planExists verifies a plan row is present.
func planExists(ctx context.Context, q querier, planID string) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM plans WHERE id = ?", planID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// recalculatePlanProgress recomputes and persists a plan's progress from its
// milestone counts. Runs inside the caller's transaction so every milestone
// mutation updates progress atomically.
func recalculatePlanProgress(ctx context.Context, q querier, planID string) (int, error) {
	var total, completed int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM milestones WHERE plan_id = ?
	`, planID).Scan(&total, &completed)
	if err != nil {
		return 0, fmt.Errorf("count milestones: %w", err)
	}

	progress := devplan.Progress(completed, total)
	_, err = q.ExecContext(ctx, `
		UPDATE plans SET progress = ?, updated_at = ? WHERE id = ?
	`, progress, nowUTC().Format(time.RFC3339), planID)
	if err != nil {
		return 0, fmt.Errorf("update plan progress: %w", err)
	}
	return progress, nil
}

// scanMilestone scans a milestones row.
func scanMilestone(scanner interface{ Scan(...any) error }) (*types.Milestone, error) {
	var m types.Milestone
	var dueDate, completedDate sql.NullString
	var createdAt string

	err := scanner.Scan(
		&m.ID,
		&m.PlanID,
		&m.Title,
		&m.Description,
		&m.Completed,
		&dueDate,
		&completedDate,
		&m.IsCustom,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	m.DueDate = nullStr(dueDate)
	m.CompletedDate = nullStr(completedDate)
	m.CreatedAt = parseTime(createdAt)
	return &m, nil
}
