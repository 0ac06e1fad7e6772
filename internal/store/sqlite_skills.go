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

const skillColumns = "id, plan_id, parent_id, name, level, progress, is_custom, created_at"

// AddSkill inserts a user-added skill under an existing parent in the same
// plan. Roots are created only by plan seeding, preserving the single-root
// invariant.
func (s *SQLiteStore) AddSkill(ctx context.Context, planID, parentID, name string) (*types.Skill, error) {
	parent, err := s.getSkill(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.PlanID != planID {
		return nil, ErrNotFound
	}

	id := ulid.Make().String()
	now := nowUTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO skills (id, plan_id, parent_id, name, level, progress, is_custom, created_at)
		VALUES (?, ?, ?, ?, 1, 0, 1, ?)
	`, id, planID, parentID, name, now)
	if err != nil {
		return nil, fmt.Errorf("insert skill: %w", err)
	}

	return s.getSkill(ctx, id)
}

// UpdateSkillProgress sets a skill's progress (clamped to 0-100) and
// rederives its level.
func (s *SQLiteStore) UpdateSkillProgress(ctx context.Context, id string, progress int) (*types.Skill, error) {
	progress = devplan.ClampProgress(progress)
	level := devplan.SkillLevel(progress)

	result, err := s.db.ExecContext(ctx, `
		UPDATE skills SET progress = ?, level = ? WHERE id = ?
	`, progress, level, id)
	if err != nil {
		return nil, fmt.Errorf("update skill progress: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.getSkill(ctx, id)
}

// DeleteSkill removes a non-root skill. Its children are re-parented to the
// deleted node's parent so the tree stays connected and single-rooted.
func (s *SQLiteStore) DeleteSkill(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, "SELECT "+skillColumns+" FROM skills WHERE id = ?", id)
	skill, err := scanSkill(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("scan skill: %w", err)
	}
	if skill.ParentID == nil {
		return ErrRootSkill
	}

	if _, err := tx.ExecContext(ctx, "UPDATE skills SET parent_id = ? WHERE parent_id = ?", *skill.ParentID, id); err != nil {
		return fmt.Errorf("reparent children: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM skills WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListSkills returns a plan's skill rows in creation order.
func (s *SQLiteStore) ListSkills(ctx context.Context, planID string) ([]types.Skill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+skillColumns+" FROM skills WHERE plan_id = ? ORDER BY created_at ASC, id ASC", planID)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	skills := []types.Skill{}
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, *sk)
	}
	return skills, rows.Err()
}

func (s *SQLiteStore) getSkill(ctx context.Context, id string) (*types.Skill, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+skillColumns+" FROM skills WHERE id = ?", id)
	sk, err := scanSkill(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan skill: %w", err)
	}
	return sk, nil
}

// scanSkill scans a skills row.
func scanSkill(scanner interface{ Scan(...any) error }) (*types.Skill, error) {
	var sk types.Skill
	var parentID sql.NullString
	var createdAt string

	err := scanner.Scan(
		&sk.ID,
		&sk.PlanID,
		&parentID,
		&sk.Name,
		&sk.Level,
		&sk.Progress,
		&sk.IsCustom,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	sk.ParentID = nullStr(parentID)
	sk.CreatedAt = parseTime(createdAt)
	return &sk, nil
}
