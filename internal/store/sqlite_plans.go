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

// CreatePlan inserts a plan together with its seed bundle in one transaction.
// Skill rows are inserted root-first so children can reference the root ID.
func (s *SQLiteStore) CreatePlan(ctx context.Context, seed devplan.SeedBundle) (*types.PlanBundle, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := nowUTC()
	nowStr := now.Format(time.RFC3339)
	planID := ulid.Make().String()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO plans (id, user_id, title, description, category, start_date, target_date, progress, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`, planID, seed.Plan.UserID, seed.Plan.Title, seed.Plan.Description, seed.Plan.Category,
		seed.Plan.StartDate, seed.Plan.TargetDate, nowStr, nowStr)
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}

	for _, m := range seed.Milestones {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO milestones (id, plan_id, title, description, completed, due_date, completed_date, is_custom, created_at)
			VALUES (?, ?, ?, ?, 0, ?, NULL, 0, ?)
		`, ulid.Make().String(), planID, m.Title, m.Description, strNull(m.DueDate), nowStr)
		if err != nil {
			return nil, fmt.Errorf("insert seed milestone: %w", err)
		}
	}

	for _, h := range seed.Habits {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO habits (id, plan_id, title, description, frequency, time_of_day, streak, last_completed, linked_skill_id, is_custom, created_at)
			VALUES (?, ?, ?, ?, ?, ?, 0, NULL, NULL, 0, ?)
		`, ulid.Make().String(), planID, h.Title, h.Description, h.Frequency, strNull(h.TimeOfDay), nowStr)
		if err != nil {
			return nil, fmt.Errorf("insert seed habit: %w", err)
		}
	}

	var rootID string
	for _, sk := range seed.Skills {
		id := ulid.Make().String()
		var parent any
		if sk.ParentRoot {
			parent = rootID
		} else {
			rootID = id
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO skills (id, plan_id, parent_id, name, level, progress, is_custom, created_at)
			VALUES (?, ?, ?, ?, 1, 0, 0, ?)
		`, id, planID, parent, sk.Name, nowStr)
		if err != nil {
			return nil, fmt.Errorf("insert seed skill: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return s.GetPlan(ctx, planID)
}

// GetPlan retrieves one plan assembled with milestones, habits and skill tree.
func (s *SQLiteStore) GetPlan(ctx context.Context, id string) (*types.PlanBundle, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, category, start_date, target_date, progress, created_at, updated_at
		FROM plans WHERE id = ?
	`, id)

	plan, err := scanPlan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}

	return s.assembleBundle(ctx, *plan)
}

// ListPlans retrieves all of a user's plans, fully assembled.
func (s *SQLiteStore) ListPlans(ctx context.Context, userID string) ([]types.PlanBundle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, category, start_date, target_date, progress, created_at, updated_at
		FROM plans WHERE user_id = ? ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var plans []types.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}

	bundles := []types.PlanBundle{}
	for _, plan := range plans {
		bundle, err := s.assembleBundle(ctx, plan)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, *bundle)
	}
	return bundles, nil
}

// DeletePlan removes a plan; milestones, habits and skills cascade.
func (s *SQLiteStore) DeletePlan(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM plans WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// assembleBundle loads a plan's dependents and reconstructs the skill tree.
// A plan with no skill rows gets the placeholder empty root.
func (s *SQLiteStore) assembleBundle(ctx context.Context, plan types.Plan) (*types.PlanBundle, error) {
	milestones, err := s.listMilestones(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	habits, err := s.listHabits(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	skills, err := s.ListSkills(ctx, plan.ID)
	if err != nil {
		return nil, err
	}

	tree := devplan.BuildSkillTree(skills)
	if tree == nil {
		tree = devplan.EmptyTree(plan.ID)
	}

	return &types.PlanBundle{
		Plan:       plan,
		Milestones: milestones,
		Habits:     habits,
		SkillTree:  tree,
	}, nil
}

// scanPlan scans a plans row from either *sql.Row or *sql.Rows.
func scanPlan(scanner interface{ Scan(...any) error }) (*types.Plan, error) {
	var p types.Plan
	var createdAt, updatedAt string

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&p.Category,
		&p.StartDate,
		&p.TargetDate,
		&p.Progress,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
