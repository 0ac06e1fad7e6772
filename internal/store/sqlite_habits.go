package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/shalomhq/shalom/internal/types"
)

const habitColumns = "id, plan_id, title, description, frequency, time_of_day, streak, last_completed, linked_skill_id, is_custom, created_at"

// AddHabit inserts a user-added habit.
func (s *SQLiteStore) AddHabit(ctx context.Context, planID string, h types.Habit) (*types.Habit, error) {
	if err := planExists(ctx, s.db, planID); err != nil {
		return nil, err
	}

	id := ulid.Make().String()
	now := nowUTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (id, plan_id, title, description, frequency, time_of_day, streak, last_completed, linked_skill_id, is_custom, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, NULL, ?, 1, ?)
	`, id, planID, h.Title, h.Description, h.Frequency, strNull(h.TimeOfDay), strNull(h.LinkedSkillID), now)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}

	return s.getHabit(ctx, id)
}

// UpdateHabit edits habit fields; streak state is untouched.
func (s *SQLiteStore) UpdateHabit(ctx context.Context, id string, req types.UpdateHabitRequest) (*types.Habit, error) {
	current, err := s.getHabit(ctx, id)
	if err != nil {
		return nil, err
	}

	title := current.Title
	if req.Title != nil {
		title = *req.Title
	}
	description := current.Description
	if req.Description != nil {
		description = *req.Description
	}
	frequency := current.Frequency
	if req.Frequency != nil {
		frequency = types.Frequency(*req.Frequency)
	}
	timeOfDay := current.TimeOfDay
	if req.TimeOfDay != nil {
		timeOfDay = req.TimeOfDay
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE habits SET title = ?, description = ?, frequency = ?, time_of_day = ? WHERE id = ?
	`, title, description, frequency, strNull(timeOfDay), id)
	if err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}

	return s.getHabit(ctx, id)
}

// CompleteHabit marks a habit done for today, enforcing the once-per-day rule
// server-side. Completing on the day after the last completion extends the
// streak; a gap resets it to 1.
func (s *SQLiteStore) CompleteHabit(ctx context.Context, id string, today time.Time) (*types.Habit, error) {
	current, err := s.getHabit(ctx, id)
	if err != nil {
		return nil, err
	}

	todayStr := today.UTC().Format(types.DateLayout)
	yesterdayStr := today.UTC().AddDate(0, 0, -1).Format(types.DateLayout)

	if current.LastCompleted != nil && *current.LastCompleted == todayStr {
		return nil, ErrHabitAlreadyDone
	}

	streak := 1
	if current.LastCompleted != nil && *current.LastCompleted == yesterdayStr {
		streak = current.Streak + 1
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE habits SET streak = ?, last_completed = ? WHERE id = ?
	`, streak, todayStr, id)
	if err != nil {
		return nil, fmt.Errorf("complete habit: %w", err)
	}

	return s.getHabit(ctx, id)
}

// DeleteHabit removes a habit.
func (s *SQLiteStore) DeleteHabit(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
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

// listHabits returns a plan's habits in creation order.
func (s *SQLiteStore) listHabits(ctx context.Context, planID string) ([]types.Habit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+habitColumns+" FROM habits WHERE plan_id = ? ORDER BY created_at ASC, id ASC", planID)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	habits := []types.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (s *SQLiteStore) getHabit(ctx context.Context, id string) (*types.Habit, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+habitColumns+" FROM habits WHERE id = ?", id)
	h, err := scanHabit(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan habit: %w", err)
	}
	return h, nil
}

// scanHabit scans a habits row.
func scanHabit(scanner interface{ Scan(...any) error }) (*types.Habit, error) {
	var h types.Habit
	var timeOfDay, lastCompleted, linkedSkill sql.NullString
	var createdAt string

	err := scanner.Scan(
		&h.ID,
		&h.PlanID,
		&h.Title,
		&h.Description,
		&h.Frequency,
		&timeOfDay,
		&h.Streak,
		&lastCompleted,
		&linkedSkill,
		&h.IsCustom,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	h.TimeOfDay = nullStr(timeOfDay)
	h.LastCompleted = nullStr(lastCompleted)
	h.LinkedSkillID = nullStr(linkedSkill)
	h.CreatedAt = parseTime(createdAt)
	return &h, nil
}
