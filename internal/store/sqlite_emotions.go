package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/shalomhq/shalom/internal/types"
)

const emotionColumns = "id, user_id, emotion, intensity, note, triggers, activities, recorded_at"

// AddEmotionEntry journals an emotional state. Triggers and activities are
// stored as JSON arrays.
func (s *SQLiteStore) AddEmotionEntry(ctx context.Context, e types.EmotionEntry) (*types.EmotionEntry, error) {
	e.ID = ulid.Make().String()
	if e.RecordedAt.IsZero() {
		e.RecordedAt = nowUTC()
	}
	if e.Triggers == nil {
		e.Triggers = []string{}
	}
	if e.Activities == nil {
		e.Activities = []string{}
	}

	triggers, err := json.Marshal(e.Triggers)
	if err != nil {
		return nil, fmt.Errorf("marshal triggers: %w", err)
	}
	activities, err := json.Marshal(e.Activities)
	if err != nil {
		return nil, fmt.Errorf("marshal activities: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO emotion_entries (id, user_id, emotion, intensity, note, triggers, activities, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.UserID, e.Emotion, e.Intensity, e.Note, string(triggers), string(activities), e.RecordedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert emotion entry: %w", err)
	}
	return &e, nil
}

// ListEmotionEntries returns a user's entries recorded at or after since,
// newest first. A zero since returns everything.
func (s *SQLiteStore) ListEmotionEntries(ctx context.Context, userID string, since time.Time) ([]types.EmotionEntry, error) {
	query := "SELECT " + emotionColumns + " FROM emotion_entries WHERE user_id = ?"
	args := []any{userID}
	if !since.IsZero() {
		query += " AND recorded_at >= ?"
		args = append(args, since.UTC().Format(time.RFC3339))
	}
	query += " ORDER BY recorded_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query emotion entries: %w", err)
	}
	defer rows.Close()

	entries := []types.EmotionEntry{}
	for rows.Next() {
		var e types.EmotionEntry
		var triggers, activities, recordedAt string

		err := rows.Scan(&e.ID, &e.UserID, &e.Emotion, &e.Intensity, &e.Note, &triggers, &activities, &recordedAt)
		if err != nil {
			return nil, fmt.Errorf("scan emotion entry: %w", err)
		}

		if err := json.Unmarshal([]byte(triggers), &e.Triggers); err != nil {
			return nil, fmt.Errorf("parse triggers JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(activities), &e.Activities); err != nil {
			return nil, fmt.Errorf("parse activities JSON: %w", err)
		}
		e.RecordedAt = parseTime(recordedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteEmotionEntry removes a journal entry.
func (s *SQLiteStore) DeleteEmotionEntry(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "emotion_entries", id)
}
