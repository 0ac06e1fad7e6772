package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shalomhq/shalom/internal/types"
)

// GetDocument retrieves one scratch document.
func (s *SQLiteStore) GetDocument(ctx context.Context, userID, namespace, key string) (*types.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, namespace, key, value, updated_at FROM kv_documents
		WHERE user_id = ? AND namespace = ? AND key = ?
	`, userID, namespace, key)

	doc, err := scanDocument(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return doc, nil
}

// PutDocument inserts or replaces a scratch document. The value must be
// well-formed JSON; its schema is the client's business.
func (s *SQLiteStore) PutDocument(ctx context.Context, doc types.Document) (*types.Document, error) {
	if !json.Valid(doc.Value) {
		return nil, fmt.Errorf("document value is not valid JSON")
	}
	doc.UpdatedAt = nowUTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_documents (user_id, namespace, key, value, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, doc.UserID, doc.Namespace, doc.Key, string(doc.Value), doc.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("upsert document: %w", err)
	}
	return &doc, nil
}

// DeleteDocument removes a scratch document.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, userID, namespace, key string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM kv_documents WHERE user_id = ? AND namespace = ? AND key = ?
	`, userID, namespace, key)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
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

// ListDocuments returns all of a user's documents in one namespace, by key.
func (s *SQLiteStore) ListDocuments(ctx context.Context, userID, namespace string) ([]types.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, namespace, key, value, updated_at FROM kv_documents
		WHERE user_id = ? AND namespace = ? ORDER BY key ASC
	`, userID, namespace)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []types.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func scanDocument(scanner interface{ Scan(...any) error }) (*types.Document, error) {
	var doc types.Document
	var value, updatedAt string

	err := scanner.Scan(&doc.UserID, &doc.Namespace, &doc.Key, &value, &updatedAt)
	if err != nil {
		return nil, err
	}
	doc.Value = json.RawMessage(value)
	doc.UpdatedAt = parseTime(updatedAt)
	return &doc, nil
}
