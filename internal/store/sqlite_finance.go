package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/shalomhq/shalom/internal/types"
)

const transactionColumns = "id, user_id, type, amount, category, description, date, recurring, created_at"
const goalColumns = "id, user_id, name, target_amount, current_amount, deadline, created_at"
const categoryColumns = "id, user_id, name, type, created_at"

// AddTransaction records a ledger row.
func (s *SQLiteStore) AddTransaction(ctx context.Context, t types.Transaction) (*types.Transaction, error) {
	t.ID = ulid.Make().String()
	t.CreatedAt = nowUTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, category, description, date, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.Type, t.Amount, t.Category, t.Description, t.Date, t.Recurring, t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return &t, nil
}

// ListTransactions returns a user's transactions, optionally filtered to one
// "YYYY-MM" month, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID, month string) ([]types.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE user_id = ?"
	args := []any{userID}
	if month != "" {
		query += " AND date LIKE ?"
		args = append(args, month+"-%")
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []types.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

// DeleteTransaction removes a ledger row.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "transactions", id)
}

// AddFinancialGoal creates a savings target.
func (s *SQLiteStore) AddFinancialGoal(ctx context.Context, g types.FinancialGoal) (*types.FinancialGoal, error) {
	g.ID = ulid.Make().String()
	g.CreatedAt = nowUTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO financial_goals (id, user_id, name, target_amount, current_amount, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, strNull(g.Deadline), g.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert financial goal: %w", err)
	}
	return &g, nil
}

// UpdateFinancialGoal edits goal fields.
func (s *SQLiteStore) UpdateFinancialGoal(ctx context.Context, id string, req types.UpdateFinancialGoalRequest) (*types.FinancialGoal, error) {
	current, err := s.getFinancialGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	name := current.Name
	if req.Name != nil {
		name = *req.Name
	}
	target := current.TargetAmount
	if req.TargetAmount != nil {
		target = *req.TargetAmount
	}
	currentAmount := current.CurrentAmount
	if req.CurrentAmount != nil {
		currentAmount = *req.CurrentAmount
	}
	deadline := current.Deadline
	if req.Deadline != nil {
		deadline = req.Deadline
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE financial_goals SET name = ?, target_amount = ?, current_amount = ?, deadline = ? WHERE id = ?
	`, name, target, currentAmount, strNull(deadline), id)
	if err != nil {
		return nil, fmt.Errorf("update financial goal: %w", err)
	}

	return s.getFinancialGoal(ctx, id)
}

// ListFinancialGoals returns a user's goals in creation order.
func (s *SQLiteStore) ListFinancialGoals(ctx context.Context, userID string) ([]types.FinancialGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+goalColumns+" FROM financial_goals WHERE user_id = ? ORDER BY created_at ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("query financial goals: %w", err)
	}
	defer rows.Close()

	goals := []types.FinancialGoal{}
	for rows.Next() {
		g, err := scanFinancialGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan financial goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// DeleteFinancialGoal removes a goal.
func (s *SQLiteStore) DeleteFinancialGoal(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "financial_goals", id)
}

// AddCategory creates a finance category.
func (s *SQLiteStore) AddCategory(ctx context.Context, c types.FinanceCategory) (*types.FinanceCategory, error) {
	c.ID = ulid.Make().String()
	c.CreatedAt = nowUTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO finance_categories (id, user_id, name, type, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.UserID, c.Name, c.Type, c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicateCategory
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &c, nil
}

// ListCategories returns a user's categories sorted by name.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]types.FinanceCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM finance_categories WHERE user_id = ? ORDER BY name ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []types.FinanceCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// GetCategory looks a category up by name.
func (s *SQLiteStore) GetCategory(ctx context.Context, userID, name string) (*types.FinanceCategory, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM finance_categories WHERE user_id = ? AND name = ?", userID, name)
	c, err := scanCategory(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

// ExportDataset collects a user's finance rows and diary documents.
func (s *SQLiteStore) ExportDataset(ctx context.Context, userID string) (types.Dataset, error) {
	transactions, err := s.ListTransactions(ctx, userID, "")
	if err != nil {
		return types.Dataset{}, err
	}
	goals, err := s.ListFinancialGoals(ctx, userID)
	if err != nil {
		return types.Dataset{}, err
	}
	categories, err := s.ListCategories(ctx, userID)
	if err != nil {
		return types.Dataset{}, err
	}
	diary, err := s.ListDocuments(ctx, userID, "diary")
	if err != nil {
		return types.Dataset{}, err
	}

	return types.Dataset{
		Transactions: transactions,
		Goals:        goals,
		Categories:   categories,
		Diary:        diary,
	}, nil
}

// ReplaceFinanceData wholesale-replaces a user's finance rows and diary
// documents with the imported dataset, in one transaction. Row IDs from the
// import are kept when present so re-imports are stable.
func (s *SQLiteStore) ReplaceFinanceData(ctx context.Context, userID string, ds types.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "financial_goals", "finance_categories"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM kv_documents WHERE user_id = ? AND namespace = 'diary'", userID); err != nil {
		return fmt.Errorf("clear diary: %w", err)
	}

	now := nowUTC().Format(time.RFC3339)

	for _, t := range ds.Transactions {
		if t.ID == "" {
			t.ID = ulid.Make().String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, user_id, type, amount, category, description, date, recurring, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, userID, t.Type, t.Amount, t.Category, t.Description, t.Date, t.Recurring, now)
		if err != nil {
			return fmt.Errorf("import transaction: %w", err)
		}
	}
	for _, g := range ds.Goals {
		if g.ID == "" {
			g.ID = ulid.Make().String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO financial_goals (id, user_id, name, target_amount, current_amount, deadline, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, g.ID, userID, g.Name, g.TargetAmount, g.CurrentAmount, strNull(g.Deadline), now)
		if err != nil {
			return fmt.Errorf("import goal: %w", err)
		}
	}
	for _, c := range ds.Categories {
		if c.ID == "" {
			c.ID = ulid.Make().String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO finance_categories (id, user_id, name, type, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, c.ID, userID, c.Name, c.Type, now)
		if err != nil {
			return fmt.Errorf("import category: %w", err)
		}
	}
	for _, d := range ds.Diary {
		value := string(d.Value)
		if value == "" {
			value = "null"
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO kv_documents (user_id, namespace, key, value, updated_at)
			VALUES (?, 'diary', ?, ?, ?)
		`, userID, d.Key, value, now)
		if err != nil {
			return fmt.Errorf("import diary entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// deleteByID removes a row from the given table, mapping zero rows to ErrNotFound.
func (s *SQLiteStore) deleteByID(ctx context.Context, table, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
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

func (s *SQLiteStore) getFinancialGoal(ctx context.Context, id string) (*types.FinancialGoal, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+goalColumns+" FROM financial_goals WHERE id = ?", id)
	g, err := scanFinancialGoal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan financial goal: %w", err)
	}
	return g, nil
}

func scanTransaction(scanner interface{ Scan(...any) error }) (*types.Transaction, error) {
	var t types.Transaction
	var createdAt string

	err := scanner.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Date, &t.Recurring, &createdAt)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = parseTime(createdAt)
	return &t, nil
}

func scanFinancialGoal(scanner interface{ Scan(...any) error }) (*types.FinancialGoal, error) {
	var g types.FinancialGoal
	var deadline sql.NullString
	var createdAt string

	err := scanner.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline, &createdAt)
	if err != nil {
		return nil, err
	}
	g.Deadline = nullStr(deadline)
	g.CreatedAt = parseTime(createdAt)
	return &g, nil
}

func scanCategory(scanner interface{ Scan(...any) error }) (*types.FinanceCategory, error) {
	var c types.FinanceCategory
	var createdAt string

	err := scanner.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &createdAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}
