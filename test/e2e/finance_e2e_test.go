package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/shalomhq/shalom/pkg/shalom"
)

func TestFinanceRoundTrip(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.client.AddTransaction(ctx, shalom.NewTransactionParams{
		UserID:      "user-1",
		Type:        "income",
		Amount:      3000,
		Category:    "Salário",
		Description: "Salário de março",
		Date:        "2026-03-01",
	})
	if err != nil {
		t.Fatalf("AddTransaction(income) error = %v", err)
	}

	_, err = env.client.AddTransaction(ctx, shalom.NewTransactionParams{
		UserID:    "user-1",
		Type:      "expense",
		Amount:    1200,
		Category:  "Aluguel",
		Date:      "2026-03-05",
		Recurring: true,
	})
	if err != nil {
		t.Fatalf("AddTransaction(expense) error = %v", err)
	}

	summary, err := env.client.FinanceSummary(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("FinanceSummary() error = %v", err)
	}
	if summary.TotalIncome != 3000 || summary.TotalExpenses != 1200 {
		t.Errorf("income=%v expenses=%v", summary.TotalIncome, summary.TotalExpenses)
	}
	if summary.Balance != 1800 {
		t.Errorf("balance = %v, want 1800", summary.Balance)
	}
	if summary.SavingsRate != 60 {
		t.Errorf("savings rate = %d, want 60", summary.SavingsRate)
	}
	if summary.ByCategory["Aluguel"] != 1200 {
		t.Errorf("by_category = %+v", summary.ByCategory)
	}

	// A second user's ledger must survive user-1's import untouched.
	_, err = env.client.AddTransaction(ctx, shalom.NewTransactionParams{
		UserID:   "user-2",
		Type:     "expense",
		Amount:   80,
		Category: "Mercado",
		Date:     "2026-03-02",
	})
	if err != nil {
		t.Fatalf("AddTransaction(user-2) error = %v", err)
	}

	// Backup, wipe, restore.
	payload, err := env.client.ExportFinance(ctx, "user-1")
	if err != nil {
		t.Fatalf("ExportFinance() error = %v", err)
	}
	if !strings.Contains(string(payload), `"userId"`) {
		t.Error("export payload not camelCase")
	}

	if err := env.client.ImportFinance(ctx, "user-1", []byte(`{}`)); err != nil {
		t.Fatalf("ImportFinance(empty) error = %v", err)
	}
	wiped, err := env.client.ListTransactions(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(wiped) != 0 {
		t.Fatalf("transactions after wipe = %d, want 0", len(wiped))
	}

	if err := env.client.ImportFinance(ctx, "user-1", payload); err != nil {
		t.Fatalf("ImportFinance(restore) error = %v", err)
	}
	restored, err := env.client.ListTransactions(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(restored) != 2 {
		t.Fatalf("restored transactions = %d, want 2", len(restored))
	}

	summary, err = env.client.FinanceSummary(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("FinanceSummary() after restore error = %v", err)
	}
	if summary.Balance != 1800 {
		t.Errorf("restored balance = %v, want 1800", summary.Balance)
	}

	other, err := env.client.ListTransactions(ctx, "user-2", "")
	if err != nil {
		t.Fatalf("ListTransactions(user-2) error = %v", err)
	}
	if len(other) != 1 {
		t.Errorf("user-2 transactions = %d, want 1", len(other))
	}
}

func TestImportFinance_ReplacesExistingData(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.client.AddTransaction(ctx, shalom.NewTransactionParams{
		UserID:   "user-1",
		Type:     "expense",
		Amount:   50,
		Category: "Lazer",
		Date:     "2026-02-10",
	})
	if err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}

	// An export with no transactions array means "empty": import wipes the ledger.
	empty, err := json.Marshal(map[string]any{"goals": []any{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := env.client.ImportFinance(ctx, "user-1", empty); err != nil {
		t.Fatalf("ImportFinance() error = %v", err)
	}

	txs, err := env.client.ListTransactions(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("transactions after empty import = %d, want 0", len(txs))
	}
}

func TestImportFinance_UnconfirmedRequestLeavesDataIntact(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.client.AddTransaction(ctx, shalom.NewTransactionParams{
		UserID:   "user-1",
		Type:     "income",
		Amount:   500,
		Category: "Freela",
		Date:     "2026-03-10",
	})
	if err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}

	// The SDK always confirms, so drive the endpoint directly without the flag.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		env.baseURL+"/api/v1/finance/import?user_id=user-1",
		strings.NewReader(`{"transactions":[],"goals":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("import request error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unconfirmed import status = %d, want 422", resp.StatusCode)
	}

	txs, err := env.client.ListTransactions(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("transactions after refused import = %d, want 1", len(txs))
	}
}

func TestListTransactions_MonthFilter(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	for _, date := range []string{"2026-03-01", "2026-03-15", "2026-04-02"} {
		_, err := env.client.AddTransaction(ctx, shalom.NewTransactionParams{
			UserID:   "user-1",
			Type:     "expense",
			Amount:   10,
			Category: "Café",
			Date:     date,
		})
		if err != nil {
			t.Fatalf("AddTransaction(%s) error = %v", date, err)
		}
	}

	march, err := env.client.ListTransactions(ctx, "user-1", "2026-03")
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(march) != 2 {
		t.Errorf("march transactions = %d, want 2", len(march))
	}
}
