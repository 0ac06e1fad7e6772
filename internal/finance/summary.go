// Package finance derives ledger aggregates and owns the export/import
// dataset codec.
package finance

import (
	"math"
	"strings"

	"github.com/shalomhq/shalom/internal/types"
)

// Summary computes the ledger aggregates over the given transactions.
// Savings rate is (income - expenses) / income as a rounded percentage,
// zero when there is no income. ByCategory breaks down expenses only.
func Summary(transactions []types.Transaction) types.FinanceSummary {
	s := types.FinanceSummary{ByCategory: map[string]float64{}}

	for _, tx := range transactions {
		switch tx.Type {
		case types.TransactionIncome:
			s.TotalIncome += tx.Amount
		case types.TransactionExpense:
			s.TotalExpenses += tx.Amount
			s.ByCategory[tx.Category] += tx.Amount
		}
	}

	s.Balance = s.TotalIncome - s.TotalExpenses
	if s.TotalIncome > 0 {
		s.SavingsRate = int(math.Round(s.Balance / s.TotalIncome * 100))
	}
	return s
}

// FilterMonth keeps transactions whose date falls in the given "YYYY-MM"
// month. An empty month keeps everything.
func FilterMonth(transactions []types.Transaction, month string) []types.Transaction {
	if month == "" {
		return transactions
	}
	out := make([]types.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if strings.HasPrefix(tx.Date, month+"-") {
			out = append(out, tx)
		}
	}
	return out
}

// GoalProgress returns a goal's completion percentage, clamped to 100.
func GoalProgress(goal types.FinancialGoal) int {
	if goal.TargetAmount <= 0 {
		return 0
	}
	pct := int(math.Round(goal.CurrentAmount / goal.TargetAmount * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
