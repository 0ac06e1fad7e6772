package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/shalomhq/shalom/internal/emotional"
	"github.com/shalomhq/shalom/internal/finance"
	"github.com/shalomhq/shalom/internal/store"
)

// recentEmotionLimit caps how many journal entries feed the profile's
// recent-emotions line.
const recentEmotionLimit = 5

// BuildProfile assembles the user-state summary handed to the assistant.
// Wellbeing looks at the last seven days; the savings rate at the current
// calendar month.
func BuildProfile(ctx context.Context, st store.Store, userID string, now time.Time) (Profile, error) {
	var p Profile

	entries, err := st.ListEmotionEntries(ctx, userID, time.Time{})
	if err != nil {
		return p, fmt.Errorf("load emotion entries: %w", err)
	}
	weekAgo := now.AddDate(0, 0, -7)
	recent := entries[:0:0]
	for _, e := range entries {
		if !e.RecordedAt.Before(weekAgo) {
			recent = append(recent, e)
		}
	}
	p.Wellbeing = emotional.WellbeingScore(recent)
	p.JournalStreak = emotional.JournalStreak(entries, now)
	for i, e := range entries {
		if i == recentEmotionLimit {
			break
		}
		p.RecentEmotions = append(p.RecentEmotions, e.Emotion)
	}

	plans, err := st.ListPlans(ctx, userID)
	if err != nil {
		return p, fmt.Errorf("load plans: %w", err)
	}
	p.PlanCount = len(plans)
	if len(plans) > 0 {
		total := 0
		for _, plan := range plans {
			total += plan.Progress
		}
		p.MeanProgress = total / len(plans)
	}

	transactions, err := st.ListTransactions(ctx, userID, now.Format("2006-01"))
	if err != nil {
		return p, fmt.Errorf("load transactions: %w", err)
	}
	p.SavingsRate = finance.Summary(transactions).SavingsRate

	goals, err := st.ListFinancialGoals(ctx, userID)
	if err != nil {
		return p, fmt.Errorf("load financial goals: %w", err)
	}
	for _, g := range goals {
		p.GoalNames = append(p.GoalNames, g.Name)
	}

	return p, nil
}
