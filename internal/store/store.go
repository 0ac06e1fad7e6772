package store

import (
	"context"
	"time"

	"github.com/shalomhq/shalom/internal/devplan"
	"github.com/shalomhq/shalom/internal/types"
)

// Store defines the interface contract for all persistence operations.
type Store interface {
	// Development plans
	CreatePlan(ctx context.Context, seed devplan.SeedBundle) (*types.PlanBundle, error)
	ListPlans(ctx context.Context, userID string) ([]types.PlanBundle, error)
	GetPlan(ctx context.Context, id string) (*types.PlanBundle, error)
	DeletePlan(ctx context.Context, id string) error

	// Milestones. Mutations return the recalculated plan progress.
	AddMilestone(ctx context.Context, planID string, m types.Milestone) (*types.Milestone, int, error)
	UpdateMilestone(ctx context.Context, id string, req types.UpdateMilestoneRequest) (*types.Milestone, int, error)
	ToggleMilestone(ctx context.Context, id string, today time.Time) (*types.Milestone, int, error)
	DeleteMilestone(ctx context.Context, id string) (int, error)

	// Habits
	AddHabit(ctx context.Context, planID string, h types.Habit) (*types.Habit, error)
	UpdateHabit(ctx context.Context, id string, req types.UpdateHabitRequest) (*types.Habit, error)
	CompleteHabit(ctx context.Context, id string, today time.Time) (*types.Habit, error)
	DeleteHabit(ctx context.Context, id string) error

	// Skills
	AddSkill(ctx context.Context, planID, parentID, name string) (*types.Skill, error)
	UpdateSkillProgress(ctx context.Context, id string, progress int) (*types.Skill, error)
	DeleteSkill(ctx context.Context, id string) error
	ListSkills(ctx context.Context, planID string) ([]types.Skill, error)

	// Finance
	AddTransaction(ctx context.Context, tx types.Transaction) (*types.Transaction, error)
	ListTransactions(ctx context.Context, userID, month string) ([]types.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	AddFinancialGoal(ctx context.Context, g types.FinancialGoal) (*types.FinancialGoal, error)
	UpdateFinancialGoal(ctx context.Context, id string, req types.UpdateFinancialGoalRequest) (*types.FinancialGoal, error)
	ListFinancialGoals(ctx context.Context, userID string) ([]types.FinancialGoal, error)
	DeleteFinancialGoal(ctx context.Context, id string) error
	AddCategory(ctx context.Context, c types.FinanceCategory) (*types.FinanceCategory, error)
	ListCategories(ctx context.Context, userID string) ([]types.FinanceCategory, error)
	GetCategory(ctx context.Context, userID, name string) (*types.FinanceCategory, error)
	ExportDataset(ctx context.Context, userID string) (types.Dataset, error)
	ReplaceFinanceData(ctx context.Context, userID string, ds types.Dataset) error

	// Emotions
	AddEmotionEntry(ctx context.Context, e types.EmotionEntry) (*types.EmotionEntry, error)
	ListEmotionEntries(ctx context.Context, userID string, since time.Time) ([]types.EmotionEntry, error)
	DeleteEmotionEntry(ctx context.Context, id string) error

	// Scratch documents
	GetDocument(ctx context.Context, userID, namespace, key string) (*types.Document, error)
	PutDocument(ctx context.Context, doc types.Document) (*types.Document, error)
	DeleteDocument(ctx context.Context, userID, namespace, key string) error
	ListDocuments(ctx context.Context, userID, namespace string) ([]types.Document, error)

	// Aggregates
	ListUsers(ctx context.Context) ([]string, error)
	GetStats(ctx context.Context) (*types.StoreStats, error)
	Close() error
}
