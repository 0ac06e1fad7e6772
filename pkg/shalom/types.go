package shalom

import (
	"encoding/json"
	"time"
)

// Plan is a development plan as served by the API.
type Plan struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	StartDate   string    `json:"start_date"`
	TargetDate  string    `json:"target_date"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Milestone is a checkable goal within a plan.
type Milestone struct {
	ID            string    `json:"id"`
	PlanID        string    `json:"plan_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Completed     bool      `json:"completed"`
	DueDate       *string   `json:"due_date"`
	CompletedDate *string   `json:"completed_date"`
	IsCustom      bool      `json:"is_custom"`
	CreatedAt     time.Time `json:"created_at"`
}

// Habit is a recurring action with a day-granularity streak.
type Habit struct {
	ID            string    `json:"id"`
	PlanID        string    `json:"plan_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Frequency     string    `json:"frequency"`
	TimeOfDay     *string   `json:"time_of_day"`
	Streak        int       `json:"streak"`
	LastCompleted *string   `json:"last_completed"`
	LinkedSkillID *string   `json:"linked_skill_id"`
	IsCustom      bool      `json:"is_custom"`
	CreatedAt     time.Time `json:"created_at"`
}

// Skill is one node of a plan's proficiency hierarchy.
type Skill struct {
	ID        string    `json:"id"`
	PlanID    string    `json:"plan_id"`
	ParentID  *string   `json:"parent_id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	Progress  int       `json:"progress"`
	IsCustom  bool      `json:"is_custom"`
	CreatedAt time.Time `json:"created_at"`
}

// SkillNode is a skill with its children materialized.
type SkillNode struct {
	Skill
	Children []*SkillNode `json:"children"`
}

// PlanBundle is a plan with all its dependents.
type PlanBundle struct {
	Plan
	Milestones []Milestone `json:"milestones"`
	Habits     []Habit     `json:"habits"`
	SkillTree  *SkillNode  `json:"skill_tree"`
}

// NewPlanParams creates a plan plus its seeded milestones, habits and skills.
type NewPlanParams struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	TargetDate  string `json:"target_date"`
}

// MilestoneResult is a milestone plus the recalculated plan progress.
type MilestoneResult struct {
	Milestone    Milestone `json:"milestone"`
	PlanProgress int       `json:"plan_progress"`
}

// Transaction is a single ledger row.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Recurring   bool      `json:"recurring"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTransactionParams records a ledger row.
type NewTransactionParams struct {
	UserID      string  `json:"user_id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Recurring   bool    `json:"recurring"`
}

// FinanceSummary holds the derived ledger aggregates.
type FinanceSummary struct {
	TotalIncome   float64            `json:"total_income"`
	TotalExpenses float64            `json:"total_expenses"`
	Balance       float64            `json:"balance"`
	SavingsRate   int                `json:"savings_rate"`
	ByCategory    map[string]float64 `json:"by_category"`
}

// EmotionEntry is one journaled emotional state.
type EmotionEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Emotion    string    `json:"emotion"`
	Intensity  int       `json:"intensity"`
	Note       string    `json:"note"`
	Triggers   []string  `json:"triggers"`
	Activities []string  `json:"activities"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewEmotionParams journals an emotional state.
type NewEmotionParams struct {
	UserID     string   `json:"user_id"`
	Emotion    string   `json:"emotion"`
	Intensity  int      `json:"intensity"`
	Note       string   `json:"note"`
	Triggers   []string `json:"triggers"`
	Activities []string `json:"activities"`
}

// Wellbeing reports the derived emotional aggregates.
type Wellbeing struct {
	Score   int `json:"score"`
	Streak  int `json:"streak"`
	Entries int `json:"entries"`
}

// Document is an opaque JSON blob in a per-user namespace.
type Document struct {
	UserID    string          `json:"user_id"`
	Namespace string          `json:"namespace"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ChatTurn is one prior exchange in an assistant conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Health is the health endpoint payload.
type Health struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	AssistantModel   string `json:"assistant_model"`
	PlanCount        int64  `json:"plan_count"`
	TransactionCount int64  `json:"transaction_count"`
	EmotionCount     int64  `json:"emotion_count"`
}

// FieldError is one invalid field in a validation problem.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is an RFC 7807 problem document returned by the service.
type APIError struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail"`
	Instance string       `json:"instance"`
	Errors   []FieldError `json:"errors,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Title + ": " + e.Detail
	}
	return e.Title
}
