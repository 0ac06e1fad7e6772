// Package types defines the domain model and API request/response shapes.
package types

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format for calendar dates (no time component).
const DateLayout = "2006-01-02"

// Category identifies the kind of development plan.
type Category string

const (
	CategoryProgramming Category = "programming"
	CategoryLanguages   Category = "languages"
	CategoryExercises   Category = "exercises"
	CategoryOther       Category = "other"
)

// Categories lists all valid plan categories.
var Categories = []string{
	string(CategoryProgramming),
	string(CategoryLanguages),
	string(CategoryExercises),
	string(CategoryOther),
}

// Frequency is how often a habit recurs.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Frequencies lists all valid habit frequencies.
var Frequencies = []string{string(FrequencyDaily), string(FrequencyWeekly)}

// TransactionType tags a ledger row as money in or money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// TransactionTypes lists all valid transaction types.
var TransactionTypes = []string{string(TransactionIncome), string(TransactionExpense)}

// Plan is a user's development goal. Progress is derived from milestones and
// persisted; it is never set directly by clients.
type Plan struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	StartDate   string    `json:"start_date"`
	TargetDate  string    `json:"target_date"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Milestone is a discrete checkable goal within a plan.
// Completed and CompletedDate flip together: completed implies a date.
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

// Habit is a recurring action tracked by a day-granularity streak.
type Habit struct {
	ID            string    `json:"id"`
	PlanID        string    `json:"plan_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Frequency     Frequency `json:"frequency"`
	TimeOfDay     *string   `json:"time_of_day"`
	Streak        int       `json:"streak"`
	LastCompleted *string   `json:"last_completed"`
	LinkedSkillID *string   `json:"linked_skill_id"`
	IsCustom      bool      `json:"is_custom"`
	CreatedAt     time.Time `json:"created_at"`
}

// Skill is one node of a plan's proficiency hierarchy. Exactly one skill per
// plan has a nil ParentID (the root). Level is derived from Progress.
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

// SkillNode is a skill with its materialized children. The children list
// exists only in memory; it is never persisted.
type SkillNode struct {
	Skill
	Children []*SkillNode `json:"children"`
}

// PlanBundle is a plan assembled with all its dependents, as served to clients.
type PlanBundle struct {
	Plan
	Milestones []Milestone `json:"milestones"`
	Habits     []Habit     `json:"habits"`
	SkillTree  *SkillNode  `json:"skill_tree"`
}

// Transaction is a single ledger row.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Recurring   bool            `json:"recurring"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FinancialGoal is a savings target.
type FinancialGoal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	Deadline      *string   `json:"deadline"`
	CreatedAt     time.Time `json:"created_at"`
}

// FinanceCategory is a user-defined transaction category. Its type must match
// the type of every transaction filed under it.
type FinanceCategory struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
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

// Document is an opaque JSON blob in a per-user namespace. The schema is
// owned by the client; the service guarantees well-formed JSON only.
type Document struct {
	UserID    string          `json:"user_id"`
	Namespace string          `json:"namespace"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Namespaces is the closed set of scratch-data namespaces.
var Namespaces = []string{"community", "diary", "rewards", "journal"}

// Dataset is the export/import payload for a user's finance and diary data.
// Wholesale replacement on import; missing slices mean "empty".
type Dataset struct {
	Transactions []Transaction     `json:"transactions"`
	Goals        []FinancialGoal   `json:"goals"`
	Categories   []FinanceCategory `json:"categories"`
	Diary        []Document        `json:"diary"`
}

// FinanceSummary holds the derived ledger aggregates.
type FinanceSummary struct {
	TotalIncome   float64            `json:"total_income"`
	TotalExpenses float64            `json:"total_expenses"`
	Balance       float64            `json:"balance"`
	SavingsRate   int                `json:"savings_rate"`
	ByCategory    map[string]float64 `json:"by_category"`
}

// WellbeingResponse reports the derived emotional aggregates.
type WellbeingResponse struct {
	Score   int `json:"score"`
	Streak  int `json:"streak"`
	Entries int `json:"entries"`
}

// --- API request/response shapes ---

// NewPlanRequest creates a plan plus its seed bundle.
type NewPlanRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	TargetDate  string `json:"target_date"`
}

// NewMilestoneRequest adds a custom milestone to a plan.
type NewMilestoneRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
}

// UpdateMilestoneRequest edits milestone fields. Nil means "leave unchanged".
type UpdateMilestoneRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
}

// MilestoneResponse returns a milestone plus the recalculated plan progress.
type MilestoneResponse struct {
	Milestone    Milestone `json:"milestone"`
	PlanProgress int       `json:"plan_progress"`
}

// NewHabitRequest adds a custom habit to a plan.
type NewHabitRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Frequency     string  `json:"frequency"`
	TimeOfDay     *string `json:"time_of_day"`
	LinkedSkillID *string `json:"linked_skill_id"`
}

// UpdateHabitRequest edits habit fields. Nil means "leave unchanged".
type UpdateHabitRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
	TimeOfDay   *string `json:"time_of_day"`
}

// NewSkillRequest adds a custom skill under an existing parent.
type NewSkillRequest struct {
	ParentID string `json:"parent_id"`
	Name     string `json:"name"`
}

// SkillProgressRequest sets a skill's progress; level is rederived.
type SkillProgressRequest struct {
	Progress int `json:"progress"`
}

// NewTransactionRequest records a ledger row.
type NewTransactionRequest struct {
	UserID      string  `json:"user_id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Recurring   bool    `json:"recurring"`
}

// NewFinancialGoalRequest creates a savings target.
type NewFinancialGoalRequest struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	Deadline     *string `json:"deadline"`
}

// UpdateFinancialGoalRequest edits goal fields. Nil means "leave unchanged".
type UpdateFinancialGoalRequest struct {
	Name          *string  `json:"name"`
	TargetAmount  *float64 `json:"target_amount"`
	CurrentAmount *float64 `json:"current_amount"`
	Deadline      *string  `json:"deadline"`
}

// NewCategoryRequest creates a finance category.
type NewCategoryRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

// NewEmotionRequest journals an emotional state.
type NewEmotionRequest struct {
	UserID     string   `json:"user_id"`
	Emotion    string   `json:"emotion"`
	Intensity  int      `json:"intensity"`
	Note       string   `json:"note"`
	Triggers   []string `json:"triggers"`
	Activities []string `json:"activities"`
}

// ChatTurn is one prior exchange in an assistant conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a message to the assistant with optional prior turns.
type ChatRequest struct {
	UserID  string     `json:"user_id"`
	Message string     `json:"message"`
	History []ChatTurn `json:"history"`
}

// ChatResponse is the assistant's single reply.
type ChatResponse struct {
	Message string `json:"message"`
}

// StoreStats holds aggregate counts for the health endpoint.
type StoreStats struct {
	PlanCount        int64 `json:"plan_count"`
	TransactionCount int64 `json:"transaction_count"`
	EmotionCount     int64 `json:"emotion_count"`
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	AssistantModel   string `json:"assistant_model"`
	PlanCount        int64  `json:"plan_count"`
	TransactionCount int64  `json:"transaction_count"`
	EmotionCount     int64  `json:"emotion_count"`
}
