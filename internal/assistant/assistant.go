package assistant

import (
	"context"

	"github.com/shalomhq/shalom/internal/types"
)

// Profile summarizes a user's current state so the assistant can answer with
// real numbers instead of generic advice.
type Profile struct {
	Wellbeing      int
	JournalStreak  int
	PlanCount      int
	MeanProgress   int
	SavingsRate    int
	RecentEmotions []string
	GoalNames      []string
}

// Assistant defines the interface contract for chat completion services.
type Assistant interface {
	Chat(ctx context.Context, profile Profile, req types.ChatRequest) (string, error)
	ModelName() string
}
