// Package emotional derives wellbeing aggregates from journaled emotion
// entries. Aggregates are recomputed on every read, never stored.
package emotional

import (
	"math"
	"time"

	"github.com/shalomhq/shalom/internal/types"
)

// emotionWeights maps each emotion of the closed set to a signed weight.
// Positive emotions pull the score up, negative ones down.
var emotionWeights = map[string]float64{
	"happy":     1.0,
	"motivated": 0.9,
	"grateful":  0.8,
	"calm":      0.7,
	"neutral":   0,
	"tired":     -0.4,
	"anxious":   -0.6,
	"sad":       -0.8,
	"angry":     -0.9,
}

// Emotions lists the valid emotion tags.
var Emotions = []string{
	"happy", "motivated", "grateful", "calm", "neutral",
	"tired", "anxious", "sad", "angry",
}

// neutralScore is the baseline when no entries exist in the window.
const neutralScore = 50

// WellbeingScore computes a 0-100 score from weighted entry intensities.
// score = 50 + 5 * mean(weight * intensity), clamped. An unknown emotion tag
// contributes weight 0 rather than failing.
func WellbeingScore(entries []types.EmotionEntry) int {
	if len(entries) == 0 {
		return neutralScore
	}

	var sum float64
	for _, e := range entries {
		sum += emotionWeights[e.Emotion] * float64(e.Intensity)
	}
	score := neutralScore + 5*sum/float64(len(entries))

	return int(math.Round(math.Min(100, math.Max(0, score))))
}

// JournalStreak counts consecutive calendar days with at least one entry,
// walking back from today. A streak is still alive if the latest entry is
// yesterday (today's entry just hasn't happened yet).
func JournalStreak(entries []types.EmotionEntry, today time.Time) int {
	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		days[e.RecordedAt.UTC().Format(types.DateLayout)] = true
	}

	day := today.UTC()
	if !days[day.Format(types.DateLayout)] {
		day = day.AddDate(0, 0, -1)
		if !days[day.Format(types.DateLayout)] {
			return 0
		}
	}

	streak := 0
	for days[day.Format(types.DateLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// ValidEmotion reports whether tag is in the closed emotion set.
func ValidEmotion(tag string) bool {
	_, ok := emotionWeights[tag]
	return ok
}
