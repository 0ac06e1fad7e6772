package devplan

import "math"

// Progress computes a plan's completion percentage from its milestone counts.
// Zero milestones means zero progress; there is no division by zero.
func Progress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// SkillLevel derives a skill's level from its progress.
// Progress 0-100 maps to levels 1-6 in steps of 20.
func SkillLevel(progress int) int {
	return progress/20 + 1
}

// ClampProgress bounds a progress value to [0, 100].
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
