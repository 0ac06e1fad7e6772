package store

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrHabitAlreadyDone indicates a habit was already completed today.
	ErrHabitAlreadyDone = errors.New("habit already completed today")

	// ErrRootSkill indicates an operation not permitted on a plan's root skill.
	ErrRootSkill = errors.New("operation not permitted on root skill")

	// ErrDuplicateCategory indicates a category name already exists for the user.
	ErrDuplicateCategory = errors.New("category already exists")
)
