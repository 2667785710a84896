// internal/domain/exercise.go
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// MuscleGroup is the closed category used to filter the exercise catalog.
type MuscleGroup string

const (
	MuscleChest     MuscleGroup = "Chest"
	MuscleBack      MuscleGroup = "Back"
	MuscleLegs      MuscleGroup = "Legs"
	MuscleShoulders MuscleGroup = "Shoulders"
	MuscleArms      MuscleGroup = "Arms"
	MuscleAbs       MuscleGroup = "Abs"
	MuscleCardio    MuscleGroup = "Cardio"
)

// MuscleGroups lists every valid muscle group in display order.
var MuscleGroups = []MuscleGroup{
	MuscleChest,
	MuscleBack,
	MuscleArms,
	MuscleLegs,
	MuscleShoulders,
	MuscleAbs,
	MuscleCardio,
}

// DefaultEquipment is used when a new exercise is created without equipment.
const DefaultEquipment = "General"

// Exercise represents a single exercise definition in the catalog.
type Exercise struct {
	ID          string      `bson:"_id" json:"id"`
	Name        string      `bson:"name" json:"name"`
	MuscleGroup MuscleGroup `bson:"muscleGroup" json:"muscleGroup"`
	Equipment   string      `bson:"equipment,omitempty" json:"equipment,omitempty"`
}

// IsValidMuscleGroup reports whether x is one of the known muscle groups.
func IsValidMuscleGroup(x MuscleGroup) bool {
	for _, m := range MuscleGroups {
		if m == x {
			return true
		}
	}
	return false
}

// NewExercise mints an exercise with a fresh id.
// The name is trimmed and must not be empty; equipment falls back to DefaultEquipment.
func NewExercise(name string, muscleGroup MuscleGroup, equipment string) (*Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "exercise name cannot be empty")
	}
	if !IsValidMuscleGroup(muscleGroup) {
		return nil, NewValidationError("muscleGroup", "unknown muscle group "+string(muscleGroup))
	}
	equipment = strings.TrimSpace(equipment)
	if equipment == "" {
		equipment = DefaultEquipment
	}
	return &Exercise{
		ID:          uuid.NewString(),
		Name:        name,
		MuscleGroup: muscleGroup,
		Equipment:   equipment,
	}, nil
}

// FilterByMuscle returns the exercises belonging to muscle.
// An empty muscle group returns the catalog unchanged.
func FilterByMuscle(exercises []Exercise, muscle MuscleGroup) []Exercise {
	if muscle == "" {
		return exercises
	}
	filtered := make([]Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if ex.MuscleGroup == muscle {
			filtered = append(filtered, ex)
		}
	}
	return filtered
}
