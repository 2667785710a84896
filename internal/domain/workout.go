package domain

import "time"

// Draft defaults for a freshly started logging flow.
const (
	DefaultReps   = 10
	DefaultWeight = 20.0
)

// WorkoutSet is one block of repetitions at a given weight (kg).
type WorkoutSet struct {
	ID        string  `json:"id"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

// Volume is reps multiplied by weight.
func (s WorkoutSet) Volume() float64 {
	return float64(s.Reps) * s.Weight
}

// WorkoutSession is a finalized logging event for a single exercise.
// Sessions are append-only: they are never edited after creation.
type WorkoutSession struct {
	ID         string       `json:"id"`
	Date       time.Time    `json:"date"`
	ExerciseID string       `json:"exerciseId"`
	Sets       []WorkoutSet `json:"sets"`
}

// IsLoggable reports whether a session has at least one set and every set is completed.
func IsLoggable(session WorkoutSession) bool {
	if len(session.Sets) == 0 {
		return false
	}
	for _, s := range session.Sets {
		if !s.Completed {
			return false
		}
	}
	return true
}
