// Package history derives read-only views from persisted workout sessions.
// Every function is pure: history is expected most-recent-first, as returned by the gateway.
package history

import (
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
)

// UnknownExerciseName labels sessions whose exercise is missing from the catalog.
const UnknownExerciseName = "Unknown exercise"

// DisplayDateLayout formats SeriesPoint.DisplayDate.
const DisplayDateLayout = "2006-01-02"

// Window sizes used by the home and stats screens.
const (
	RecentWindow = 3
	StatsWindow  = 7
)

// SeriesPoint is one bar of the volume chart.
type SeriesPoint struct {
	Label       string  `json:"label"`
	Volume      float64 `json:"volume"`
	DisplayDate string  `json:"displayDate"`
}

// RecentEntry is a session summary for the home screen.
type RecentEntry struct {
	SessionID    string    `json:"sessionId"`
	ExerciseName string    `json:"exerciseName"`
	Date         time.Time `json:"date"`
	SetCount     int       `json:"setCount"`
}

// Summary is the statistics screen view model.
type Summary struct {
	TotalWorkouts int           `json:"totalWorkouts"`
	TotalVolume   float64       `json:"totalVolume"`
	Series        []SeriesPoint `json:"series"`
}

// RecentSessions returns the first n sessions. It does not sort.
func RecentSessions(history []domain.WorkoutSession, n int) []domain.WorkoutSession {
	if n <= 0 {
		return []domain.WorkoutSession{}
	}
	if n > len(history) {
		n = len(history)
	}
	out := make([]domain.WorkoutSession, n)
	copy(out, history[:n])
	return out
}

// SessionVolume is the sum of reps*weight over the session's sets.
func SessionVolume(session domain.WorkoutSession) float64 {
	var volume float64
	for _, s := range session.Sets {
		volume += s.Volume()
	}
	return volume
}

// TotalVolume sums SessionVolume over the history.
func TotalVolume(history []domain.WorkoutSession) float64 {
	var total float64
	for _, s := range history {
		total += SessionVolume(s)
	}
	return total
}

// ResolveExerciseName looks up an exercise name by id, never failing.
func ResolveExerciseName(exercises []domain.Exercise, exerciseID string) string {
	for _, ex := range exercises {
		if ex.ID == exerciseID {
			return ex.Name
		}
	}
	return UnknownExerciseName
}

// WindowedSeries takes the windowSize most recent sessions and returns them
// oldest first, labelled with a short exercise name.
func WindowedSeries(history []domain.WorkoutSession, exercises []domain.Exercise, windowSize int) []SeriesPoint {
	recent := RecentSessions(history, windowSize)
	series := make([]SeriesPoint, len(recent))
	for i, s := range recent {
		series[len(recent)-1-i] = SeriesPoint{
			Label:       ShortLabel(ResolveExerciseName(exercises, s.ExerciseID)),
			Volume:      SessionVolume(s),
			DisplayDate: s.Date.Format(DisplayDateLayout),
		}
	}
	return series
}

// ShortLabel keeps the first two whitespace-separated words of name.
func ShortLabel(name string) string {
	fields := strings.Fields(name)
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return strings.Join(fields, " ")
}

// Recent builds the home screen list of the n latest sessions.
func Recent(history []domain.WorkoutSession, exercises []domain.Exercise, n int) []RecentEntry {
	recent := RecentSessions(history, n)
	entries := make([]RecentEntry, 0, len(recent))
	for _, s := range recent {
		entries = append(entries, RecentEntry{
			SessionID:    s.ID,
			ExerciseName: ResolveExerciseName(exercises, s.ExerciseID),
			Date:         s.Date,
			SetCount:     len(s.Sets),
		})
	}
	return entries
}

// Summarize builds the statistics screen view model.
func Summarize(history []domain.WorkoutSession, exercises []domain.Exercise, windowSize int) Summary {
	return Summary{
		TotalWorkouts: len(history),
		TotalVolume:   TotalVolume(history),
		Series:        WindowedSeries(history, exercises, windowSize),
	}
}
