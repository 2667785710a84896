package gateway

import "fmt"

// Operation names carried by PersistenceError.
const (
	OpGetProfile    = "getProfile"
	OpUpdateProfile = "updateProfile"
	OpGetExercises  = "getExercises"
	OpAddExercise   = "addExercise"
	OpGetHistory    = "getHistory"
	OpSaveSession   = "saveSession"
)

// PersistenceError wraps a failure of the backing store.
// Orphaned is set by SaveSession when a session header was written,
// its sets were not, and the header could not be removed afterwards.
type PersistenceError struct {
	Op       string
	Err      error
	Orphaned bool
}

func (e *PersistenceError) Error() string {
	if e.Orphaned {
		return fmt.Sprintf("%s: %v (session header left orphaned)", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
