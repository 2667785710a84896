package domain

// defaultCatalog is served when the backend has no exercises yet.
var defaultCatalog = []Exercise{
	{ID: "1", Name: "Barbell Bench Press", MuscleGroup: MuscleChest, Equipment: "Barbell"},
	{ID: "2", Name: "Incline Dumbbell Press", MuscleGroup: MuscleChest, Equipment: "Dumbbell"},
	{ID: "3", Name: "Pull-up", MuscleGroup: MuscleBack, Equipment: "Bodyweight"},
	{ID: "4", Name: "Bent-over Barbell Row", MuscleGroup: MuscleBack, Equipment: "Barbell"},
	{ID: "5", Name: "Squat", MuscleGroup: MuscleLegs, Equipment: "Barbell"},
	{ID: "6", Name: "Leg Extension", MuscleGroup: MuscleLegs, Equipment: "Machine"},
	{ID: "7", Name: "Barbell Overhead Press", MuscleGroup: MuscleShoulders, Equipment: "Barbell"},
	{ID: "8", Name: "Lateral Raise", MuscleGroup: MuscleShoulders, Equipment: "Dumbbell"},
	{ID: "9", Name: "Biceps Curl", MuscleGroup: MuscleArms, Equipment: "Dumbbell"},
	{ID: "10", Name: "Cable Triceps Pushdown", MuscleGroup: MuscleArms, Equipment: "Cable"},
	{ID: "11", Name: "Running", MuscleGroup: MuscleCardio, Equipment: "None"},
}

// DefaultCatalog returns a copy of the bundled exercise catalog.
func DefaultCatalog() []Exercise {
	out := make([]Exercise, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}
