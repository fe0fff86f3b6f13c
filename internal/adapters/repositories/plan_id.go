package repositories

import "github.com/google/uuid"

// validPlanID reports whether id can name a stored plan.
// Malformed ids are answered as "not found" without touching storage.
func validPlanID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
