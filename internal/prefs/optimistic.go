// Package prefs provides the notification and theme preference stores:
// fetch-or-create of a single per-user settings row and partial updates
// with optimistic local mutation.
package prefs

// optimistic applies mutate to the in-memory record, runs the write, and
// restores the previous value when the write fails. Both preference stores
// share this helper so rollback behavior is uniform.
func optimistic[T any](current *T, mutate func(*T), write func() error) bool {
	prev := *current
	mutate(current)
	if err := write(); err != nil {
		*current = prev
		return false
	}
	return true
}
