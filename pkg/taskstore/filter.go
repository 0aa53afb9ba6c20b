package taskstore

import (
	"sort"

	"github.com/NoelOsiro/tuma-task-api/pkg/client"
)

// FilterByStatus returns the tasks whose status equals the given value. An
// empty status returns a copy of the input unchanged. Sorting and filtering
// are view concerns; neither touches the store's list.
func FilterByStatus(tasks []client.Task, status string) []client.Task {
	out := make([]client.Task, 0, len(tasks))
	for _, t := range tasks {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// SortByCreated returns a copy ordered by created_at, newest first unless
// ascending is set. Equal timestamps keep their relative order.
func SortByCreated(tasks []client.Task, ascending bool) []client.Task {
	out := make([]client.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
