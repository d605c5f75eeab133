package models

import "sort"

// sortActivityIDs orders ids by activity timestamp ascending, ties by id.
func sortActivityIDs(ids []string, activities map[string]*Activity) {
	sort.SliceStable(ids, func(i, j int) bool {
		ai, aj := activities[ids[i]], activities[ids[j]]
		if ai == nil || aj == nil {
			return ids[i] < ids[j]
		}
		if !ai.Timestamp.Equal(aj.Timestamp) {
			return ai.Timestamp.Before(aj.Timestamp)
		}
		return ids[i] < ids[j]
	})
}
