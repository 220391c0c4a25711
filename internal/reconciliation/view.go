package reconciliation

import "sort"

// DefaultDisplayStatuses are the statuses shown when no filter is given.
var DefaultDisplayStatuses = []Status{StatusConfirmed, StatusConfirmable}

// Select filters records to the given statuses (all when empty), orders
// them by amount descending and keeps at most limit rows (all when
// limit <= 0). The input is not modified.
func Select(records []Record, statuses []Status, limit int) []Record {
	allowed := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}

	selected := make([]Record, 0, len(records))
	for _, rec := range records {
		if len(allowed) == 0 || allowed[rec.Status] {
			selected = append(selected, rec)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Amount > selected[j].Amount
	})

	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}
