package jobs

import "jobmate/availability-service/internal/availability"

// Filter returns the records whose schedule shares no day with the
// unavailable days of a. It works on a deep copy so neither the input slice
// nor any record inside it is modified, and it keeps the input order.
//
// Day names are compared exactly: a schedule entry such as "monday" never
// matches the canonical "Monday" and therefore never excludes its record.
func Filter(records []Record, a availability.Availability) []Record {
	copied := Clone(records)

	unavailable := a.UnavailableDays()
	if len(unavailable) == 0 {
		return copied
	}

	filtered := make([]Record, 0, len(copied))
	for _, r := range copied {
		if len(sharedDays(unavailable, r.Schedule)) == 0 {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// sharedDays returns the entries of unavailable that also appear in schedule.
func sharedDays(unavailable, schedule []string) []string {
	if len(schedule) == 0 {
		return nil
	}
	onSchedule := make(map[string]struct{}, len(schedule))
	for _, d := range schedule {
		onSchedule[d] = struct{}{}
	}

	var shared []string
	for _, d := range unavailable {
		if _, ok := onSchedule[d]; ok {
			shared = append(shared, d)
		}
	}
	return shared
}

// Excluded returns, per dropped record ID, the unavailable days that caused
// the exclusion. Records that survive Filter do not appear.
func Excluded(records []Record, a availability.Availability) map[string][]string {
	unavailable := a.UnavailableDays()
	out := make(map[string][]string)
	for _, r := range records {
		if shared := sharedDays(unavailable, r.Schedule); len(shared) > 0 {
			out[r.ID] = shared
		}
	}
	return out
}
