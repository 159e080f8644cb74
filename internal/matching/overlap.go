package matching

import (
	"sort"

	"gorm.io/datatypes"
)

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayName maps 0..6 to Monday..Sunday.
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return ""
	}
	return dayNames[day]
}

type Window struct {
	Start datatypes.Time `json:"start_time"`
	End   datatypes.Time `json:"end_time"`
}

type DayWindows struct {
	Day     int      `json:"day_of_week"`
	DayName string   `json:"day_name"`
	Windows []Window `json:"windows"`
}

// CommonAvailability lists, per day, every window both users are free.
// Overlap is strict: slots that only touch at an endpoint yield nothing.
// This intentionally differs from the inclusive check used in Score.
func CommonAvailability(a, b []Slot) []DayWindows {
	byDay := map[int][]Window{}
	for _, x := range a {
		for _, y := range b {
			if x.Day != y.Day {
				continue
			}
			start, end := max(x.Start, y.Start), min(x.End, y.End)
			if start < end {
				byDay[x.Day] = append(byDay[x.Day], Window{Start: start, End: end})
			}
		}
	}

	out := make([]DayWindows, 0, len(byDay))
	for day, windows := range byDay {
		sort.Slice(windows, func(i, j int) bool {
			if windows[i].Start != windows[j].Start {
				return windows[i].Start < windows[j].Start
			}
			return windows[i].End < windows[j].End
		})
		out = append(out, DayWindows{Day: day, DayName: DayName(day), Windows: windows})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
