package utils

// AllowedWindows are the day ranges offered by the dashboard.
var AllowedWindows = []int{7, 14, 30, 60, 90}

// DefaultWindow is used when a stats request names no range.
const DefaultWindow = 30

func IsValidWindow(days int) bool {
	for _, w := range AllowedWindows {
		if w == days {
			return true
		}
	}
	return false
}
