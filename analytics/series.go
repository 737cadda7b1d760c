package analytics

import (
	"fmt"
	"time"

	"visitlens/api/models"
)

// dayLabels returns one label per calendar day of the window, oldest first,
// the last one being the day of now in now's location.
func dayLabels(windowDays int, now time.Time) []string {
	y, m, d := now.Date()
	labels := make([]string, windowDays)
	for i := range labels {
		offset := windowDays - 1 - i
		labels[i] = time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location()).Format(DateLayout)
	}
	return labels
}

func dayLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// BucketDaily builds a gap-filled daily series of exactly windowDays points
// ending today. Days without visits are zero points. Records dated outside
// the window are dropped.
func BucketDaily(records []models.VisitRecord, windowDays int, now time.Time) ([]DailyPoint, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("bucket daily (window %d): %w", windowDays, ErrInvalidWindow)
	}

	labels := dayLabels(windowDays, now)
	points := make([]DailyPoint, len(labels))
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		points[i].DateLabel = label
		index[label] = i
	}

	for _, r := range records {
		i, ok := index[dayLabel(r.Timestamp, now.Location())]
		if !ok {
			continue
		}
		p := &points[i]
		p.TotalCount++
		if IsMobile(r) {
			p.MobileCount++
		} else {
			p.DesktopCount++
		}
	}
	return points, nil
}
