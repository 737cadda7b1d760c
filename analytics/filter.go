package analytics

import (
	"fmt"
	"time"

	"visitlens/api/models"
)

// FilterVisits keeps the records no older than f.WindowDays*24h before now and,
// when f.Country is set, whose country equals it exactly. The input slice is
// never modified.
func FilterVisits(records []models.VisitRecord, f Filter, now time.Time) ([]models.VisitRecord, error) {
	if f.WindowDays <= 0 {
		return nil, fmt.Errorf("filter visits (window %d): %w", f.WindowDays, ErrInvalidWindow)
	}

	cutoff := now.Add(-time.Duration(f.WindowDays) * day)
	out := make([]models.VisitRecord, 0, len(records))
	for _, r := range records {
		if r.Timestamp.Before(cutoff) {
			continue
		}
		if f.Country != "" && (r.Country == nil || *r.Country != f.Country) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
