package analytics

import "visitlens/api/models"

// Summarize computes the headline metrics over an already filtered collection.
//
// Bounce rate is the share of identities seen exactly once in the collection.
// There is no session boundary: an address active on several days is still a
// single visitor for the whole window.
func Summarize(records []models.VisitRecord) MetricsSummary {
	hits := make(map[string]int)
	for _, r := range records {
		if id, ok := IdentityOf(r); ok {
			hits[id]++
		}
	}

	bounces := 0
	for _, n := range hits {
		if n == 1 {
			bounces++
		}
	}

	s := MetricsSummary{
		TotalVisits:    len(records),
		UniqueVisitors: len(hits),
	}
	if s.UniqueVisitors > 0 {
		s.AvgRecordsPerVisitor = float64(s.TotalVisits) / float64(s.UniqueVisitors)
	}
	s.BounceRatePercent = percentOf(bounces, s.UniqueVisitors)
	return s
}
