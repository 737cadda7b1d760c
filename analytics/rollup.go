package analytics

import (
	"sort"

	"visitlens/api/models"
)

// TopPages is the length of the page ranking.
const TopPages = 10

// Group is one row of a rollup.
type Group struct {
	Key        string
	Count      int
	Percentage float64
}

// Rollup groups items by keyFn and ranks the groups by count, descending.
// Items with an empty key are skipped but still count towards the denominator,
// so unkeyed items dilute the percentages. fold, when non-nil, is called for
// every keyed item and lets the caller accumulate extra per-group data.
func Rollup[T any](items []T, keyFn func(T) string, fold func(key string, item T)) []Group {
	return RollupOver(items, len(items), keyFn, fold)
}

// RollupOver is Rollup with an explicit percentage denominator.
//
// Ties keep first-seen order.
func RollupOver[T any](items []T, total int, keyFn func(T) string, fold func(key string, item T)) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, item := range items {
		key := keyFn(item)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Count++
		if fold != nil {
			fold(key, item)
		}
	}

	for i := range groups {
		groups[i].Percentage = percentOf(groups[i].Count, total)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

// CountryRollup counts hits per country. The percentage is hit based: its
// denominator is every record passed in, including those without a country.
func CountryRollup(records []models.VisitRecord) []CountryRollupEntry {
	codes := make(map[string]string)
	cities := make(map[string]map[string]struct{})

	groups := Rollup(records, func(r models.VisitRecord) string {
		return deref(r.Country)
	}, func(country string, r models.VisitRecord) {
		if _, ok := codes[country]; !ok {
			codes[country] = deref(r.CountryCode)
			cities[country] = make(map[string]struct{})
		}
		if city := deref(r.City); city != "" {
			cities[country][city] = struct{}{}
		}
	})

	out := make([]CountryRollupEntry, 0, len(groups))
	for _, g := range groups {
		out = append(out, CountryRollupEntry{
			Country:           g.Key,
			CountryCode:       codes[g.Key],
			Visits:            g.Count,
			PercentageOfTotal: g.Percentage,
			DistinctCityCount: len(cities[g.Key]),
		})
	}
	return out
}

type visitorBrowser struct {
	identity string
	family   BrowserFamily
}

// BrowserRollup counts distinct visitors per browser family.
//
// Unlike the country and page rollups this one is visitor based: both the
// count and the denominator are distinct identities, not hits. Records
// without an identity are ignored. Keep the two denominators separate.
func BrowserRollup(records []models.VisitRecord) []BrowserShare {
	seen := make(map[visitorBrowser]struct{})
	visitors := make(map[string]struct{})
	pairs := make([]visitorBrowser, 0)
	for _, r := range records {
		id, ok := IdentityOf(r)
		if !ok {
			continue
		}
		visitors[id] = struct{}{}
		p := visitorBrowser{identity: id, family: ClassifyBrowser(r.UserAgent)}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		pairs = append(pairs, p)
	}

	groups := RollupOver(pairs, len(visitors), func(p visitorBrowser) string {
		return string(p.family)
	}, nil)

	out := make([]BrowserShare, 0, len(groups))
	for _, g := range groups {
		out = append(out, BrowserShare{
			Family:            BrowserFamily(g.Key),
			VisitorCount:      g.Count,
			PercentageOfTotal: g.Percentage,
		})
	}
	return out
}

// PageRollup returns the TopPages most visited paths by hit count.
func PageRollup(records []models.VisitRecord) []PageRankEntry {
	groups := Rollup(records, func(r models.VisitRecord) string {
		return r.Path
	}, nil)
	if len(groups) > TopPages {
		groups = groups[:TopPages]
	}

	out := make([]PageRankEntry, 0, len(groups))
	for _, g := range groups {
		out = append(out, PageRankEntry{Path: g.Key, VisitCount: g.Count})
	}
	return out
}

// StatusRollup distributes contact requests over the fixed status domain.
// Every known status is present in the result, zero-count ones last in domain
// order. Unknown status values are not grouped but stay in the denominator.
func StatusRollup(requests []models.ContactRequest) []StatusShare {
	known := make(map[string]bool, len(models.ContactStatuses))
	for _, s := range models.ContactStatuses {
		known[s] = true
	}

	groups := Rollup(requests, func(c models.ContactRequest) string {
		if known[c.Status] {
			return c.Status
		}
		return ""
	}, nil)

	out := make([]StatusShare, 0, len(models.ContactStatuses))
	present := make(map[string]bool, len(groups))
	for _, g := range groups {
		present[g.Key] = true
		out = append(out, StatusShare{Status: g.Key, Count: g.Count, PercentageOfTotal: g.Percentage})
	}
	for _, s := range models.ContactStatuses {
		if !present[s] {
			out = append(out, StatusShare{Status: s})
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
