package analytics

import (
	"sort"
	"time"

	"visitlens/api/models"
)

const (
	// TopBlogPosts is the length of the blog view ranking.
	TopBlogPosts = 5
	// ActivityWindowDays is the fixed length of the activity timeline.
	ActivityWindowDays = 30
)

// RankBlogViews counts visits to /blog/{slug} and /blog/{slug}/ for each post
// and returns the most viewed posts. Posts without views are left out; ties
// keep the order of posts.
func RankBlogViews(records []models.VisitRecord, posts []models.BlogPost) []BlogViewRank {
	hits := make(map[string]int)
	for _, r := range records {
		hits[r.Path]++
	}

	ranks := make([]BlogViewRank, 0)
	for _, p := range posts {
		if p.Slug == "" {
			continue
		}
		base := "/blog/" + p.Slug
		n := hits[base] + hits[base+"/"]
		if n == 0 {
			continue
		}
		ranks = append(ranks, BlogViewRank{BlogID: p.ID, Title: p.Title, ViewCount: n})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].ViewCount > ranks[j].ViewCount
	})
	if len(ranks) > TopBlogPosts {
		ranks = ranks[:TopBlogPosts]
	}
	return ranks
}

// ActivityTimeline is a gap-filled ActivityWindowDays series of contact
// requests and blog posts per day. A post is dated by PublishedAt when set,
// otherwise by CreatedAt.
func ActivityTimeline(contacts []models.ContactRequest, posts []models.BlogPost, now time.Time) []ActivityPoint {
	labels := dayLabels(ActivityWindowDays, now)
	points := make([]ActivityPoint, len(labels))
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		points[i].DateLabel = label
		index[label] = i
	}

	loc := now.Location()
	for _, c := range contacts {
		if i, ok := index[dayLabel(c.Timestamp, loc)]; ok {
			points[i].ContactCount++
		}
	}
	for _, p := range posts {
		at := p.CreatedAt
		if p.PublishedAt != nil {
			at = *p.PublishedAt
		}
		if i, ok := index[dayLabel(at, loc)]; ok {
			points[i].BlogCount++
		}
	}
	return points
}
