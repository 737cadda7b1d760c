package analytics

import (
	"time"

	"visitlens/api/models"
)

// Input is the snapshot the dashboard hands to the engine.
type Input struct {
	Visits   []models.VisitRecord
	Contacts []models.ContactRequest
	Posts    []models.BlogPost
}

// GeoMarker is a cluster with its marker size.
type GeoMarker struct {
	GeoCluster
	Tier DensityTier `json:"tier"`
}

// Dashboard holds every derived structure for one filter selection.
type Dashboard struct {
	WindowDays    int                  `json:"windowDays"`
	Country       string               `json:"country,omitempty"`
	Summary       MetricsSummary       `json:"summary"`
	Countries     []CountryRollupEntry `json:"countries"`
	Browsers      []BrowserShare       `json:"browsers"`
	Pages         []PageRankEntry      `json:"pages"`
	Daily         []DailyPoint         `json:"daily"`
	Geo           []GeoMarker          `json:"geo"`
	BlogViews     []BlogViewRank       `json:"blogViews"`
	Activity      []ActivityPoint      `json:"activity"`
	ContactStatus []StatusShare        `json:"contactStatus"`
}

// Compute applies f once and derives every dashboard structure from the
// filtered visits. Contact requests and posts are not filtered by f: the
// activity timeline has its own fixed window.
func Compute(in Input, f Filter, now time.Time) (*Dashboard, error) {
	visits, err := FilterVisits(in.Visits, f, now)
	if err != nil {
		return nil, err
	}
	daily, err := BucketDaily(visits, f.WindowDays, now)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		WindowDays:    f.WindowDays,
		Country:       f.Country,
		Summary:       Summarize(visits),
		Countries:     CountryRollup(visits),
		Browsers:      BrowserRollup(visits),
		Pages:         PageRollup(visits),
		Daily:         daily,
		Geo:           GeoMarkers(visits),
		BlogViews:     RankBlogViews(visits, in.Posts),
		Activity:      ActivityTimeline(in.Contacts, in.Posts, now),
		ContactStatus: StatusRollup(in.Contacts),
	}, nil
}

// GeoMarkers clusters the visits and sizes each cluster against len(visits).
func GeoMarkers(visits []models.VisitRecord) []GeoMarker {
	clusters := ClusterGeo(visits)
	markers := make([]GeoMarker, 0, len(clusters))
	for _, c := range clusters {
		markers = append(markers, GeoMarker{GeoCluster: c, Tier: DensityTierFor(c.VisitCount, len(visits))})
	}
	return markers
}
