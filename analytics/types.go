// Package analytics turns a raw visit log into the metrics, rollups and time
// series rendered by the dashboard.
//
// Every function in this package is pure: it reads its arguments, never mutates
// them and keeps no state between calls. Functions that depend on the current
// time take it explicitly as now, so the same snapshot always yields the same
// output.
package analytics

import (
	"errors"
	"time"
)

// ErrInvalidWindow is returned when a caller asks for a non-positive day window.
// It is the only precondition the engine validates.
var ErrInvalidWindow = errors.New("window days must be a positive integer")

// DateLayout is the label format for daily points.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// Filter is the caller-held selection applied before aggregation. A zero
// Country means no dimension filter.
type Filter struct {
	WindowDays int
	Country    string
}

type MetricsSummary struct {
	TotalVisits          int     `json:"totalVisits"`
	UniqueVisitors       int     `json:"uniqueVisitors"`
	AvgRecordsPerVisitor float64 `json:"avgRecordsPerVisitor"`
	BounceRatePercent    float64 `json:"bounceRatePercent"`
}

type CountryRollupEntry struct {
	Country           string  `json:"country"`
	CountryCode       string  `json:"countryCode"`
	Visits            int     `json:"visits"`
	PercentageOfTotal float64 `json:"percentageOfTotal"`
	DistinctCityCount int     `json:"distinctCityCount"`
}

type DailyPoint struct {
	DateLabel    string `json:"dateLabel"`
	DesktopCount int    `json:"desktopCount"`
	MobileCount  int    `json:"mobileCount"`
	TotalCount   int    `json:"totalCount"`
}

type BrowserShare struct {
	Family            BrowserFamily `json:"family"`
	VisitorCount      int           `json:"visitorCount"`
	PercentageOfTotal float64       `json:"percentageOfTotal"`
}

type PageRankEntry struct {
	Path       string `json:"path"`
	VisitCount int    `json:"visitCount"`
}

type GeoCluster struct {
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	VisitCount  int     `json:"visitCount"`
}

type ActivityPoint struct {
	DateLabel    string `json:"dateLabel"`
	ContactCount int    `json:"contactCount"`
	BlogCount    int    `json:"blogCount"`
}

type BlogViewRank struct {
	BlogID    string `json:"blogId"`
	Title     string `json:"title"`
	ViewCount int    `json:"viewCount"`
}

type StatusShare struct {
	Status            string  `json:"status"`
	Count             int     `json:"count"`
	PercentageOfTotal float64 `json:"percentageOfTotal"`
}

// percentOf returns part/total*100, or 0 when total is zero.
func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
