package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visitlens/api/models"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func visit(ip, path string, ago time.Duration) models.VisitRecord {
	return models.VisitRecord{IP: ip, Path: path, Timestamp: testNow.Add(-ago)}
}

func located(country, code, city string, lat, lon float64) models.VisitRecord {
	v := visit("10.0.0.1", "/", time.Hour)
	v.Country, v.CountryCode, v.City = strPtr(country), strPtr(code), strPtr(city)
	v.Latitude, v.Longitude = floatPtr(lat), floatPtr(lon)
	return v
}

func TestIdentityOf(t *testing.T) {
	id, ok := IdentityOf(models.VisitRecord{IP: "1.1.1.1"})
	assert.True(t, ok)
	assert.Equal(t, "1.1.1.1", id)

	_, ok = IdentityOf(models.VisitRecord{})
	assert.False(t, ok)
}

func TestIsMobile(t *testing.T) {
	tests := []struct {
		name  string
		width *int
		want  bool
	}{
		{"no width is desktop", nil, false},
		{"narrow", intPtr(375), true},
		{"just below breakpoint", intPtr(767), true},
		{"breakpoint is desktop", intPtr(768), false},
		{"wide", intPtr(1920), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMobile(models.VisitRecord{ScreenWidth: tt.width}))
		})
	}
}

func TestClassifyBrowser(t *testing.T) {
	tests := []struct {
		ua   string
		want BrowserFamily
	}{
		{"", BrowserOther},
		{"Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 Edg/120.0", BrowserEdge},
		{"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36", BrowserChrome},
		{"Mozilla/5.0 (Macintosh) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15", BrowserSafari},
		{"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0", BrowserFirefox},
		{"curl/8.4.0", BrowserOther},
		{"CHROME uppercase", BrowserChrome},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyBrowser(tt.ua), tt.ua)
	}
}

func TestClassifyBrowser_EdgeBeatsChrome(t *testing.T) {
	assert.Equal(t, BrowserEdge, ClassifyBrowser("chrome edg"))
	assert.Equal(t, BrowserEdge, ClassifyBrowser("edg chrome"))
}

func TestFilterVisits(t *testing.T) {
	france := visit("1.1.1.1", "/", time.Hour)
	france.Country = strPtr("France")
	old := visit("2.2.2.2", "/", 8*day)
	noCountry := visit("3.3.3.3", "/", time.Hour)
	records := []models.VisitRecord{france, old, noCountry}

	got, err := FilterVisits(records, Filter{WindowDays: 7}, testNow)
	require.NoError(t, err)
	assert.Equal(t, []models.VisitRecord{france, noCountry}, got)

	got, err = FilterVisits(records, Filter{WindowDays: 7, Country: "France"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, []models.VisitRecord{france}, got)

	got, err = FilterVisits(records, Filter{WindowDays: 7, Country: "france"}, testNow)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Len(t, records, 3)
}

func TestFilterVisits_WindowBoundaryIsInclusive(t *testing.T) {
	edge := visit("1.1.1.1", "/", 7*day)
	got, err := FilterVisits([]models.VisitRecord{edge}, Filter{WindowDays: 7}, testNow)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFilterVisits_InvalidWindow(t *testing.T) {
	for _, days := range []int{0, -1} {
		_, err := FilterVisits(nil, Filter{WindowDays: days}, testNow)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, MetricsSummary{}, Summarize(nil))
	})

	t.Run("same visitor three times", func(t *testing.T) {
		records := []models.VisitRecord{
			visit("1.1.1.1", "/", time.Hour),
			visit("1.1.1.1", "/", 2*time.Hour),
			visit("1.1.1.1", "/", 3*time.Hour),
		}
		s := Summarize(records)
		assert.Equal(t, 3, s.TotalVisits)
		assert.Equal(t, 1, s.UniqueVisitors)
		assert.Equal(t, 3.0, s.AvgRecordsPerVisitor)
		assert.Equal(t, 0.0, s.BounceRatePercent)
	})

	t.Run("two single page visitors", func(t *testing.T) {
		records := []models.VisitRecord{
			visit("1.1.1.1", "/", time.Hour),
			visit("2.2.2.2", "/about", time.Hour),
		}
		s := Summarize(records)
		assert.Equal(t, 2, s.UniqueVisitors)
		assert.Equal(t, 100.0, s.BounceRatePercent)
	})

	t.Run("records without identity count as visits only", func(t *testing.T) {
		records := []models.VisitRecord{
			visit("", "/", time.Hour),
			visit("", "/", time.Hour),
			visit("1.1.1.1", "/", time.Hour),
			visit("1.1.1.1", "/x", time.Hour),
			visit("2.2.2.2", "/", time.Hour),
		}
		s := Summarize(records)
		assert.Equal(t, 5, s.TotalVisits)
		assert.Equal(t, 2, s.UniqueVisitors)
		assert.Equal(t, 2.5, s.AvgRecordsPerVisitor)
		assert.Equal(t, 50.0, s.BounceRatePercent)
	})

	t.Run("no identities", func(t *testing.T) {
		s := Summarize([]models.VisitRecord{visit("", "/", time.Hour)})
		assert.Equal(t, MetricsSummary{TotalVisits: 1}, s)
	})
}

func TestRollup_StableTies(t *testing.T) {
	keys := []string{"b", "a", "c", "a", "b", ""}
	groups := Rollup(keys, func(k string) string { return k }, nil)

	require.Len(t, groups, 3)
	assert.Equal(t, "b", groups[0].Key)
	assert.Equal(t, "a", groups[1].Key)
	assert.Equal(t, "c", groups[2].Key)
	// the unkeyed item still dilutes the denominator
	assert.InDelta(t, 100.0/3, groups[0].Percentage, 1e-9)
}

func TestRollup_ZeroDenominator(t *testing.T) {
	groups := RollupOver([]string{"a"}, 0, func(k string) string { return k }, nil)
	require.Len(t, groups, 1)
	assert.Equal(t, 0.0, groups[0].Percentage)
}

func TestCountryRollup(t *testing.T) {
	records := []models.VisitRecord{
		located("Spain", "ES", "Madrid", 40.4, -3.7),
		located("France", "FR", "Paris", 48.8, 2.3),
		located("France", "FR", "Lyon", 45.7, 4.8),
	}
	got := CountryRollup(records)

	require.Len(t, got, 2)
	assert.Equal(t, "France", got[0].Country)
	assert.Equal(t, "FR", got[0].CountryCode)
	assert.Equal(t, 2, got[0].Visits)
	assert.InDelta(t, 66.7, got[0].PercentageOfTotal, 0.05)
	assert.Equal(t, 2, got[0].DistinctCityCount)
	assert.Equal(t, "Spain", got[1].Country)
	assert.InDelta(t, 33.3, got[1].PercentageOfTotal, 0.05)
	assert.Equal(t, 1, got[1].DistinctCityCount)
}

func TestCountryRollup_PercentagesSumTo100(t *testing.T) {
	var records []models.VisitRecord
	for i, c := range []string{"A", "B", "C", "A", "B", "A", "D"} {
		v := visit("", "/", time.Duration(i)*time.Minute)
		v.Country = strPtr(c)
		records = append(records, v)
	}
	sum := 0.0
	for _, e := range CountryRollup(records) {
		sum += e.PercentageOfTotal
	}
	assert.InDelta(t, 100.0, sum, 0.1)
}

func TestBrowserRollup_IsVisitorBased(t *testing.T) {
	const chrome = "Mozilla/5.0 Chrome/120.0 Safari/537.36"
	const firefox = "Mozilla/5.0 Firefox/121.0"
	records := []models.VisitRecord{
		{IP: "1.1.1.1", UserAgent: chrome},
		{IP: "1.1.1.1", UserAgent: chrome},
		{IP: "1.1.1.1", UserAgent: chrome},
		{IP: "2.2.2.2", UserAgent: firefox},
		{IP: "", UserAgent: firefox},
	}
	got := BrowserRollup(records)

	require.Len(t, got, 2)
	assert.Equal(t, BrowserChrome, got[0].Family)
	assert.Equal(t, 1, got[0].VisitorCount)
	assert.Equal(t, 50.0, got[0].PercentageOfTotal)
	assert.Equal(t, BrowserFirefox, got[1].Family)
	assert.Equal(t, 1, got[1].VisitorCount)
	assert.Equal(t, 50.0, got[1].PercentageOfTotal)
}

func TestBrowserRollup_PercentagesSumTo100(t *testing.T) {
	const chrome = "Mozilla/5.0 Chrome/120.0 Safari/537.36"
	const firefox = "Mozilla/5.0 Firefox/121.0"
	const safari = "Mozilla/5.0 Version/17.0 Safari/605.1.15"
	// repeat hits from one visitor move hit shares but not visitor shares
	records := []models.VisitRecord{
		{IP: "1.1.1.1", UserAgent: chrome},
		{IP: "1.1.1.1", UserAgent: chrome},
		{IP: "1.1.1.1", UserAgent: chrome},
		{IP: "1.1.1.1", UserAgent: chrome},
		{IP: "2.2.2.2", UserAgent: firefox},
		{IP: "3.3.3.3", UserAgent: safari},
	}

	sum := 0.0
	for _, b := range BrowserRollup(records) {
		sum += b.PercentageOfTotal
		assert.InDelta(t, 100.0/3, b.PercentageOfTotal, 1e-9)
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestBrowserRollup_VisitorWithTwoBrowsersExceeds100(t *testing.T) {
	records := []models.VisitRecord{
		{IP: "1.1.1.1", UserAgent: "Mozilla/5.0 Chrome/120.0 Safari/537.36"},
		{IP: "1.1.1.1", UserAgent: "Mozilla/5.0 Firefox/121.0"},
		{IP: "2.2.2.2", UserAgent: "Mozilla/5.0 Firefox/121.0"},
	}

	sum := 0.0
	for _, b := range BrowserRollup(records) {
		sum += b.PercentageOfTotal
	}
	assert.InDelta(t, 150.0, sum, 1e-9)
}

func TestBrowserRollup_Empty(t *testing.T) {
	got := BrowserRollup(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPageRollup_TopTen(t *testing.T) {
	var records []models.VisitRecord
	for i := 0; i < 12; i++ {
		for j := 0; j <= i; j++ {
			records = append(records, visit("1.1.1.1", "/p"+string(rune('a'+i)), time.Hour))
		}
	}
	got := PageRollup(records)

	require.Len(t, got, TopPages)
	assert.Equal(t, PageRankEntry{Path: "/pl", VisitCount: 12}, got[0])
	assert.Equal(t, PageRankEntry{Path: "/pc", VisitCount: 3}, got[TopPages-1])
}

func TestStatusRollup(t *testing.T) {
	requests := []models.ContactRequest{
		{ID: "1", Status: models.ContactStatusCompleted},
		{ID: "2", Status: models.ContactStatusCompleted},
		{ID: "3", Status: models.ContactStatusNew},
		{ID: "4", Status: "archived"},
	}
	got := StatusRollup(requests)

	assert.Equal(t, []StatusShare{
		{Status: models.ContactStatusCompleted, Count: 2, PercentageOfTotal: 50},
		{Status: models.ContactStatusNew, Count: 1, PercentageOfTotal: 25},
		{Status: models.ContactStatusInProgress},
	}, got)
}

func TestStatusRollup_PercentagesSumTo100(t *testing.T) {
	var requests []models.ContactRequest
	for i, status := range []string{
		models.ContactStatusNew, models.ContactStatusNew, models.ContactStatusNew,
		models.ContactStatusInProgress, models.ContactStatusInProgress,
		models.ContactStatusCompleted, models.ContactStatusCompleted,
	} {
		requests = append(requests, models.ContactRequest{ID: string(rune('a' + i)), Status: status})
	}

	sum := 0.0
	for _, s := range StatusRollup(requests) {
		sum += s.PercentageOfTotal
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestStatusRollup_Empty(t *testing.T) {
	got := StatusRollup(nil)
	require.Len(t, got, 3)
	for _, s := range got {
		assert.Zero(t, s.Count)
		assert.Zero(t, s.PercentageOfTotal)
	}
}

func TestBucketDaily_EmptyWindow(t *testing.T) {
	got, err := BucketDaily(nil, 7, testNow)
	require.NoError(t, err)
	require.Len(t, got, 7)
	assert.Equal(t, "2026-10-10", got[0].DateLabel)
	assert.Equal(t, "2026-10-16", got[6].DateLabel)
	for _, p := range got {
		assert.Zero(t, p.TotalCount)
	}
}

func TestBucketDaily_Counts(t *testing.T) {
	mobile := visit("1.1.1.1", "/", time.Hour)
	mobile.ScreenWidth = intPtr(390)
	desktop := visit("2.2.2.2", "/", time.Hour)
	yesterday := visit("2.2.2.2", "/", day)
	tooOld := visit("2.2.2.2", "/", 30*day)

	got, err := BucketDaily([]models.VisitRecord{mobile, desktop, yesterday, tooOld}, 14, testNow)
	require.NoError(t, err)
	require.Len(t, got, 14)

	assert.Equal(t, DailyPoint{DateLabel: "2026-10-16", DesktopCount: 1, MobileCount: 1, TotalCount: 2}, got[13])
	assert.Equal(t, DailyPoint{DateLabel: "2026-10-15", DesktopCount: 1, TotalCount: 1}, got[12])
}

func TestBucketDaily_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, loc)
	// 23:00 UTC on the 15th is the 16th in UTC+10
	v := models.VisitRecord{Timestamp: time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)}

	got, err := BucketDaily([]models.VisitRecord{v}, 2, now)
	require.NoError(t, err)
	assert.Equal(t, 1, got[1].TotalCount)
}

func TestBucketDaily_InvalidWindow(t *testing.T) {
	_, err := BucketDaily(nil, 0, testNow)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestClusterGeo(t *testing.T) {
	paris2 := located("France", "FR", "Paris", 48.90, 2.40)
	unlocated := visit("1.1.1.1", "/", time.Hour)
	halfLocated := visit("1.1.1.1", "/", time.Hour)
	halfLocated.Latitude = floatPtr(1)

	got := ClusterGeo([]models.VisitRecord{
		located("France", "FR", "Paris", 48.85, 2.35),
		unlocated,
		located("Spain", "ES", "Madrid", 40.4, -3.7),
		paris2,
		halfLocated,
	})

	require.Len(t, got, 2)
	assert.Equal(t, GeoCluster{Country: "France", CountryCode: "FR", City: "Paris", Lat: 48.85, Lon: 2.35, VisitCount: 2}, got[0])
	assert.Equal(t, "Madrid", got[1].City)
	assert.Equal(t, 1, got[1].VisitCount)
}

func TestClusterGeo_UnnamedPlacesMergeOnRoundedPosition(t *testing.T) {
	a := visit("1.1.1.1", "/", time.Hour)
	a.Latitude, a.Longitude = floatPtr(10.001), floatPtr(20.002)
	b := visit("1.1.1.1", "/", time.Hour)
	b.Latitude, b.Longitude = floatPtr(10.004), floatPtr(19.998)
	c := visit("1.1.1.1", "/", time.Hour)
	c.Latitude, c.Longitude = floatPtr(11), floatPtr(20)

	got := ClusterGeo([]models.VisitRecord{a, b, c})
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].VisitCount)
}

func TestClusterGeo_Empty(t *testing.T) {
	got := ClusterGeo([]models.VisitRecord{visit("1.1.1.1", "/", time.Hour)})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDensityTierFor(t *testing.T) {
	tests := []struct {
		count, total int
		want         DensityTier
	}{
		{21, 100, TierXL},
		{20, 100, TierLG},
		{11, 100, TierLG},
		{10, 100, TierMD},
		{6, 100, TierMD},
		{5, 100, TierSM},
		{3, 100, TierSM},
		{2, 100, TierXS},
		{0, 0, TierXS},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DensityTierFor(tt.count, tt.total), "%d/%d", tt.count, tt.total)
	}
}

func TestRankBlogViews(t *testing.T) {
	posts := []models.BlogPost{
		{ID: "p1", Title: "My Post", Slug: "my-post"},
		{ID: "p2", Title: "Unseen", Slug: "unseen"},
		{ID: "p3", Title: "Popular", Slug: "popular"},
	}
	records := []models.VisitRecord{
		visit("1.1.1.1", "/blog/my-post", time.Hour),
		visit("1.1.1.1", "/blog/my-post/", time.Hour),
		visit("1.1.1.1", "/blog/popular", time.Hour),
		visit("1.1.1.1", "/blog/popular", time.Hour),
		visit("1.1.1.1", "/blog/popular", time.Hour),
		visit("1.1.1.1", "/blog/my-post/comments", time.Hour),
	}
	got := RankBlogViews(records, posts)

	assert.Equal(t, []BlogViewRank{
		{BlogID: "p3", Title: "Popular", ViewCount: 3},
		{BlogID: "p1", Title: "My Post", ViewCount: 2},
	}, got)
}

func TestRankBlogViews_TopFive(t *testing.T) {
	var posts []models.BlogPost
	var records []models.VisitRecord
	for i := 0; i < 7; i++ {
		slug := string(rune('a' + i))
		posts = append(posts, models.BlogPost{ID: slug, Slug: slug})
		records = append(records, visit("", "/blog/"+slug, time.Hour))
	}
	got := RankBlogViews(records, posts)
	require.Len(t, got, TopBlogPosts)
	assert.Equal(t, "a", got[0].BlogID)
}

func TestActivityTimeline(t *testing.T) {
	published := testNow.Add(-2 * day)
	contacts := []models.ContactRequest{
		{ID: "c1", Timestamp: testNow},
		{ID: "c2", Timestamp: testNow.Add(-time.Hour)},
		{ID: "c3", Timestamp: testNow.Add(-40 * day)},
	}
	posts := []models.BlogPost{
		{ID: "b1", CreatedAt: testNow.Add(-60 * day), PublishedAt: &published},
		{ID: "b2", CreatedAt: testNow},
		{ID: "b3", CreatedAt: testNow.Add(-31 * day)},
	}
	got := ActivityTimeline(contacts, posts, testNow)

	require.Len(t, got, ActivityWindowDays)
	assert.Equal(t, ActivityPoint{DateLabel: "2026-10-16", ContactCount: 2, BlogCount: 1}, got[29])
	assert.Equal(t, ActivityPoint{DateLabel: "2026-10-14", BlogCount: 1}, got[27])
	assert.Equal(t, "2026-09-17", got[0].DateLabel)
}

func TestCompute(t *testing.T) {
	posts := []models.BlogPost{{ID: "p1", Title: "My Post", Slug: "my-post", CreatedAt: testNow}}
	fr := located("France", "FR", "Paris", 48.85, 2.35)
	fr.Path = "/blog/my-post"
	es := located("Spain", "ES", "Madrid", 40.4, -3.7)
	es.IP = "10.0.0.2"
	in := Input{
		Visits:   []models.VisitRecord{fr, es, visit("10.0.0.3", "/", 10*day)},
		Contacts: []models.ContactRequest{{ID: "c1", Status: models.ContactStatusNew, Timestamp: testNow}},
		Posts:    posts,
	}

	d, err := Compute(in, Filter{WindowDays: 7, Country: "France"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, d.Summary.TotalVisits)
	require.Len(t, d.Countries, 1)
	assert.Equal(t, "France", d.Countries[0].Country)
	assert.Len(t, d.Daily, 7)
	require.Len(t, d.Geo, 1)
	assert.Equal(t, TierXL, d.Geo[0].Tier)
	assert.Equal(t, []BlogViewRank{{BlogID: "p1", Title: "My Post", ViewCount: 1}}, d.BlogViews)
	assert.Len(t, d.Activity, ActivityWindowDays)
	assert.Equal(t, 1, d.ContactStatus[0].Count)
}

func TestCompute_IsIdempotent(t *testing.T) {
	in := Input{Visits: []models.VisitRecord{
		located("France", "FR", "Paris", 48.85, 2.35),
		located("Spain", "ES", "Madrid", 40.4, -3.7),
		visit("10.0.0.9", "/a", time.Hour),
	}}
	first, err := Compute(in, Filter{WindowDays: 30}, testNow)
	require.NoError(t, err)
	second, err := Compute(in, Filter{WindowDays: 30}, testNow)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompute_InvalidWindow(t *testing.T) {
	d, err := Compute(Input{}, Filter{}, testNow)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
