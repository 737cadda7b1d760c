package utils

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"visitlens/api/models"
)

var (
	countries = gountries.New()
	upper     = cases.Upper(language.Und)
)

// ApplyEdgeGeo copies the geolocation headers set by the CDN in front of the
// service onto v. Coordinates are kept only when both parse.
func ApplyEdgeGeo(v *models.VisitRecord, h http.Header) {
	code := firstHeader(h, "X-Vercel-IP-Country", "CF-IPCountry")
	// Cloudflare uses XX for unknown and T1 for Tor
	if code != "" && code != "XX" && code != "T1" {
		code = upper.String(code)
		name := CountryName(code)
		v.CountryCode = &code
		v.Country = &name
	}

	if region := headerValue(h, "X-Vercel-IP-Country-Region"); region != "" {
		v.Region = &region
	}
	if city := headerValue(h, "X-Vercel-IP-City"); city != "" {
		v.City = &city
	}

	lat, latErr := strconv.ParseFloat(h.Get("X-Vercel-IP-Latitude"), 64)
	lon, lonErr := strconv.ParseFloat(h.Get("X-Vercel-IP-Longitude"), 64)
	if latErr == nil && lonErr == nil {
		v.Latitude, v.Longitude = &lat, &lon
	}
}

// CountryName resolves an ISO 3166 alpha-2 code to its common English name,
// falling back to the code itself.
func CountryName(code string) string {
	c, err := countries.FindCountryByAlpha(code)
	if err != nil {
		return code
	}
	return c.Name.Common
}

// headerValue returns a trimmed, URL-decoded header value.
func headerValue(h http.Header, key string) string {
	raw := strings.TrimSpace(h.Get(key))
	if raw == "" {
		return ""
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func firstHeader(h http.Header, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(h.Get(k)); v != "" {
			return v
		}
	}
	return ""
}
