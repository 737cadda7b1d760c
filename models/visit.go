// api/models/visit.go
package models

import "time"

// VisitRecord is one logged page view. Optional attributes are pointers so that
// "absent" and "zero" stay distinguishable.
type VisitRecord struct {
	VisitID     string    `json:"visitId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Path        string    `json:"path"`
	UserAgent   string    `json:"userAgent"`
	Referrer    *string   `json:"referrer,omitempty"`
	ScreenWidth *int      `json:"screenWidth,omitempty"`
	IP          string    `json:"ip"`
	Country     *string   `json:"country,omitempty"`
	CountryCode *string   `json:"countryCode,omitempty"`
	City        *string   `json:"city,omitempty"`
	Region      *string   `json:"region,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
}

// TrackVisitRequest is the body accepted by the public tracking endpoint.
// Everything else on a VisitRecord is filled in server side.
type TrackVisitRequest struct {
	Path        string  `json:"path" binding:"required"`
	Referrer    *string `json:"referrer"`
	ScreenWidth *int    `json:"screenWidth" binding:"omitempty,min=0,max=100000"`
	UserAgent   string  `json:"userAgent"`
}
