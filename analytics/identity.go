package analytics

import "visitlens/api/models"

// MobileBreakpoint is the screen width, in pixels, below which a visit counts as mobile.
const MobileBreakpoint = 768

// IdentityOf returns the visitor identity of a record: its network address.
// Records without an address have no identity and are left out of every
// identity-keyed count.
func IdentityOf(r models.VisitRecord) (string, bool) {
	if r.IP == "" {
		return "", false
	}
	return r.IP, true
}

// IsMobile reports whether the record came from a screen narrower than
// MobileBreakpoint. Records without a screen width are desktop.
func IsMobile(r models.VisitRecord) bool {
	return r.ScreenWidth != nil && *r.ScreenWidth < MobileBreakpoint
}
