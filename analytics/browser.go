package analytics

import "strings"

type BrowserFamily string

const (
	BrowserChrome  BrowserFamily = "Chrome"
	BrowserSafari  BrowserFamily = "Safari"
	BrowserFirefox BrowserFamily = "Firefox"
	BrowserEdge    BrowserFamily = "Edge"
	BrowserOther   BrowserFamily = "Other"
)

// ClassifyBrowser maps a user agent to a browser family.
//
// Rule order matters: Edge sends a Chrome-like agent so it is tested first,
// and every Chrome agent also carries "safari", so Safari only matches when
// the Chrome token is absent.
func ClassifyBrowser(userAgent string) BrowserFamily {
	ua := strings.ToLower(userAgent)
	switch {
	case ua == "":
		return BrowserOther
	case strings.Contains(ua, "edg"):
		return BrowserEdge
	case strings.Contains(ua, "chrome"):
		return BrowserChrome
	case strings.Contains(ua, "safari"):
		return BrowserSafari
	case strings.Contains(ua, "firefox"):
		return BrowserFirefox
	default:
		return BrowserOther
	}
}
