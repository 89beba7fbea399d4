package discovery

import "strings"

// ServiceNameToHostname derives a "<name>.local" fallback hostname when a
// UI-driven sync resolution needs one and none was captured during
// discovery (spec §4.7 "Service-name-to-hostname fallback"): lowercase,
// map space/apostrophe/hyphen to '-', drop other non-alphanumerics,
// collapse consecutive '-', trim leading/trailing '-'.
func ServiceNameToHostname(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ' || r == '\'' || r == '-':
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			// dropped
		}
	}
	slug := strings.Trim(b.String(), "-")
	return slug + ".local"
}
