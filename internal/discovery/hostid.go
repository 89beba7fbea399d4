package discovery

import "strings"

// deriveHostID turns an mDNS instance name into a stable map key: lowercase,
// alphanumeric characters only (spec §4.7 "service-found").
func deriveHostID(instance string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(instance) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
