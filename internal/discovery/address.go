package discovery

import "net"

// preferIPv4 returns the first IPv4 address, falling back to the first
// IPv6 address, or "" if neither list has an entry (spec §4.7 "one IPv4 is
// preferred over IPv6").
func preferIPv4(v4, v6 []net.IP) string {
	if len(v4) > 0 {
		return v4[0].String()
	}
	if len(v6) > 0 {
		return v6[0].String()
	}
	return ""
}
