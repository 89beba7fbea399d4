package smbshare

// Credentials is the optional username/password pair passed to
// list_shares_with_credentials (spec §4.8 "Auth attempt").
type Credentials struct {
	Username string
	Password string
}
