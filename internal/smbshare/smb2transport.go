package smbshare

import (
	"context"
	"net"
	"time"

	"github.com/hirochachacha/go-smb2"
)

// smb2Transport is the production transport, backed by the go-smb2
// library (spec §4.8 "Guest attempt" / "Auth attempt").
type smb2Transport struct {
	dialTimeout time.Duration
}

func (t smb2Transport) guestList(ctx context.Context, address, _ string) ([]rawShare, error) {
	return t.list(ctx, address, &smb2.NTLMInitiator{User: "Guest", Password: ""})
}

func (t smb2Transport) authList(ctx context.Context, address, _ string, creds Credentials) ([]rawShare, error) {
	return t.list(ctx, address, &smb2.NTLMInitiator{User: creds.Username, Password: creds.Password})
}

// list dials address fresh every call (spec §4.8 "Auth attempt": "a fresh
// client is created") and enumerates share names over IPC$.
func (t smb2Transport) list(ctx context.Context, address string, initiator smb2.Initiator) ([]rawShare, error) {
	dialer := &net.Dialer{Timeout: t.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	d := &smb2.Dialer{Initiator: initiator}
	session, err := d.DialContext(ctx, conn)
	if err != nil {
		return nil, err
	}
	defer session.Logoff()

	names, err := session.ListSharenames()
	if err != nil {
		return nil, err
	}

	raw := make([]rawShare, 0, len(names))
	for _, name := range names {
		raw = append(raw, rawShare{name: name, isDisk: true})
	}
	return raw, nil
}
