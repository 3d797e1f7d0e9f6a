package rtc

import (
	"errors"
	"fmt"

	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/Helpline/internal/config"
)

var ErrTURNCredentials = errors.New("turn server requires username and credential")

func DefaultWebRTCConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{"stun:stun.l.google.com:19302"},
			},
		},
	}
}

// ICEServers converts configured servers into what browsers expect in
// RTCPeerConnection({iceServers}). Every URL is parsed up front so a typo
// fails at startup instead of in the client.
func ICEServers(servers []config.ICEServer) ([]webrtc.ICEServer, error) {
	if len(servers) == 0 {
		return DefaultWebRTCConfig().ICEServers, nil
	}
	out := make([]webrtc.ICEServer, 0, len(servers))
	for i, s := range servers {
		if len(s.URLs) == 0 {
			return nil, fmt.Errorf("ice server %d: no urls", i)
		}
		for _, raw := range s.URLs {
			u, err := stun.ParseURI(raw)
			if err != nil {
				return nil, fmt.Errorf("ice server %d: %q: %w", i, raw, err)
			}
			if (u.Scheme == stun.SchemeTypeTURN || u.Scheme == stun.SchemeTypeTURNS) && (s.Username == "" || s.Credential == "") {
				return nil, fmt.Errorf("ice server %d: %q: %w", i, raw, ErrTURNCredentials)
			}
		}
		srv := webrtc.ICEServer{URLs: append([]string(nil), s.URLs...)}
		if s.Username != "" || s.Credential != "" {
			srv.Username = s.Username
			srv.Credential = s.Credential
			srv.CredentialType = webrtc.ICECredentialTypePassword
		}
		out = append(out, srv)
	}
	return out, nil
}
