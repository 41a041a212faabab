// Package rtc holds the WebRTC settings handed to browsers. The relay never
// opens a PeerConnection itself; media flows peer to peer.
package rtc

import (
	"strings"

	"github.com/pion/webrtc/v4"
)

const defaultSTUN = "stun:stun.l.google.com:19302"

// DefaultWebRTCConfig is what clients get when nothing is configured.
func DefaultWebRTCConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{defaultSTUN},
			},
		},
	}
}

// ConfigFromURLs builds a Configuration from configured ICE URLs. Only STUN
// URLs are kept: TURN needs credentials and relaying, neither of which this
// server provides.
func ConfigFromURLs(urls []string) webrtc.Configuration {
	var stun []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if strings.HasPrefix(u, "stun:") || strings.HasPrefix(u, "stuns:") {
			stun = append(stun, u)
		}
	}
	if len(stun) == 0 {
		return DefaultWebRTCConfig()
	}
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{{URLs: stun}},
	}
}
