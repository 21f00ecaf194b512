package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pion/webrtc/v4"
)

var (
	ErrBadSTUNURL          = errors.New("stun url must start with stun: or stuns:")
	ErrBadTURNURL          = errors.New("turn url must start with turn: or turns:")
	ErrTURNWithoutCreds    = errors.New("turn urls require turn_username and turn_credential")
	ErrTURNCredsWithoutURL = errors.New("turn credentials set but no turn_urls")
)

// ParseICEServers turns the comma-separated stun/turn settings into the ICE
// server list handed to clients. STUN entries carry no credentials; TURN
// entries require both username and credential.
func ParseICEServers(stunURLs, turnURLs, turnUsername, turnCredential string) ([]webrtc.ICEServer, error) {
	var out []webrtc.ICEServer

	stun := splitURLList(stunURLs)
	for _, u := range stun {
		if !strings.HasPrefix(u, "stun:") && !strings.HasPrefix(u, "stuns:") {
			return nil, fmt.Errorf("%w: %q", ErrBadSTUNURL, u)
		}
	}
	if len(stun) > 0 {
		out = append(out, webrtc.ICEServer{URLs: stun})
	}

	turn := splitURLList(turnURLs)
	if len(turn) == 0 {
		if turnUsername != "" || turnCredential != "" {
			return nil, ErrTURNCredsWithoutURL
		}
		return out, nil
	}
	if turnUsername == "" || turnCredential == "" {
		return nil, ErrTURNWithoutCreds
	}
	for _, u := range turn {
		if !strings.HasPrefix(u, "turn:") && !strings.HasPrefix(u, "turns:") {
			return nil, fmt.Errorf("%w: %q", ErrBadTURNURL, u)
		}
	}
	out = append(out, webrtc.ICEServer{
		URLs:       turn,
		Username:   turnUsername,
		Credential: turnCredential,
	})

	return out, nil
}

func splitURLList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
