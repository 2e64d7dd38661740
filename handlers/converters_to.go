package handlers

import (
	"webservers/domain"
)

// LastPulseLayout is the wire format of last_pulse, always in UTC.
const LastPulseLayout = "2006-01-02 15:04:05"

// EndpointInfo is one discovered server.
type EndpointInfo struct {
	Address   string  `json:"address"`
	Port      int     `json:"port"`
	LastPulse *string `json:"last_pulse,omitempty"`
}

// LatestVersionResponse is the body of GET /latest_version.
type LatestVersionResponse struct {
	LatestVersion string `json:"latest_version"`
}

// StatusResponse is the body returned to clients already on the latest version.
type StatusResponse struct {
	Status string `json:"status"`
}

// toEndpointsResponse converts domain endpoints to API response. last_pulse is present only for
// endpoints that carry one.
func toEndpointsResponse(endpoints []domain.Endpoint) []EndpointInfo {
	out := make([]EndpointInfo, 0, len(endpoints))
	for _, e := range endpoints {
		info := EndpointInfo{
			Address: e.Address,
			Port:    e.Port,
		}
		if e.LastPulse != nil {
			pulse := e.LastPulse.UTC().Format(LastPulseLayout)
			info.LastPulse = &pulse
		}
		out = append(out, info)
	}
	return out
}
