package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/eggy/internal/input"
	"github.com/sweeney/eggy/internal/pet"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Ready         bool         `json:"ready"`
	Pet           PetJSON      `json:"pet"`
	Buttons       ButtonsJSON  `json:"buttons"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// PetJSON is the pet as the status page shows it.
type PetJSON struct {
	pet.Snapshot
	Face       string `json:"face"`
	Glyph      string `json:"glyph"`
	Stats      string `json:"stats"`
	StatusLine string `json:"status_line"`
	MenuOpen   bool   `json:"menu_open"`
	MenuItem   string `json:"menu_item,omitempty"`
}

// ButtonsJSON reports which buttons are held.
type ButtonsJSON struct {
	Left   bool `json:"left"`
	Middle bool `json:"middle"`
	Right  bool `json:"right"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PetName         string `json:"pet_name"`
	Tone            string `json:"tone"`
	PollMs          int64  `json:"poll_ms"`
	DebounceMs      int64  `json:"debounce_ms"`
	HeartbeatMs     int64  `json:"heartbeat_ms"`
	StateIntervalMs int64  `json:"state_interval_ms"`
	Broker          string `json:"broker"`
	HTTPAddr        string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	v := snap.View
	return StatusInner{
		Ready: snap.Ready(),
		Pet: PetJSON{
			Snapshot:   v.Pet,
			Face:       string(v.Face),
			Glyph:      v.Glyph,
			Stats:      v.Stats,
			StatusLine: v.StatusLine,
			MenuOpen:   v.MenuOpen,
			MenuItem:   v.MenuItem,
		},
		Buttons: ButtonsJSON{
			Left:   snap.Held[input.Left],
			Middle: snap.Held[input.Middle],
			Right:  snap.Held[input.Right],
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			PetName:         snap.Config.PetName,
			Tone:            snap.Config.Tone,
			PollMs:          snap.Config.PollMs,
			DebounceMs:      snap.Config.DebounceMs,
			HeartbeatMs:     snap.Config.HeartbeatMs,
			StateIntervalMs: snap.Config.StateIntervalMs,
			Broker:          snap.Config.Broker,
			HTTPAddr:        snap.Config.HTTPAddr,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the indented JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
