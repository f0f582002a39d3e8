package ws

import (
	"encoding/json"

	server "crowdcast/server"
)

// clientEvent is the inbound envelope: a named event plus its payload
// object. Payloads are decoded per event type so optional fields keep their
// explicit-zero-vs-absent distinction (pointer fields).
type clientEvent struct {
	Ver  int             `json:"ver,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type setNamePayload struct {
	Name string `json:"name"`
}

type sendMessagePayload struct {
	Text        string   `json:"text"`
	Effects     []string `json:"effects"`
	Type        string   `json:"type"`
	Holographic bool     `json:"holographic"`
	SoundEffect bool     `json:"soundEffect"`
}

type activateEffectPayload struct {
	Effect string `json:"effect"`
}

type holographicPayload struct {
	Type     string          `json:"type"`
	Position server.Position `json:"position"`
}

type playSoundPayload struct {
	Sound  string   `json:"sound"`
	Volume *float64 `json:"volume"`
}

type particlesPayload struct {
	Type     string          `json:"type"`
	Position server.Position `json:"position"`
	Count    *int            `json:"count"`
}

type environmentPayload struct {
	Environment string `json:"environment"`
}

type votePayload struct {
	Option string `json:"option"`
	Effect string `json:"effect"`
}
