package ws

import (
	"encoding/json"
	nethttp "net/http"

	"github.com/gorilla/websocket"

	server "crowdcast/server"
	"crowdcast/server/internal/telemetry"
)

// Handler upgrades connections and runs one session read loop per
// participant. Registration happens at upgrade time: the connection id is
// the participant id for its whole lifetime.
type Handler struct {
	hub      *server.Hub
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

type HandlerConfig struct {
	Logger telemetry.Logger
}

func NewHandler(hub *server.Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(func(string, ...any) {})
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}
	return &Handler{hub: hub, logger: logger, upgrader: upgrader}
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}

	id, err := h.hub.Connect(conn)
	if err != nil {
		h.logger.Printf("connect rejected: %v", err)
		conn.Close()
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.hub.Disconnect(id)
			return
		}

		var event clientEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			h.logger.Printf("discarding malformed frame from %s: %v", id, err)
			continue
		}
		h.dispatch(id, event)
	}
}

// dispatch routes one decoded inbound event. Unknown participants are
// dropped inside the hub; unknown event types are logged and skipped.
func (h *Handler) dispatch(id string, event clientEvent) {
	switch event.Type {
	case "set_name":
		var p setNamePayload
		if !decode(event.Data, &p, h.logger, id, event.Type) {
			return
		}
		h.hub.SetName(id, p.Name)
	case "send_message":
		var p sendMessagePayload
		if !decode(event.Data, &p, h.logger, id, event.Type) {
			return
		}
		h.hub.SendMessage(id, server.MessageInput{
			Text:        p.Text,
			Effects:     p.Effects,
			Kind:        p.Type,
			Holographic: p.Holographic,
			SoundEffect: p.SoundEffect,
		})
	case "activate_effect":
		var p activateEffectPayload
		if !decode(event.Data, &p, h.logger, id, event.Type) {
			return
		}
		h.hub.ActivateEffect(id, p.Effect)
	case "holographic_reaction":
		var p holographicPayload
		if !decode(event.Data, &p, h.logger, id, event.Type) {
			return
		}
		h.hub.AddHolographicReaction(id, p.Type, p.Position)
	case "play_sound":
		var p playSoundPayload
		if !decode(event.Data, &p, h.logger, id, event.Type) {
			return
		}
		h.hub.PlaySound(id, p.Sound, p.Volume)
	case "create_particles":
		var p particlesPayload
		if !decode(event.Data, &p, h.logger, id, event.Type) {
			return
		}
		h.hub.CreateParticles(id, p.Type, p.Position, p.Count)
	case "change_environment":
		var p environmentPayload
		if !decode(event.Data, &p, h.logger, id, event.Type) {
			return
		}
		h.hub.ChangeEnvironment(id, p.Environment)
	case "vote":
		var p votePayload
		if !decode(event.Data, &p, h.logger, id, event.Type) {
			return
		}
		h.hub.CastVote(id, p.Option, p.Effect)
	default:
		h.logger.Printf("unknown event type %q from %s", event.Type, id)
	}
}

func decode(data json.RawMessage, target any, logger telemetry.Logger, id, kind string) bool {
	if len(data) == 0 {
		return true
	}
	if err := json.Unmarshal(data, target); err != nil {
		logger.Printf("discarding malformed %s payload from %s: %v", kind, id, err)
		return false
	}
	return true
}
