package server

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"crowdcast/server/logging"
	loggingChat "crowdcast/server/logging/chat"
	loggingEconomy "crowdcast/server/logging/economy"
)

// Message is an immutable chat entry. Author name is captured at send time
// and never re-resolved, so history stays stable across renames.
type Message struct {
	ID          string       `json:"id"`
	AuthorID    string       `json:"authorId"`
	AuthorName  string       `json:"authorName"`
	Text        string       `json:"text"`
	Kind        string       `json:"kind"`
	Effects     []EffectName `json:"effects,omitempty"`
	Holographic bool         `json:"holographic,omitempty"`
	SoundEffect bool         `json:"soundEffect,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// MessageInput carries the send_message payload after transport decoding.
type MessageInput struct {
	Text        string
	Effects     []string
	Kind        string
	Holographic bool
	SoundEffect bool
}

// SendMessage validates and enriches a chat message, credits the author,
// runs the achievement and leaderboard passes, and broadcasts the result.
// Messages from unknown ids are dropped silently: stale client state, not a
// fault.
func (h *Hub) SendMessage(authorID string, input MessageInput) (Message, bool) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return Message{}, false
	}
	kind := input.Kind
	if kind == "" {
		kind = "chat"
	}

	h.mu.Lock()
	state, ok := h.participants[authorID]
	if !ok {
		h.mu.Unlock()
		loggingChat.MessageDropped(context.Background(), h.publisher,
			logging.EntityRef{ID: authorID, Kind: logging.EntityKindParticipant},
			loggingChat.MessageDroppedPayload{Reason: "unknown participant"})
		return Message{}, false
	}

	now := h.clock.Now()
	effects := make([]EffectName, 0, len(input.Effects))
	for _, name := range input.Effects {
		effects = append(effects, EffectName(name))
	}
	message := Message{
		ID:          uuid.NewString(),
		AuthorID:    authorID,
		AuthorName:  state.Name,
		Text:        text,
		Kind:        kind,
		Effects:     effects,
		Holographic: input.Holographic,
		SoundEffect: input.SoundEffect,
		Timestamp:   now,
	}

	h.history = append(h.history, message)
	if len(h.history) > maxHistory {
		h.history = h.history[1:]
	}

	reward := messageReward + messageEffectBonus*len(effects)
	state.addPoints(reward)
	loggingEconomy.PointsGranted(context.Background(), h.publisher,
		logging.EntityRef{ID: authorID, Kind: logging.EntityKindParticipant},
		loggingEconomy.PointsGrantedPayload{Amount: reward, Reason: "message", Total: state.Points})

	unlocks := h.evaluateAchievementsLocked(state)

	if len(effects) > 0 {
		h.effectUsage.append(now, EffectUsageRecord{
			ID:         uuid.NewString(),
			AuthorID:   authorID,
			AuthorName: state.Name,
			Effects:    append([]EffectName(nil), effects...),
			CreatedAt:  now,
		})
	}

	update := h.participantsUpdateLocked(now)
	scheduleResponder := h.responderChance > 0 && h.rng.Float64() < h.responderChance
	var delay time.Duration
	if scheduleResponder {
		spread := responderMaxDelay - responderMinDelay
		delay = responderMinDelay + time.Duration(h.rng.Int63n(int64(spread)+1))
	}
	h.mu.Unlock()

	h.messagesTotal.Add(1)
	loggingChat.MessageSent(context.Background(), h.publisher,
		logging.EntityRef{ID: authorID, Kind: logging.EntityKindParticipant},
		loggingChat.MessageSentPayload{MessageID: message.ID, Length: len(text), Effects: len(effects), Reward: reward})

	for _, unlock := range unlocks {
		h.sendTo(authorID, eventAchievementUnlocked, unlock)
	}
	h.broadcast(eventNewMessage, newMessageMessage{Ver: ProtocolVersion, Type: eventNewMessage, Message: message})
	h.broadcast(eventParticipantsUpdate, update)

	if scheduleResponder {
		personality := h.personality
		loggingChat.ResponderScheduled(context.Background(), h.publisher,
			loggingChat.ResponderScheduledPayload{Personality: string(personality), DelayMillis: delay.Milliseconds()})
		h.after(delay, func() {
			h.broadcastAmbientResponse(personality)
		})
	}

	return message, true
}

// Recent returns the last n messages in send order.
func (h *Hub) Recent(n int) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.recentLocked(n)
}

func (h *Hub) recentLocked(n int) []Message {
	if n <= 0 {
		return []Message{}
	}
	start := len(h.history) - n
	if start < 0 {
		start = 0
	}
	return append([]Message(nil), h.history[start:]...)
}

// broadcastAmbientResponse fires a scheduled system-authored reaction. A
// participant disconnecting between scheduling and firing does not cancel
// the response; remaining subscribers still receive it.
func (h *Hub) broadcastAmbientResponse(personality Personality) {
	if h.closed.Load() {
		return
	}
	h.mu.Lock()
	text := h.respond(personality)
	now := h.clock.Now()
	h.mu.Unlock()

	h.broadcast(eventAIResponse, aiResponseMessage{
		Ver:         ProtocolVersion,
		Type:        eventAIResponse,
		Text:        text,
		Personality: personality,
		ServerTime:  now.UnixMilli(),
	})
}
