package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"crowdcast/server/internal/telemetry"
	"crowdcast/server/logging"
	loggingLifecycle "crowdcast/server/logging/lifecycle"
	loggingNetwork "crowdcast/server/logging/network"
)

// wsConn is the subset of *websocket.Conn the hub writes through. Tests
// substitute an in-memory recorder.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type subscriber struct {
	conn wsConn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub owns all shared session state: the participant registry, message
// history, ephemeral stores, and the current environment. A single coarse
// mutex serializes every mutation; snapshots are copied out before any
// network write happens.
type Hub struct {
	mu           sync.Mutex
	participants map[string]*participantState
	order        []string
	subscribers  map[string]*subscriber
	nextID       atomic.Uint64
	history      []Message
	holograms    *ephemeralStore[HolographicRecord]
	sounds       *ephemeralStore[SoundRecord]
	particles    *ephemeralStore[ParticleRecord]
	effectUsage  *ephemeralStore[EffectUsageRecord]
	environment  Environment

	personality     Personality
	responderChance float64
	cleanupInterval time.Duration
	clock           logging.Clock
	rng             *rand.Rand
	publisher       logging.Publisher
	logger          telemetry.Logger
	after           func(d time.Duration, f func())
	closed          atomic.Bool

	broadcastsTotal atomic.Uint64
	sendErrorsTotal atomic.Uint64
	messagesTotal   atomic.Uint64
}

// NewHub creates a hub with production defaults.
func NewHub() *Hub {
	return NewHubWithConfig(DefaultHubConfig())
}

// NewHubWithConfig creates a hub with the given collaborators. Catalogs are
// package-level tables; ValidateCatalogs guards them at process start.
func NewHubWithConfig(cfg HubConfig) *Hub {
	clock := cfg.Clock
	if clock == nil {
		clock = logging.SystemClock{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	after := cfg.After
	if after == nil {
		after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	personality := cfg.Personality
	if personality == "" {
		personality = defaultPersonality
	}
	chance := cfg.ResponderChance
	if chance == 0 {
		chance = responderChance
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = cleanupInterval
	}

	return &Hub{
		participants:    make(map[string]*participantState),
		subscribers:     make(map[string]*subscriber),
		holograms:       newEphemeralStore[HolographicRecord](holographicRetention),
		sounds:          newEphemeralStore[SoundRecord](soundRetention),
		particles:       newEphemeralStore[ParticleRecord](particleRetention),
		effectUsage:     newEphemeralStore[EffectUsageRecord](effectUsageRetention),
		environment:     defaultEnvironment,
		personality:     personality,
		responderChance: chance,
		cleanupInterval: interval,
		clock:           clock,
		rng:             rand.New(rand.NewSource(seed)),
		publisher:       publisher,
		logger:          logger,
		after:           after,
	}
}

// ValidateCatalogs checks the static effect, achievement, and personality
// tables. Called once at process start.
func ValidateCatalogs() error {
	return validateCatalogs()
}

// registerLocked creates a participant with default state. A duplicate id is
// an invariant violation (the transport guarantees unique ids): the call is
// rejected, logged, and existing state is left untouched.
func (h *Hub) registerLocked(id string, now time.Time) (*participantState, error) {
	if _, exists := h.participants[id]; exists {
		loggingLifecycle.DuplicateJoin(context.Background(), h.publisher,
			logging.EntityRef{ID: id, Kind: logging.EntityKindParticipant})
		return nil, fmt.Errorf("participant %q already registered", id)
	}
	state := newParticipantState(id, now)
	h.participants[id] = state
	h.order = append(h.order, id)
	return state, nil
}

// Connect registers a fresh participant for the connection, delivers the
// welcome payload on it, and announces the new roster to everyone else.
func (h *Hub) Connect(conn wsConn) (string, error) {
	id := fmt.Sprintf("participant-%d", h.nextID.Add(1))

	h.mu.Lock()
	now := h.clock.Now()
	if _, err := h.registerLocked(id, now); err != nil {
		h.mu.Unlock()
		return "", err
	}
	sub := &subscriber{conn: conn}
	h.subscribers[id] = sub
	welcome := welcomeMessage{
		Ver:          ProtocolVersion,
		Type:         eventWelcome,
		ID:           id,
		Effects:      effectDefinitions(),
		Achievements: achievementDefinitions(),
		Environments: environments(),
		Environment:  h.environment,
		Participants: h.snapshotLocked(now),
		Messages:     h.recentLocked(welcomeRecent),
		Leaderboard:  h.recomputeLeaderboardLocked(),
		ServerTime:   now.UnixMilli(),
	}
	update := h.participantsUpdateLocked(now)
	h.mu.Unlock()

	loggingLifecycle.Joined(context.Background(), h.publisher,
		logging.EntityRef{ID: id, Kind: logging.EntityKindParticipant},
		loggingLifecycle.JoinedPayload{Participants: len(update.Participants)})

	data, err := json.Marshal(welcome)
	if err != nil {
		h.Disconnect(id)
		return "", fmt.Errorf("marshal welcome for %s: %w", id, err)
	}
	if err := sub.write(data); err != nil {
		h.Disconnect(id)
		return "", fmt.Errorf("deliver welcome to %s: %w", id, err)
	}

	h.broadcast(eventParticipantsUpdate, update)
	return id, nil
}

// Lookup returns a point-in-time copy of a participant.
func (h *Hub) Lookup(id string) (Participant, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.participants[id]
	if !ok {
		return Participant{}, false
	}
	state.pruneEffects(h.clock.Now())
	return state.snapshot(), true
}

// Disconnect removes a participant and its subscriber. Removing an unknown
// id is a no-op.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	sub, subOK := h.subscribers[id]
	if subOK {
		delete(h.subscribers, id)
	}
	_, known := h.participants[id]
	var update participantsMessage
	if known {
		delete(h.participants, id)
		for i, existing := range h.order {
			if existing == id {
				h.order = append(h.order[:i], h.order[i+1:]...)
				break
			}
		}
		update = h.participantsUpdateLocked(h.clock.Now())
	}
	h.mu.Unlock()

	if subOK {
		sub.conn.Close()
	}
	if !known {
		return
	}

	loggingLifecycle.Left(context.Background(), h.publisher,
		logging.EntityRef{ID: id, Kind: logging.EntityKindParticipant},
		loggingLifecycle.LeftPayload{Participants: len(update.Participants)})

	go h.broadcast(eventParticipantsUpdate, update)
}

// SetName renames a participant and runs the achievement pass (first
// contact). Unknown ids are dropped silently.
func (h *Hub) SetName(id, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	h.mu.Lock()
	state, ok := h.participants[id]
	if !ok {
		h.mu.Unlock()
		return false
	}
	state.Name = name
	state.named = true
	unlocks := h.evaluateAchievementsLocked(state)
	update := h.participantsUpdateLocked(h.clock.Now())
	h.mu.Unlock()

	loggingLifecycle.NameChanged(context.Background(), h.publisher,
		logging.EntityRef{ID: id, Kind: logging.EntityKindParticipant},
		loggingLifecycle.NameChangedPayload{Name: name})

	for _, unlock := range unlocks {
		h.sendTo(id, eventAchievementUnlocked, unlock)
	}
	h.broadcast(eventParticipantsUpdate, update)
	return true
}

// Snapshot returns defensive copies of every participant in registry
// insertion order.
func (h *Hub) Snapshot() []Participant {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked(h.clock.Now())
}

func (h *Hub) snapshotLocked(now time.Time) []Participant {
	participants := make([]Participant, 0, len(h.order))
	for _, id := range h.order {
		state, ok := h.participants[id]
		if !ok {
			continue
		}
		state.pruneEffects(now)
		participants = append(participants, state.snapshot())
	}
	return participants
}

func (h *Hub) participantsUpdateLocked(now time.Time) participantsMessage {
	return participantsMessage{
		Ver:          ProtocolVersion,
		Type:         eventParticipantsUpdate,
		Participants: h.snapshotLocked(now),
		Leaderboard:  h.recomputeLeaderboardLocked(),
		ServerTime:   now.UnixMilli(),
	}
}

// ChangeEnvironment switches the shared backdrop. Unknown participants and
// invalid environment names are both ignored without surfacing an error.
func (h *Hub) ChangeEnvironment(id, value string) bool {
	env, ok := parseEnvironment(value)
	if !ok {
		return false
	}

	h.mu.Lock()
	state, known := h.participants[id]
	if !known {
		h.mu.Unlock()
		return false
	}
	h.environment = env
	changedBy := state.Name
	h.mu.Unlock()

	h.broadcast(eventEnvironmentChanged, environmentMessage{
		Ver:         ProtocolVersion,
		Type:        eventEnvironmentChanged,
		Environment: env,
		ChangedBy:   changedBy,
	})
	return true
}

// CastVote rebroadcasts a vote without touching any state.
func (h *Hub) CastVote(id, option, effect string) bool {
	if option == "" {
		return false
	}
	h.mu.Lock()
	state, known := h.participants[id]
	if !known {
		h.mu.Unlock()
		return false
	}
	name := state.Name
	h.mu.Unlock()

	h.broadcast(eventVoteCast, voteMessage{
		Ver:    ProtocolVersion,
		Type:   eventVoteCast,
		ID:     id,
		Name:   name,
		Option: option,
		Effect: effect,
	})
	return true
}

// AddHolographicReaction appends a visual reaction to the ephemeral store
// and rebroadcasts it with the author attached.
func (h *Hub) AddHolographicReaction(id, kind string, pos Position) (HolographicRecord, bool) {
	h.mu.Lock()
	state, known := h.participants[id]
	if !known {
		h.mu.Unlock()
		return HolographicRecord{}, false
	}
	now := h.clock.Now()
	record := HolographicRecord{
		ID:         uuid.NewString(),
		AuthorID:   id,
		AuthorName: state.Name,
		Kind:       kind,
		Position:   pos,
		CreatedAt:  now,
	}
	h.holograms.append(now, record)
	h.mu.Unlock()

	h.broadcast(eventHolographicEffect, holographicMessage{Ver: ProtocolVersion, Type: eventHolographicEffect, Record: record})
	return record, true
}

// PlaySound appends a sound play to the ephemeral store and rebroadcasts it.
// A nil volume means "not provided" and takes the default; an explicit zero
// is kept as zero.
func (h *Hub) PlaySound(id, sound string, volume *float64) (SoundRecord, bool) {
	h.mu.Lock()
	state, known := h.participants[id]
	if !known {
		h.mu.Unlock()
		return SoundRecord{}, false
	}
	level := defaultSoundVolume
	if volume != nil {
		level = *volume
	}
	now := h.clock.Now()
	record := SoundRecord{
		ID:         uuid.NewString(),
		AuthorID:   id,
		AuthorName: state.Name,
		Sound:      sound,
		Volume:     level,
		CreatedAt:  now,
	}
	h.sounds.append(now, record)
	h.mu.Unlock()

	h.broadcast(eventSoundEffect, soundMessage{Ver: ProtocolVersion, Type: eventSoundEffect, Record: record})
	return record, true
}

// CreateParticles appends a particle burst to the ephemeral store and
// rebroadcasts it. Nil count takes the default; explicit zero is kept.
func (h *Hub) CreateParticles(id, kind string, pos Position, count *int) (ParticleRecord, bool) {
	h.mu.Lock()
	state, known := h.participants[id]
	if !known {
		h.mu.Unlock()
		return ParticleRecord{}, false
	}
	amount := defaultParticleCount
	if count != nil {
		amount = *count
	}
	now := h.clock.Now()
	record := ParticleRecord{
		ID:         uuid.NewString(),
		AuthorID:   id,
		AuthorName: state.Name,
		Kind:       kind,
		Position:   pos,
		Count:      amount,
		CreatedAt:  now,
	}
	h.particles.append(now, record)
	h.mu.Unlock()

	h.broadcast(eventParticleEffect, particleMessage{Ver: ProtocolVersion, Type: eventParticleEffect, Record: record})
	return record, true
}

// RunCleanup drives the periodic purge loop until the stop channel closes.
// This is the only background activity the hub schedules itself.
func (h *Hub) RunCleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(h.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.cleanup(h.clock.Now())
		}
	}
}

func (h *Hub) cleanup(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := h.holograms.purge(now)
	removed += h.sounds.purge(now)
	removed += h.particles.purge(now)
	removed += h.effectUsage.purge(now)

	if len(h.history) > maxHistory {
		h.history = append(h.history[:0:0], h.history[len(h.history)-maxHistory:]...)
	}
	for _, state := range h.participants {
		state.pruneEffects(now)
	}

	if removed > 0 {
		h.logger.Printf("cleanup purged %d ephemeral records", removed)
	}
}

// Close marks the hub stopped and closes every subscriber connection.
// Already-scheduled ambient responses are silently dropped from here on;
// shutdown cancellation is best effort.
func (h *Hub) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.subscribers = make(map[string]*subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.conn.Close()
	}
}

// broadcast sends one payload to every subscriber. A failed write drops that
// subscriber entirely; the roster update that follows is broadcast from a
// fresh goroutine to avoid recursing inside the send loop.
func (h *Hub) broadcast(event string, payload any) {
	if h.closed.Load() {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("failed to marshal %s broadcast: %v", event, err)
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	h.broadcastsTotal.Add(1)
	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.sendErrorsTotal.Add(1)
			loggingNetwork.BroadcastFailed(context.Background(), h.publisher,
				logging.EntityRef{ID: id, Kind: logging.EntityKindParticipant},
				loggingNetwork.BroadcastFailedPayload{Event: event, Error: err.Error()})
			h.Disconnect(id)
		}
	}
}

// sendTo delivers a targeted payload to a single subscriber.
func (h *Hub) sendTo(id, event string, payload any) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	h.mu.Unlock()
	if !ok {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("failed to marshal %s for %s: %v", event, id, err)
		return
	}
	if err := sub.write(data); err != nil {
		h.sendErrorsTotal.Add(1)
		loggingNetwork.BroadcastFailed(context.Background(), h.publisher,
			logging.EntityRef{ID: id, Kind: logging.EntityKindParticipant},
			loggingNetwork.BroadcastFailedPayload{Event: event, Error: err.Error()})
		h.Disconnect(id)
	}
}

var _ wsConn = (*websocket.Conn)(nil)
