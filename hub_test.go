package server

import (
	"testing"
	"time"
)

func TestConnectDeliversWelcomeWithDefaults(t *testing.T) {
	hub, _, _ := newTestHub(t)
	id, conn := connectParticipant(t, hub)

	welcomes := conn.eventsOfType(t, eventWelcome)
	if len(welcomes) != 1 {
		t.Fatalf("expected exactly one welcome frame, got %d", len(welcomes))
	}
	welcome := welcomes[0]
	if welcome["id"] != id {
		t.Fatalf("welcome id = %v, want %s", welcome["id"], id)
	}
	if welcome["environment"] != string(defaultEnvironment) {
		t.Fatalf("welcome environment = %v, want %s", welcome["environment"], defaultEnvironment)
	}

	participant, ok := hub.Lookup(id)
	if !ok {
		t.Fatalf("expected participant %s to be registered", id)
	}
	if participant.Name != defaultName {
		t.Fatalf("default name = %q, want %q", participant.Name, defaultName)
	}
	if participant.Points != startingPoints {
		t.Fatalf("starting points = %d, want %d", participant.Points, startingPoints)
	}
	if len(participant.Achievements) != 0 {
		t.Fatalf("expected no achievements on join, got %v", participant.Achievements)
	}
}

func TestConnectAssignsUniqueIDs(t *testing.T) {
	hub, _, _ := newTestHub(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id, _ := connectParticipant(t, hub)
		if seen[id] {
			t.Fatalf("duplicate participant id %s", id)
		}
		seen[id] = true
	}
}

func TestRegisterRejectsDuplicateID(t *testing.T) {
	hub, clock, _ := newTestHub(t)
	id, _ := connectParticipant(t, hub)

	hub.mu.Lock()
	before := hub.participants[id].Points
	_, err := hub.registerLocked(id, clock.Now())
	after := hub.participants[id].Points
	hub.mu.Unlock()

	if err == nil {
		t.Fatal("expected duplicate registration to be rejected")
	}
	if before != after {
		t.Fatalf("duplicate registration mutated state: %d -> %d", before, after)
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	hub, _, _ := newTestHub(t)
	id, conn := connectParticipant(t, hub)

	hub.Disconnect(id)
	if !conn.wasClosed() {
		t.Fatal("expected connection to be closed on disconnect")
	}
	if _, ok := hub.Lookup(id); ok {
		t.Fatalf("expected participant %s to be removed", id)
	}

	// Second removal of the same id must be a silent no-op.
	hub.Disconnect(id)
	hub.Disconnect("participant-does-not-exist")
}

func TestDisconnectedParticipantDropsOutOfSnapshots(t *testing.T) {
	hub, _, _ := newTestHub(t)
	idA, _ := connectParticipant(t, hub)
	idB, _ := connectParticipant(t, hub)

	hub.Disconnect(idA)

	for _, p := range hub.Snapshot() {
		if p.ID == idA {
			t.Fatalf("removed participant %s still present in snapshot", idA)
		}
	}
	for _, entry := range hub.Leaderboard() {
		if entry.ID == idA {
			t.Fatalf("removed participant %s still present in leaderboard", idA)
		}
	}
	if _, ok := hub.Lookup(idB); !ok {
		t.Fatalf("unrelated participant %s was removed", idB)
	}
}

func TestSnapshotIsDefensiveCopy(t *testing.T) {
	hub, _, _ := newTestHub(t)
	id, _ := connectParticipant(t, hub)
	hub.SetName(id, "Ada")

	snapshot := hub.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("expected one participant, got %d", len(snapshot))
	}
	snapshot[0].Name = "Mallory"
	snapshot[0].Points = -999
	snapshot[0].Achievements = append(snapshot[0].Achievements, AchievementID("forged"))

	participant, _ := hub.Lookup(id)
	if participant.Name != "Ada" {
		t.Fatalf("mutating snapshot leaked into registry: name = %q", participant.Name)
	}
	if participant.Points < 0 {
		t.Fatalf("mutating snapshot leaked into registry: points = %d", participant.Points)
	}
	for _, a := range participant.Achievements {
		if a == AchievementID("forged") {
			t.Fatal("mutating snapshot achievements leaked into registry")
		}
	}
}

func TestSetNameUnknownParticipantIsDropped(t *testing.T) {
	hub, _, _ := newTestHub(t)
	if hub.SetName("participant-404", "Ghost") {
		t.Fatal("expected rename of unknown participant to be dropped")
	}
}

func TestSetNameRejectsBlankName(t *testing.T) {
	hub, _, _ := newTestHub(t)
	id, _ := connectParticipant(t, hub)

	if hub.SetName(id, "   ") {
		t.Fatal("expected blank rename to be rejected")
	}
	participant, _ := hub.Lookup(id)
	if participant.Name != defaultName {
		t.Fatalf("blank rename changed name to %q", participant.Name)
	}
}

func TestBroadcastWriteFailureDropsSubscriber(t *testing.T) {
	hub, _, _ := newTestHub(t)
	idA, connA := connectParticipant(t, hub)
	_, connB := connectParticipant(t, hub)

	connA.failFromNow()
	hub.CastVote(idA, "option-1", "")

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := hub.Lookup(idA); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected failing subscriber to be disconnected")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !connA.wasClosed() {
		t.Fatal("expected failing connection to be closed")
	}
	if len(connB.eventsOfType(t, eventVoteCast)) != 1 {
		t.Fatal("expected healthy subscriber to still receive the broadcast")
	}
}

func TestChangeEnvironmentValidatesEnum(t *testing.T) {
	hub, _, _ := newTestHub(t)
	id, conn := connectParticipant(t, hub)

	if hub.ChangeEnvironment(id, "volcano") {
		t.Fatal("expected invalid environment to be ignored")
	}
	if len(conn.eventsOfType(t, eventEnvironmentChanged)) != 0 {
		t.Fatal("invalid environment change must not broadcast")
	}

	if !hub.ChangeEnvironment(id, "ocean") {
		t.Fatal("expected valid environment change to apply")
	}
	changed := conn.eventsOfType(t, eventEnvironmentChanged)
	if len(changed) != 1 {
		t.Fatalf("expected one environment_changed broadcast, got %d", len(changed))
	}
	if changed[0]["environment"] != "ocean" {
		t.Fatalf("environment_changed carried %v, want ocean", changed[0]["environment"])
	}
	if hub.World().Environment != EnvironmentOcean {
		t.Fatalf("world environment = %s, want ocean", hub.World().Environment)
	}
}

func TestVoteBroadcastsWithoutStateChange(t *testing.T) {
	hub, _, _ := newTestHub(t)
	id, conn := connectParticipant(t, hub)
	hub.SetName(id, "Val")
	before, _ := hub.Lookup(id)

	if !hub.CastVote(id, "map-2", "fireworks") {
		t.Fatal("expected vote to broadcast")
	}
	votes := conn.eventsOfType(t, eventVoteCast)
	if len(votes) != 1 {
		t.Fatalf("expected one vote_cast broadcast, got %d", len(votes))
	}
	if votes[0]["option"] != "map-2" || votes[0]["name"] != "Val" {
		t.Fatalf("vote_cast payload = %v", votes[0])
	}

	after, _ := hub.Lookup(id)
	if before.Points != after.Points {
		t.Fatalf("vote mutated points: %d -> %d", before.Points, after.Points)
	}
}

func TestVoteFromUnknownParticipantIsDropped(t *testing.T) {
	hub, _, _ := newTestHub(t)
	_, conn := connectParticipant(t, hub)

	if hub.CastVote("participant-404", "option", "") {
		t.Fatal("expected vote from unknown participant to be dropped")
	}
	if len(conn.eventsOfType(t, eventVoteCast)) != 0 {
		t.Fatal("dropped vote must not broadcast")
	}
}
