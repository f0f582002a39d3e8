package server

import (
	"testing"
	"time"
)

func TestEphemeralStorePurgesByRetention(t *testing.T) {
	clock := newManualClock()
	store := newEphemeralStore[SoundRecord](time.Minute)

	store.append(clock.Now(), SoundRecord{ID: "old"})
	clock.Advance(45 * time.Second)
	store.append(clock.Now(), SoundRecord{ID: "young"})
	clock.Advance(30 * time.Second)

	// "old" is now 75s stale, "young" only 30s.
	if removed := store.purge(clock.Now()); removed != 1 {
		t.Fatalf("purge removed %d records, want 1", removed)
	}
	records := store.snapshot()
	if len(records) != 1 || records[0].ID != "young" {
		t.Fatalf("snapshot after purge = %v, want only young", records)
	}
}

func TestEphemeralStorePurgeIsIdempotentWhenFresh(t *testing.T) {
	clock := newManualClock()
	store := newEphemeralStore[HolographicRecord](30 * time.Second)

	store.append(clock.Now(), HolographicRecord{ID: "a"})
	store.append(clock.Now(), HolographicRecord{ID: "b"})

	if removed := store.purge(clock.Now()); removed != 0 {
		t.Fatalf("purge of fresh records removed %d", removed)
	}
	if store.size() != 2 {
		t.Fatalf("store size = %d, want 2", store.size())
	}
}

func TestHolographicReactionStoredAndBroadcast(t *testing.T) {
	hub, _, _ := newTestHub(t)
	id, conn := connectParticipant(t, hub)
	hub.SetName(id, "Lin")

	record, ok := hub.AddHolographicReaction(id, "heart", Position{X: 0.4, Y: 0.6})
	if !ok {
		t.Fatal("expected reaction to be accepted")
	}
	if record.ID == "" || record.AuthorName != "Lin" || record.Kind != "heart" {
		t.Fatalf("record = %+v", record)
	}

	frames := conn.eventsOfType(t, eventHolographicEffect)
	if len(frames) != 1 {
		t.Fatalf("expected one holographic_effect broadcast, got %d", len(frames))
	}
	if hub.World().Holograms[0].ID != record.ID {
		t.Fatal("reaction missing from world snapshot")
	}
}

func TestPlaySoundDefaultsVolumeOnlyWhenAbsent(t *testing.T) {
	hub, _, _ := newTestHub(t)
	id, _ := connectParticipant(t, hub)

	record, ok := hub.PlaySound(id, "airhorn", nil)
	if !ok {
		t.Fatal("expected sound to be accepted")
	}
	if record.Volume != defaultSoundVolume {
		t.Fatalf("absent volume defaulted to %v, want %v", record.Volume, defaultSoundVolume)
	}

	zero := 0.0
	record, _ = hub.PlaySound(id, "whisper", &zero)
	if record.Volume != 0 {
		t.Fatalf("explicit zero volume became %v", record.Volume)
	}
}

func TestCreateParticlesDefaultsCountOnlyWhenAbsent(t *testing.T) {
	hub, _, _ := newTestHub(t)
	id, _ := connectParticipant(t, hub)

	record, ok := hub.CreateParticles(id, "confetti", Position{}, nil)
	if !ok {
		t.Fatal("expected burst to be accepted")
	}
	if record.Count != defaultParticleCount {
		t.Fatalf("absent count defaulted to %d, want %d", record.Count, defaultParticleCount)
	}

	zero := 0
	record, _ = hub.CreateParticles(id, "confetti", Position{}, &zero)
	if record.Count != 0 {
		t.Fatalf("explicit zero count became %d", record.Count)
	}
}

func TestEphemeralActionsFromUnknownParticipantAreDropped(t *testing.T) {
	hub, _, _ := newTestHub(t)
	_, conn := connectParticipant(t, hub)

	if _, ok := hub.AddHolographicReaction("participant-404", "heart", Position{}); ok {
		t.Fatal("expected reaction from unknown participant to be dropped")
	}
	if _, ok := hub.PlaySound("participant-404", "airhorn", nil); ok {
		t.Fatal("expected sound from unknown participant to be dropped")
	}
	if _, ok := hub.CreateParticles("participant-404", "confetti", Position{}, nil); ok {
		t.Fatal("expected burst from unknown participant to be dropped")
	}
	for _, event := range []string{eventHolographicEffect, eventSoundEffect, eventParticleEffect} {
		if len(conn.eventsOfType(t, event)) != 0 {
			t.Fatalf("dropped action still broadcast %s", event)
		}
	}
}

func TestCleanupPurgesExpiredWorldRecords(t *testing.T) {
	hub, clock, _ := newTestHub(t)
	id, _ := connectParticipant(t, hub)

	hub.AddHolographicReaction(id, "heart", Position{})
	hub.PlaySound(id, "airhorn", nil)
	hub.CreateParticles(id, "confetti", Position{}, nil)

	// Past the hologram and particle windows but inside the sound window.
	clock.Advance(holographicRetention + time.Second)
	hub.cleanup(clock.Now())

	world := hub.World()
	if len(world.Holograms) != 0 {
		t.Fatalf("expected holograms purged, got %d", len(world.Holograms))
	}
	if len(world.Particles) != 0 {
		t.Fatalf("expected particles purged, got %d", len(world.Particles))
	}
	if len(world.Sounds) != 1 {
		t.Fatalf("expected sound retained, got %d", len(world.Sounds))
	}

	clock.Advance(soundRetention)
	hub.cleanup(clock.Now())
	if len(hub.World().Sounds) != 0 {
		t.Fatal("expected sound purged after its window")
	}
}

func TestCleanupPrunesExpiredParticipantEffects(t *testing.T) {
	hub, clock, _ := newTestHub(t)
	id, _ := connectParticipant(t, hub)
	hub.ActivateEffect(id, "fireworks")

	clock.Advance(time.Duration(effectCatalog["fireworks"].Duration+1) * time.Second)
	hub.cleanup(clock.Now())

	hub.mu.Lock()
	live := len(hub.participants[id].Effects)
	hub.mu.Unlock()
	if live != 0 {
		t.Fatalf("cleanup left %d expired effects attached", live)
	}
}
