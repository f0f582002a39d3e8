package server

import "testing"

func TestRespondDrawsFromConfiguredPersonality(t *testing.T) {
	hub, _, _ := newTestHub(t)

	for _, personality := range personalities() {
		table := responderPhrases[personality]
		seen := make(map[string]bool)
		for i := 0; i < 200; i++ {
			phrase := hub.respond(personality)
			found := false
			for _, candidate := range table {
				if candidate == phrase {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("phrase %q not in %s table", phrase, personality)
			}
			seen[phrase] = true
		}
		// 200 seeded draws over 5 phrases should touch every entry.
		if len(seen) != len(table) {
			t.Fatalf("%s draws covered %d of %d phrases", personality, len(seen), len(table))
		}
	}
}

func TestRespondFallsBackForUnknownPersonality(t *testing.T) {
	hub, _, _ := newTestHub(t)

	phrase := hub.respond(Personality("pirate"))
	for _, candidate := range responderPhrases[defaultPersonality] {
		if candidate == phrase {
			return
		}
	}
	t.Fatalf("fallback phrase %q not in default table", phrase)
}

func TestParsePersonality(t *testing.T) {
	for _, personality := range personalities() {
		parsed, ok := ParsePersonality(string(personality))
		if !ok || parsed != personality {
			t.Fatalf("ParsePersonality(%q) = %q, %v", personality, parsed, ok)
		}
	}
	if _, ok := ParsePersonality("pirate"); ok {
		t.Fatal("expected unknown personality to be rejected")
	}
}

func TestAmbientResponseSuppressedAfterClose(t *testing.T) {
	clock := newManualClock()
	after := &afterRecorder{}
	cfg := DefaultHubConfig()
	cfg.Clock = clock
	cfg.Seed = 1
	cfg.After = after.hook
	cfg.ResponderChance = 1
	hub := NewHubWithConfig(cfg)
	id, conn := connectParticipant(t, hub)

	hub.SendMessage(id, MessageInput{Text: "last call"})
	hub.Close()
	after.fireAll()

	if len(conn.eventsOfType(t, eventAIResponse)) != 0 {
		t.Fatal("scheduled response fired after hub close")
	}
}
