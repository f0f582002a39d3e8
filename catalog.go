package server

import "fmt"

// EffectName identifies a purchasable cosmetic effect.
type EffectName string

const (
	EffectRainbowTrail EffectName = "rainbow_trail"
	EffectSparkleAura  EffectName = "sparkle_aura"
	EffectGoldenGlow   EffectName = "golden_glow"
	EffectDiscoMode    EffectName = "disco_mode"
	EffectGiantMode    EffectName = "giant_mode"
	EffectFireworks    EffectName = "fireworks"
)

// EffectDefinition is a static catalog entry. Cost is debited up front;
// Duration is informational for clients, expiry is pruned lazily.
type EffectDefinition struct {
	Name     EffectName `json:"name"`
	Label    string     `json:"label"`
	Cost     int        `json:"cost"`
	Duration int        `json:"duration"`
}

var effectCatalog = buildEffectCatalog()

func buildEffectCatalog() map[EffectName]EffectDefinition {
	defs := []EffectDefinition{
		{Name: EffectRainbowTrail, Label: "Rainbow Trail", Cost: 50, Duration: 10},
		{Name: EffectSparkleAura, Label: "Sparkle Aura", Cost: 30, Duration: 15},
		{Name: EffectGoldenGlow, Label: "Golden Glow", Cost: 80, Duration: 20},
		{Name: EffectDiscoMode, Label: "Disco Mode", Cost: 100, Duration: 12},
		{Name: EffectGiantMode, Label: "Giant Mode", Cost: 150, Duration: 8},
		{Name: EffectFireworks, Label: "Fireworks", Cost: 120, Duration: 6},
	}
	catalog := make(map[EffectName]EffectDefinition, len(defs))
	for _, def := range defs {
		catalog[def.Name] = def
	}
	return catalog
}

// AchievementID identifies a one-time badge.
type AchievementID string

const (
	AchievementFirstContact   AchievementID = "first_contact"
	AchievementCreativeGenius AchievementID = "creative_genius"
	AchievementEffectMaster   AchievementID = "effect_master"
)

type AchievementDefinition struct {
	ID     AchievementID `json:"id"`
	Label  string        `json:"label"`
	Reward int           `json:"reward"`
}

var achievementCatalog = buildAchievementCatalog()

func buildAchievementCatalog() map[AchievementID]AchievementDefinition {
	defs := []AchievementDefinition{
		{ID: AchievementFirstContact, Label: "First Contact", Reward: 100},
		{ID: AchievementCreativeGenius, Label: "Creative Genius", Reward: 500},
		{ID: AchievementEffectMaster, Label: "Effect Master", Reward: 300},
	}
	catalog := make(map[AchievementID]AchievementDefinition, len(defs))
	for _, def := range defs {
		catalog[def.ID] = def
	}
	return catalog
}

// Environment is the shared virtual-world backdrop.
type Environment string

const (
	EnvironmentForest Environment = "forest"
	EnvironmentOcean  Environment = "ocean"
	EnvironmentSpace  Environment = "space"
	EnvironmentCity   Environment = "city"
	EnvironmentDesert Environment = "desert"

	defaultEnvironment = EnvironmentForest
)

// parseEnvironment validates an environment string received from a client.
func parseEnvironment(value string) (Environment, bool) {
	switch Environment(value) {
	case EnvironmentForest, EnvironmentOcean, EnvironmentSpace, EnvironmentCity, EnvironmentDesert:
		return Environment(value), true
	default:
		return "", false
	}
}

func environments() []Environment {
	return []Environment{EnvironmentForest, EnvironmentOcean, EnvironmentSpace, EnvironmentCity, EnvironmentDesert}
}

// effectDefinitions returns catalog entries in a stable order for the
// welcome payload.
func effectDefinitions() []EffectDefinition {
	names := []EffectName{
		EffectRainbowTrail, EffectSparkleAura, EffectGoldenGlow,
		EffectDiscoMode, EffectGiantMode, EffectFireworks,
	}
	defs := make([]EffectDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, effectCatalog[name])
	}
	return defs
}

func achievementDefinitions() []AchievementDefinition {
	ids := []AchievementID{AchievementFirstContact, AchievementCreativeGenius, AchievementEffectMaster}
	defs := make([]AchievementDefinition, 0, len(ids))
	for _, id := range ids {
		defs = append(defs, achievementCatalog[id])
	}
	return defs
}

// validateCatalogs rejects malformed catalog tables before the hub starts.
func validateCatalogs() error {
	for name, def := range effectCatalog {
		if name == "" || def.Name != name {
			return fmt.Errorf("effect catalog entry %q has mismatched name %q", name, def.Name)
		}
		if def.Cost < 0 {
			return fmt.Errorf("effect %q has negative cost %d", name, def.Cost)
		}
		if def.Duration <= 0 {
			return fmt.Errorf("effect %q has non-positive duration %d", name, def.Duration)
		}
	}
	for id, def := range achievementCatalog {
		if id == "" || def.ID != id {
			return fmt.Errorf("achievement catalog entry %q has mismatched id %q", id, def.ID)
		}
		if def.Reward < 0 {
			return fmt.Errorf("achievement %q has negative reward %d", id, def.Reward)
		}
	}
	for _, personality := range personalities() {
		if len(responderPhrases[personality]) == 0 {
			return fmt.Errorf("personality %q has no phrases", personality)
		}
	}
	return nil
}
