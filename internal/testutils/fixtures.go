package testutils

import (
	"github.com/KirkDiggler/rpg-roller/internal/entities"
)

// Default IDs used by fixtures
const (
	TestCampaignID = "campaign-test-001"
	TestPlayerID   = "player-test-001"
)

// CreateTestCharacter returns a valid level 1 character with 5e-style stats
func CreateTestCharacter(id, name string) *entities.Character {
	return &entities.Character{
		ID:         id,
		Name:       name,
		PlayerID:   TestPlayerID,
		CampaignID: TestCampaignID,
		System:     "dnd5e",
		Level:      1,
		Alive:      true,
		HP:         entities.HP{Current: 10, Max: 10},
		Stats: map[string]int{
			"str": 10, "dex": 14, "con": 12,
			"int": 8, "wis": 13, "cha": 15,
		},
		Skills: map[string]int{
			"Stealth":    4,
			"Perception": 3,
		},
		Attributes: []entities.Attribute{
			{Key: "Race", Value: "Half-Elf", Display: true},
		},
		Inventory: []string{"longbow"},
	}
}
