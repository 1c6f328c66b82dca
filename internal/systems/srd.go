package systems

import (
	"github.com/KirkDiggler/rpg-roller/internal/clients/external"
)

// SkillsFromSRD converts skills fetched from the SRD API into a skill table.
// The SRD grants no flat rank bonus, so Ranks stays nil.
func SkillsFromSRD(skills []*external.SkillData) []*SkillDefinition {
	out := make([]*SkillDefinition, 0, len(skills))
	for _, skill := range skills {
		if skill == nil || skill.Name == "" {
			continue
		}
		out = append(out, &SkillDefinition{
			Name:          skill.Name,
			GoverningStat: skill.Ability,
		})
	}
	return out
}
