package external

// SkillData represents skill information from external source
type SkillData struct {
	// ID is the API key, e.g. "animal-handling"
	ID   string
	Name string

	// Ability is the governing ability score key, e.g. "wis"
	Ability string
}
