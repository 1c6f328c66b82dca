package systems

// Character is the read-only view of a character a rule system needs.
//
// Lookups report false when the character has no value for the name; rule
// systems treat a missing score as 0.
type Character interface {
	SkillScore(name string) (int, bool)
	StatScore(name string) (int, bool)
	GetLevel() int
	GetExperience() int
}
