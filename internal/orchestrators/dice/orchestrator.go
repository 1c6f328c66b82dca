// Package dice implements the dice orchestrator: it resolves rule systems and
// characters, rolls through them and keeps the results in roll sessions
package dice

//go:generate mockgen -destination=mock/mock_service.go -package=dicemock github.com/KirkDiggler/rpg-roller/internal/orchestrators/dice Service

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-roller/internal/dice"
	"github.com/KirkDiggler/rpg-roller/internal/entities"
	"github.com/KirkDiggler/rpg-roller/internal/errors"
	"github.com/KirkDiggler/rpg-roller/internal/logger"
	"github.com/KirkDiggler/rpg-roller/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-roller/internal/pkg/idgen"
	characterrepo "github.com/KirkDiggler/rpg-roller/internal/repositories/character"
	rollsession "github.com/KirkDiggler/rpg-roller/internal/repositories/roll_session"
	"github.com/KirkDiggler/rpg-roller/internal/systems"
)

const (
	// ContextDefault groups rolls made without an explicit context
	ContextDefault = "general"

	// DefaultSessionTTL is used when neither the roll nor the config sets one
	DefaultSessionTTL = 15 * time.Minute
)

// Event types published on the event bus
const (
	EventDiceRolled         = "dice.rolled"
	EventSkillCheck         = "dice.skill_check"
	EventAbilityCheck       = "dice.ability_check"
	EventCharacterLevelUpOK = "character.level_up_ready"
)

// Service defines the interface for dice operations
type Service interface {
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)
	SkillCheck(ctx context.Context, input *SkillCheckInput) (*RollOutput, error)
	AbilityCheck(ctx context.Context, input *AbilityCheckInput) (*RollOutput, error)
	CheckLevelUp(ctx context.Context, input *CheckLevelUpInput) (*CheckLevelUpOutput, error)

	GetRollSession(ctx context.Context, input *GetRollSessionInput) (*GetRollSessionOutput, error)
	ClearRollSession(ctx context.Context, input *ClearRollSessionInput) (*ClearRollSessionOutput, error)
}

// Config holds the dependencies for the dice orchestrator
type Config struct {
	Registry        *systems.Registry
	DefaultSystem   string
	CharacterRepo   characterrepo.Repository
	RollSessionRepo rollsession.Repository
	IDGenerator     idgen.Generator

	// SessionTTL applies to new sessions when a roll does not ask for one;
	// zero means DefaultSessionTTL
	SessionTTL time.Duration

	// Clock defaults to the real clock
	Clock clock.Clock

	// EventBus is optional; nothing is published without one
	EventBus events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Registry == nil {
		vb.RequiredField("Registry")
	}
	if c.DefaultSystem == "" {
		vb.RequiredField("DefaultSystem")
	} else if c.Registry != nil {
		if _, err := c.Registry.Get(c.DefaultSystem); err != nil {
			vb.InvalidField("DefaultSystem", errors.GetMessage(err))
		}
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.RollSessionRepo == nil {
		vb.RequiredField("RollSessionRepo")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.SessionTTL < 0 {
		vb.InvalidField("SessionTTL", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	registry        *systems.Registry
	defaultSystem   string
	characterRepo   characterrepo.Repository
	rollSessionRepo rollsession.Repository
	idGen           idgen.Generator
	sessionTTL      time.Duration
	clock           clock.Clock
	eventBus        events.EventBus
}

// NewOrchestrator creates a new dice orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	return &orchestrator{
		registry:        cfg.Registry,
		defaultSystem:   cfg.DefaultSystem,
		characterRepo:   cfg.CharacterRepo,
		rollSessionRepo: cfg.RollSessionRepo,
		idGen:           cfg.IDGenerator,
		sessionTTL:      ttl,
		clock:           c,
		eventBus:        cfg.EventBus,
	}, nil
}

// Roll evaluates free-form notation and stores every result in the session
func (o *orchestrator) Roll(ctx context.Context, input *RollInput) (*RollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EntityID == "" {
		return nil, errors.InvalidArgument("entity ID is required")
	}
	if input.TTL < 0 {
		return nil, errors.InvalidArgument("ttl must not be negative")
	}

	system, err := o.system(input.System)
	if err != nil {
		return nil, err
	}

	results, err := system.Roll(input.Notation)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll dice")
	}

	output, err := o.record(ctx, recordInput{
		entityID:    input.EntityID,
		context:     input.Context,
		system:      system.Name(),
		kind:        rollsession.KindRoll,
		description: input.Description,
		ttl:         input.TTL,
		results:     results,
	})
	if err != nil {
		return nil, err
	}

	o.publish(ctx, EventDiceRolled, entityRef{id: input.EntityID, kind: "entity"}, output)

	slog.Info("Dice rolled successfully",
		"entity_id", input.EntityID,
		"context", output.Session.Context,
		"system", system.Name(),
		"notation", input.Notation,
		"results", len(results),
	)

	return output, nil
}

// SkillCheck rolls a named skill for a stored character
func (o *orchestrator) SkillCheck(ctx context.Context, input *SkillCheckInput) (*RollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Skill == "" {
		return nil, errors.InvalidArgument("skill is required")
	}

	character, system, err := o.characterAndSystem(ctx, input.CharacterID, input.System)
	if err != nil {
		return nil, err
	}

	results, err := system.SkillCheck(character, input.Skill)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll %s check", input.Skill)
	}

	skill := input.Skill
	if def, ok := system.Skill(input.Skill); ok {
		skill = def.Name
	}

	output, err := o.record(ctx, recordInput{
		entityID:    character.ID,
		context:     input.Context,
		system:      system.Name(),
		kind:        rollsession.KindSkillCheck,
		description: skill + " check",
		results:     results,
	})
	if err != nil {
		return nil, err
	}

	o.publish(ctx, EventSkillCheck, character, output)

	slog.Info("Skill check rolled",
		"character_id", character.ID,
		"system", system.Name(),
		"skill", skill,
		"total", results[0].Total,
	)

	return output, nil
}

// AbilityCheck rolls the system's default die plus the stat's modifier
func (o *orchestrator) AbilityCheck(ctx context.Context, input *AbilityCheckInput) (*RollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Stat == "" {
		return nil, errors.InvalidArgument("stat is required")
	}

	character, system, err := o.characterAndSystem(ctx, input.CharacterID, input.System)
	if err != nil {
		return nil, err
	}

	results, err := system.AbilityCheck(character, input.Stat)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll %s check", input.Stat)
	}

	output, err := o.record(ctx, recordInput{
		entityID:    character.ID,
		context:     input.Context,
		system:      system.Name(),
		kind:        rollsession.KindAbilityCheck,
		description: input.Stat + " check",
		results:     results,
	})
	if err != nil {
		return nil, err
	}

	o.publish(ctx, EventAbilityCheck, character, output)

	return output, nil
}

// CheckLevelUp asks the character's rule system whether it has earned a level
func (o *orchestrator) CheckLevelUp(ctx context.Context, input *CheckLevelUpInput) (*CheckLevelUpOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	character, system, err := o.characterAndSystem(ctx, input.CharacterID, input.System)
	if err != nil {
		return nil, err
	}

	output := &CheckLevelUpOutput{
		System:     system.Name(),
		Ready:      system.IsLevelUp(character),
		Level:      character.Level,
		Experience: character.Experience,
	}

	if output.Ready {
		o.publish(ctx, EventCharacterLevelUpOK, character, &RollOutput{System: system.Name()})
		slog.Info("Character ready to level up",
			"character_id", character.ID,
			"system", system.Name(),
			"level", character.Level,
			"experience", character.Experience,
		)
	}

	return output, nil
}

// GetRollSession retrieves an existing roll session
func (o *orchestrator) GetRollSession(ctx context.Context, input *GetRollSessionInput) (*GetRollSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EntityID == "" {
		return nil, errors.InvalidArgument("entity ID is required")
	}

	getOutput, err := o.rollSessionRepo.Get(ctx, rollsession.GetInput{
		EntityID: input.EntityID,
		Context:  contextOrDefault(input.Context),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get roll session")
	}

	return &GetRollSessionOutput{Session: getOutput.Session}, nil
}

// ClearRollSession removes a roll session
func (o *orchestrator) ClearRollSession(ctx context.Context, input *ClearRollSessionInput) (*ClearRollSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EntityID == "" {
		return nil, errors.InvalidArgument("entity ID is required")
	}

	rollCtx := contextOrDefault(input.Context)
	deleteOutput, err := o.rollSessionRepo.Delete(ctx, rollsession.DeleteInput{
		EntityID: input.EntityID,
		Context:  rollCtx,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete roll session")
	}

	slog.Info("Roll session cleared",
		"entity_id", input.EntityID,
		"context", rollCtx,
		"rolls_deleted", deleteOutput.RollsDeleted,
	)

	return &ClearRollSessionOutput{RollsDeleted: deleteOutput.RollsDeleted}, nil
}

func (o *orchestrator) system(name string) (systems.GameSystem, error) {
	if name == "" {
		name = o.defaultSystem
	}
	system, err := o.registry.Get(name)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "unknown game system").
			WithMeta("system", name)
	}
	return system, nil
}

// characterAndSystem loads the character and picks the system: the explicit
// override, then the character's own, then the default
func (o *orchestrator) characterAndSystem(
	ctx context.Context,
	characterID, systemName string,
) (*entities.Character, systems.GameSystem, error) {
	if characterID == "" {
		return nil, nil, errors.InvalidArgument("character ID is required")
	}

	getOutput, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: characterID})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get character")
	}
	character := getOutput.Character

	if systemName == "" {
		systemName = character.System
	}
	system, err := o.system(systemName)
	if err != nil {
		return nil, nil, err
	}

	return character, system, nil
}

type recordInput struct {
	entityID    string
	context     string
	system      string
	kind        string
	description string
	ttl         time.Duration
	results     []*dice.RollResult
}

// record appends the results to the entity's session, creating the session
// when there is none
func (o *orchestrator) record(ctx context.Context, input recordInput) (*RollOutput, error) {
	now := o.clock.Now()
	rolls := make([]rollsession.RollRecord, len(input.results))
	for i, result := range input.results {
		rolls[i] = rollsession.RollRecord{
			RollID:      o.idGen.Generate(),
			System:      input.system,
			Kind:        input.kind,
			Expression:  result.Expression,
			Outcomes:    result.Outcomes,
			Total:       result.Total,
			Modifier:    result.Modifier,
			Description: input.description,
			RolledAt:    now,
		}
	}

	rollCtx := contextOrDefault(input.context)
	getOutput, err := o.rollSessionRepo.Get(ctx, rollsession.GetInput{
		EntityID: input.entityID,
		Context:  rollCtx,
	})

	var session *rollsession.RollSession
	switch {
	case err == nil:
		session = getOutput.Session
		session.Rolls = append(session.Rolls, rolls...)
		err := o.rollSessionRepo.Update(ctx, session)
		switch {
		case errors.IsFailedPrecondition(err):
			// expired between the read and the write
			session, err = o.createSession(ctx, input, rollCtx, rolls)
			if err != nil {
				return nil, err
			}
		case err != nil:
			return nil, errors.Wrap(err, "failed to update roll session")
		}
	case errors.IsNotFound(err):
		session, err = o.createSession(ctx, input, rollCtx, rolls)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrap(err, "failed to check for existing session")
	}

	return &RollOutput{
		System:  input.system,
		Results: input.results,
		Rolls:   rolls,
		Session: session,
	}, nil
}

// publish emits a game event; delivery failures are logged, not returned
func (o *orchestrator) createSession(
	ctx context.Context,
	input recordInput,
	rollCtx string,
	rolls []rollsession.RollRecord,
) (*rollsession.RollSession, error) {
	ttl := input.ttl
	if ttl == 0 {
		ttl = o.sessionTTL
	}

	out, err := o.rollSessionRepo.Create(ctx, rollsession.CreateInput{
		EntityID: input.entityID,
		Context:  rollCtx,
		Rolls:    rolls,
		TTL:      ttl,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create roll session")
	}
	return out.Session, nil
}

func (o *orchestrator) publish(ctx context.Context, eventType string, source core.Entity, output *RollOutput) {
	if o.eventBus == nil {
		return
	}

	event := events.NewGameEvent(eventType, source, nil)
	if output != nil {
		event.Context().Set("system", output.System)
		event.Context().Set("results", output.Results)
		if output.Session != nil {
			event.Context().Set("context", output.Session.Context)
		}
	}

	if err := o.eventBus.Publish(ctx, event); err != nil {
		logger.WithError(slog.Default(), err).WarnContext(ctx, "Failed to publish event",
			"event", eventType,
			"source", source.GetID(),
		)
	}
}

func contextOrDefault(rollCtx string) string {
	if rollCtx == "" {
		return ContextDefault
	}
	return rollCtx
}

// entityRef identifies a roller that is not a stored character
type entityRef struct {
	id   string
	kind string
}

func (e entityRef) GetID() string   { return e.id }
func (e entityRef) GetType() string { return e.kind }
