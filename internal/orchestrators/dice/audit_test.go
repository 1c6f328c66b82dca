package dice_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-roller/internal/dice"
	"github.com/KirkDiggler/rpg-roller/internal/errors"
	orchestrator "github.com/KirkDiggler/rpg-roller/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-roller/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-roller/internal/pkg/idgen"
	charactermock "github.com/KirkDiggler/rpg-roller/internal/repositories/character/mock"
	rollsession "github.com/KirkDiggler/rpg-roller/internal/repositories/roll_session"
	rollsessionmock "github.com/KirkDiggler/rpg-roller/internal/repositories/roll_session/mock"
	"github.com/KirkDiggler/rpg-roller/internal/systems"
	"github.com/KirkDiggler/rpg-roller/internal/testutils"
)

func auditLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestSubscribeAudit_LogsPublishedEvents(t *testing.T) {
	var buf bytes.Buffer
	bus := events.NewBus()

	ids := orchestrator.SubscribeAudit(bus, slog.New(slog.NewJSONHandler(&buf, nil)))
	assert.Len(t, ids, len(orchestrator.AuditEvents))

	event := events.NewGameEvent(orchestrator.EventCharacterLevelUpOK, testutils.CreateTestCharacter("char_1", "Vex"), nil)
	event.Context().Set("system", systems.SystemDnD5e)
	require.NoError(t, bus.Publish(context.Background(), event))

	lines := auditLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "Roll event", lines[0]["msg"])
	assert.Equal(t, orchestrator.EventCharacterLevelUpOK, lines[0]["event"])
	assert.Equal(t, "char_1", lines[0]["entity_id"])
	assert.Equal(t, systems.SystemDnD5e, lines[0]["system"])
	assert.NotContains(t, lines[0], "totals")

	// Unrelated events are not logged
	require.NoError(t, bus.Publish(context.Background(), events.NewGameEvent("combat.started", nil, nil)))
	assert.Len(t, auditLines(t, &buf), 1)
}

func TestSubscribeAudit_RollThroughOrchestrator(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessionRepo := rollsessionmock.NewMockRepository(ctrl)
	fixed := clock.NewFixed(time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC))

	registry, err := systems.LoadRegistry(dice.NewEvaluator(&fixedRoller{value: 3}))
	require.NoError(t, err)

	var buf bytes.Buffer
	bus := events.NewBus()
	orchestrator.SubscribeAudit(bus, slog.New(slog.NewJSONHandler(&buf, nil)))

	service, err := orchestrator.NewOrchestrator(&orchestrator.Config{
		Registry:        registry,
		DefaultSystem:   systems.SystemDnD5e,
		CharacterRepo:   charactermock.NewMockRepository(ctrl),
		RollSessionRepo: sessionRepo,
		IDGenerator:     idgen.NewSequential(idgen.PrefixRoll),
		Clock:           fixed,
		EventBus:        bus,
	})
	require.NoError(t, err)

	sessionRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("roll session not found"))
	sessionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input rollsession.CreateInput) (*rollsession.CreateOutput, error) {
			return &rollsession.CreateOutput{Session: &rollsession.RollSession{
				EntityID:  input.EntityID,
				Context:   input.Context,
				Rolls:     input.Rolls,
				CreatedAt: fixed.Now(),
				ExpiresAt: fixed.Now().Add(input.TTL),
			}}, nil
		})

	_, err = service.Roll(context.Background(), &orchestrator.RollInput{
		EntityID: "player_1",
		Context:  "attack",
		Notation: "2d6+1, +3",
	})
	require.NoError(t, err)

	lines := auditLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, orchestrator.EventDiceRolled, lines[0]["event"])
	assert.Equal(t, "player_1", lines[0]["entity_id"])
	assert.Equal(t, "attack", lines[0]["context"])
	assert.Equal(t, []any{"2d6+1", "1d20+3"}, lines[0]["expressions"])
	assert.Equal(t, []any{float64(7), float64(6)}, lines[0]["totals"])
}
