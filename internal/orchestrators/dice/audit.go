package dice

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-roller/internal/dice"
)

// AuditPriority runs the audit log after any other subscriber
const AuditPriority = 100

// AuditEvents are the event types SubscribeAudit logs
var AuditEvents = []string{
	EventDiceRolled,
	EventSkillCheck,
	EventAbilityCheck,
	EventCharacterLevelUpOK,
}

// SubscribeAudit writes one log line to l for every roll event published on
// bus and returns the subscription ids.
func SubscribeAudit(bus events.EventBus, l *slog.Logger) []string {
	ids := make([]string, 0, len(AuditEvents))
	for _, eventType := range AuditEvents {
		ids = append(ids, bus.SubscribeFunc(eventType, AuditPriority, auditHandler(l)))
	}
	return ids
}

func auditHandler(l *slog.Logger) events.HandlerFunc {
	return func(ctx context.Context, event events.Event) error {
		attrs := []any{"event", event.Type()}
		if source := event.Source(); source != nil {
			attrs = append(attrs, "entity_id", source.GetID(), "entity_type", source.GetType())
		}

		for _, key := range []string{"system", "context"} {
			if v, ok := event.Context().Get(key); ok {
				attrs = append(attrs, key, v)
			}
		}

		if v, ok := event.Context().Get("results"); ok {
			if results, ok := v.([]*dice.RollResult); ok {
				expressions := make([]string, len(results))
				totals := make([]int, len(results))
				for i, result := range results {
					expressions[i] = result.Expression
					totals[i] = result.Total
				}
				attrs = append(attrs, "expressions", expressions, "totals", totals)
			}
		}

		l.InfoContext(ctx, "Roll event", attrs...)
		return nil
	}
}
