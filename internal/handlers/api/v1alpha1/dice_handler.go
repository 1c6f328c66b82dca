// Package v1alpha1 handles the generic API grpc service interface
package v1alpha1

import (
	"context"
	"math"

	apiv1alpha1 "github.com/KirkDiggler/rpg-api-protos/gen/go/clients/api/v1alpha1"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
	"github.com/KirkDiggler/rpg-roller/internal/orchestrators/dice"
	rollsession "github.com/KirkDiggler/rpg-roller/internal/repositories/roll_session"
)

// DiceHandlerConfig holds dependencies for the dice handler
type DiceHandlerConfig struct {
	DiceService dice.Service
}

// Validate ensures all required dependencies are present
func (c *DiceHandlerConfig) Validate() error {
	if c.DiceService == nil {
		return errors.InvalidArgument("dice service is required")
	}
	return nil
}

// DiceHandler implements the generic dice gRPC service
type DiceHandler struct {
	apiv1alpha1.UnimplementedDiceServiceServer
	diceService dice.Service
}

// NewDiceHandler creates a new dice handler with the given configuration
func NewDiceHandler(cfg *DiceHandlerConfig) (*DiceHandler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &DiceHandler{
		diceService: cfg.DiceService,
	}, nil
}

// RollDice rolls the requested notation and returns one roll per
// comma-separated expression. An empty notation rolls the default die.
func (h *DiceHandler) RollDice(
	ctx context.Context,
	req *apiv1alpha1.RollDiceRequest,
) (*apiv1alpha1.RollDiceResponse, error) {
	if req.EntityId == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("entity_id is required"))
	}

	output, err := h.diceService.Roll(ctx, &dice.RollInput{
		EntityID:    req.EntityId,
		Context:     req.Context,
		Notation:    req.Notation,
		Description: req.ModifierDescription,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	rolls, err := convertRolls(output.Rolls)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &apiv1alpha1.RollDiceResponse{
		Rolls:     rolls,
		ExpiresAt: output.Session.ExpiresAt.Unix(),
	}, nil
}

// GetRollSession retrieves every roll stored in a session
func (h *DiceHandler) GetRollSession(
	ctx context.Context,
	req *apiv1alpha1.GetRollSessionRequest,
) (*apiv1alpha1.GetRollSessionResponse, error) {
	if req.EntityId == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("entity_id is required"))
	}

	output, err := h.diceService.GetRollSession(ctx, &dice.GetRollSessionInput{
		EntityID: req.EntityId,
		Context:  req.Context,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	rolls, err := convertRolls(output.Session.Rolls)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &apiv1alpha1.GetRollSessionResponse{
		Rolls:     rolls,
		ExpiresAt: output.Session.ExpiresAt.Unix(),
		CreatedAt: output.Session.CreatedAt.Unix(),
	}, nil
}

// ClearRollSession removes a roll session
func (h *DiceHandler) ClearRollSession(
	ctx context.Context,
	req *apiv1alpha1.ClearRollSessionRequest,
) (*apiv1alpha1.ClearRollSessionResponse, error) {
	if req.EntityId == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("entity_id is required"))
	}

	output, err := h.diceService.ClearRollSession(ctx, &dice.ClearRollSessionInput{
		EntityID: req.EntityId,
		Context:  req.Context,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &apiv1alpha1.ClearRollSessionResponse{
		Message:      "Roll session cleared successfully",
		RollsCleared: int32(output.RollsDeleted),
	}, nil
}

func convertRolls(records []rollsession.RollRecord) ([]*apiv1alpha1.DiceRoll, error) {
	rolls := make([]*apiv1alpha1.DiceRoll, 0, len(records))
	for _, record := range records {
		roll, err := convertRoll(record)
		if err != nil {
			return nil, err
		}
		rolls = append(rolls, roll)
	}
	return rolls, nil
}

// convertRoll maps a stored roll onto the wire type. Dice carries every
// outcome, modifiers included, so Total is always the sum of Dice.
func convertRoll(record rollsession.RollRecord) (*apiv1alpha1.DiceRoll, error) {
	outcomes := make([]int32, len(record.Outcomes))
	for i, o := range record.Outcomes {
		v, err := toInt32(record, "outcome", o)
		if err != nil {
			return nil, err
		}
		outcomes[i] = v
	}

	total, err := toInt32(record, "total", record.Total)
	if err != nil {
		return nil, err
	}
	diceTotal, err := toInt32(record, "dice_total", record.DiceTotal())
	if err != nil {
		return nil, err
	}
	modifier, err := toInt32(record, "modifier", record.Modifier)
	if err != nil {
		return nil, err
	}

	return &apiv1alpha1.DiceRoll{
		RollId:      record.RollID,
		Notation:    record.Expression,
		Dice:        outcomes,
		Total:       total,
		Description: record.Description,
		DiceTotal:   diceTotal,
		Modifier:    modifier,
	}, nil
}

func toInt32(record rollsession.RollRecord, field string, v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, errors.New(errors.CodeOutOfRange, field+" does not fit in 32 bits").
			WithMeta("roll_id", record.RollID).
			WithMeta("field", field)
	}
	return int32(v), nil
}
