package client

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apiv1alpha1 "github.com/KirkDiggler/rpg-api-protos/gen/go/clients/api/v1alpha1"
)

var (
	rollContext     string
	rollDescription string
)

var rollDiceCmd = &cobra.Command{
	Use:   "roll-dice [entity-id] [notation]",
	Short: "Roll dice on the server",
	Long: `Roll dice and see individual results. Examples:

  roll-dice char-123 "2d6+1d4-2"
  roll-dice char-456 "d20-1, d20+1" --context attack
  roll-dice char-789 --context initiative`,
	Args: cobra.RangeArgs(1, 2),
	RunE: rollDice,
}

func init() {
	rollDiceCmd.Flags().StringVar(&rollContext, "context", "", "Roll session context")
	rollDiceCmd.Flags().StringVar(&rollDescription, "description", "", "Description stored with each roll")
}

func rollDice(_ *cobra.Command, args []string) error {
	entityID := args[0]
	var notation string
	if len(args) > 1 {
		notation = args[1]
	}

	client, cleanup, err := createDiceClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fmt.Printf("Rolling %q for entity %s...\n", notation, entityID)

	resp, err := client.RollDice(ctx, &apiv1alpha1.RollDiceRequest{
		EntityId:            entityID,
		Context:             rollContext,
		Notation:            notation,
		ModifierDescription: rollDescription,
	})
	if err != nil {
		return fmt.Errorf("failed to roll dice: %w", err)
	}

	for i, roll := range resp.Rolls {
		printRoll(i, roll)
	}

	fmt.Printf("\nSession expires at: %s\n", time.Unix(resp.ExpiresAt, 0).Format(time.DateTime))
	return nil
}
