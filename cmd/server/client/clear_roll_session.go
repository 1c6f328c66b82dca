package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiv1alpha1 "github.com/KirkDiggler/rpg-api-protos/gen/go/clients/api/v1alpha1"
)

var clearRollSessionCmd = &cobra.Command{
	Use:   "clear-roll-session [entity-id] [context]",
	Short: "Clear a roll session",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		var sessionContext string
		if len(args) > 1 {
			sessionContext = args[1]
		}

		client, cleanup, err := createDiceClient()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		resp, err := client.ClearRollSession(ctx, &apiv1alpha1.ClearRollSessionRequest{
			EntityId: args[0],
			Context:  sessionContext,
		})
		if err != nil {
			return fmt.Errorf("failed to clear roll session: %w", err)
		}

		fmt.Printf("%s (%d rolls)\n", resp.Message, resp.RollsCleared)
		return nil
	},
}
