package client

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	apiv1alpha1 "github.com/KirkDiggler/rpg-api-protos/gen/go/clients/api/v1alpha1"
)

var getRollSessionCmd = &cobra.Command{
	Use:   "get-roll-session [entity-id] [context]",
	Short: "Get an existing roll session",
	Long: `Retrieve all dice rolls for a specific entity and context. Examples:

  get-roll-session char-123
  get-roll-session char-456 combat`,
	Args: cobra.RangeArgs(1, 2),
	RunE: getRollSession,
}

var sessionJSON bool

func init() {
	getRollSessionCmd.Flags().BoolVar(&sessionJSON, "json", false, "Print the raw response as JSON")
}

func getRollSession(_ *cobra.Command, args []string) error {
	entityID := args[0]
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

	resp, err := client.GetRollSession(ctx, &apiv1alpha1.GetRollSessionRequest{
		EntityId: entityID,
		Context:  sessionContext,
	})
	if err != nil {
		return fmt.Errorf("failed to get roll session: %w", err)
	}

	if sessionJSON {
		out, err := protojson.MarshalOptions{Multiline: true}.Marshal(resp)
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Created: %s\n", time.Unix(resp.CreatedAt, 0).Format(time.DateTime))
	fmt.Printf("Expires: %s\n", time.Unix(resp.ExpiresAt, 0).Format(time.DateTime))
	fmt.Printf("Total Rolls: %d\n", len(resp.Rolls))

	for i, roll := range resp.Rolls {
		printRoll(i, roll)
	}

	return nil
}
