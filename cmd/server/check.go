package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	dicesvc "github.com/KirkDiggler/rpg-roller/internal/orchestrators/dice"
)

var (
	checkSystem  string
	checkContext string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Roll checks for a stored character",
}

var skillCheckCmd = &cobra.Command{
	Use:   "skill [character-id] [skill]",
	Short: "Roll a skill check",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, svcs *services) error {
			out, err := svcs.dice.SkillCheck(ctx, &dicesvc.SkillCheckInput{
				CharacterID: args[0],
				Context:     checkContext,
				System:      checkSystem,
				Skill:       args[1],
			})
			if err != nil {
				return err
			}
			printRolls(out)
			return nil
		})
	},
}

var abilityCheckCmd = &cobra.Command{
	Use:   "ability [character-id] [stat]",
	Short: "Roll an ability check",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, svcs *services) error {
			out, err := svcs.dice.AbilityCheck(ctx, &dicesvc.AbilityCheckInput{
				CharacterID: args[0],
				Context:     checkContext,
				System:      checkSystem,
				Stat:        args[1],
			})
			if err != nil {
				return err
			}
			printRolls(out)
			return nil
		})
	},
}

var levelUpCheckCmd = &cobra.Command{
	Use:   "level-up [character-id]",
	Short: "Check whether a character has earned a level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, svcs *services) error {
			out, err := svcs.dice.CheckLevelUp(ctx, &dicesvc.CheckLevelUpInput{
				CharacterID: args[0],
				System:      checkSystem,
			})
			if err != nil {
				return err
			}
			if out.Ready {
				fmt.Printf("Level %d with %d xp: ready to level up (%s)\n", out.Level, out.Experience, out.System)
			} else {
				fmt.Printf("Level %d with %d xp: not yet (%s)\n", out.Level, out.Experience, out.System)
			}
			return nil
		})
	},
}

func init() {
	checkCmd.PersistentFlags().StringVar(&checkSystem, "system", "", "Override the character's rule system")
	checkCmd.PersistentFlags().StringVar(&checkContext, "context", "", "Roll session context")

	checkCmd.AddCommand(skillCheckCmd)
	checkCmd.AddCommand(abilityCheckCmd)
	checkCmd.AddCommand(levelUpCheckCmd)
}

func printRolls(out *dicesvc.RollOutput) {
	for i, result := range out.Results {
		fmt.Printf("%s  (%s, roll %s)\n", result, out.System, out.Rolls[i].RollID)
	}
}
