package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-roller/internal/dice"
	"github.com/KirkDiggler/rpg-roller/internal/errors"
	"github.com/KirkDiggler/rpg-roller/internal/systems"
)

var (
	rollSystem  string
	rollExplain bool
)

var rollCmd = &cobra.Command{
	Use:   "roll [notation]",
	Short: "Roll dice locally",
	Long: `Evaluate dice notation without a server. Examples:

  roll "2d6+1d4-2"
  roll --system percentile
  roll --explain "d20-1, d20+1"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoll,
}

func init() {
	rollCmd.Flags().StringVar(&rollSystem, "system", systems.SystemDnD5e, "Rule system to roll under")
	rollCmd.Flags().BoolVar(&rollExplain, "explain", false, "Print the parsed terms of each expression")
}

func runRoll(_ *cobra.Command, args []string) error {
	evaluator := dice.NewEvaluator(nil)

	registry, err := systems.LoadRegistry(evaluator)
	if err != nil {
		return err
	}
	system, err := registry.Get(rollSystem)
	if err != nil {
		return err
	}

	var notation string
	if len(args) > 0 {
		notation = args[0]
	}

	if rollExplain {
		if err := explain(evaluator, notation, system.DefaultRollNotation()); err != nil {
			return err
		}
	}

	results, err := system.Roll(notation)
	if err != nil {
		if pe, ok := errors.AsParseError(err); ok {
			if expr, ok := errors.GetMeta(err)["expression"].(string); ok && expr != pe.Token {
				return fmt.Errorf("cannot roll %q in %q: %s", pe.Token, expr, pe.Reason)
			}
			return fmt.Errorf("cannot roll %q: %s", pe.Token, pe.Reason)
		}
		return err
	}

	for _, result := range results {
		fmt.Println(result)
		if rollExplain {
			fmt.Printf("  dice %d, modifiers %d\n", result.DiceTotal(), result.Modifier)
		}
	}
	return nil
}

func explain(evaluator *dice.Evaluator, notation, defaultNotation string) error {
	if strings.TrimSpace(notation) == "" {
		notation = defaultNotation
	}

	for _, sub := range strings.Split(notation, ",") {
		sub = strings.TrimSpace(sub)
		terms, err := evaluator.Parse(sub)
		if err != nil {
			return err
		}

		fmt.Printf("%s:\n", sub)
		for _, term := range terms {
			fmt.Printf("  %-8s %-8s range %d..%d\n", term, term.Kind, term.Min(), term.Max())
		}
	}
	return nil
}
