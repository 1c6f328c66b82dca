package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-roller/internal/dice"
	"github.com/KirkDiggler/rpg-roller/internal/systems"
)

var systemsVerbose bool

var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "List the available rule systems",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		registry, err := systems.LoadRegistry(dice.NewEvaluator(nil))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SYSTEM\tDEFAULT\tSKILLS")
		for _, name := range registry.Names() {
			system, err := registry.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%d\n", system.Name(), system.DefaultRollNotation(), len(system.Skills()))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if !systemsVerbose {
			return nil
		}
		for _, name := range registry.Names() {
			system, _ := registry.Get(name)
			s, ok := system.(*systems.System)
			if !ok || len(s.SkillNames()) == 0 {
				continue
			}
			fmt.Printf("\n%s skills: %s\n", name, strings.Join(s.SkillNames(), ", "))
		}
		return nil
	},
}

func init() {
	systemsCmd.Flags().BoolVarP(&systemsVerbose, "verbose", "v", false, "Also list each system's skills")
}
