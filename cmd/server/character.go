package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-roller/internal/entities"
	"github.com/KirkDiggler/rpg-roller/internal/errors"
	"github.com/KirkDiggler/rpg-roller/internal/pkg/idgen"
	characterrepo "github.com/KirkDiggler/rpg-roller/internal/repositories/character"
)

var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Manage stored characters",
}

var newCharacter struct {
	name       string
	nickname   string
	player     string
	campaign   string
	system     string
	level      int
	experience int
	hp         int
	stats      []string
	skills     []string
	attributes []string
	hidden     []string
	items      []string
}

var characterCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a character",
	Long: `Create a character in Redis. Examples:

  character create --name Vex --player p1 --campaign c1 --stat dex=14 --skill Stealth=4
  character create --name Vex --player p1 --campaign c1 --attr Race=Tiefling --hidden-attr Patron=Hollow --item rapier
  character create --name Harvey --player p2 --campaign c1 --system percentile --skill "Spot Hidden=40"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats, err := parseScores(newCharacter.stats)
		if err != nil {
			return err
		}
		skills, err := parseScores(newCharacter.skills)
		if err != nil {
			return err
		}
		shown, err := parseAttributes(newCharacter.attributes, true)
		if err != nil {
			return err
		}
		hidden, err := parseAttributes(newCharacter.hidden, false)
		if err != nil {
			return err
		}

		character := &entities.Character{
			ID:         idgen.NewUUID(idgen.PrefixCharacter).Generate(),
			Name:       newCharacter.name,
			Nickname:   newCharacter.nickname,
			PlayerID:   newCharacter.player,
			CampaignID: newCharacter.campaign,
			System:     newCharacter.system,
			Level:      newCharacter.level,
			Experience: newCharacter.experience,
			Alive:      true,
			Stats:      stats,
			Skills:     skills,
			Attributes: append(shown, hidden...),
			Inventory:  newCharacter.items,
		}
		if newCharacter.hp > 0 {
			character.HP = entities.HP{Current: newCharacter.hp, Max: newCharacter.hp}
		}

		return withServices(cmd.Context(), func(ctx context.Context, svcs *services) error {
			out, err := svcs.characterRepo.Create(ctx, characterrepo.CreateInput{Character: character})
			if err != nil {
				return err
			}
			fmt.Printf("Created %s (%s)\n", out.Character.Name, out.Character.ID)
			return nil
		})
	},
}

var findCampaign string

var characterFindCmd = &cobra.Command{
	Use:   "find [name]",
	Short: "Find characters by name or nickname",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, svcs *services) error {
			out, err := svcs.characterRepo.FindByName(ctx, characterrepo.FindByNameInput{
				Name:       args[0],
				CampaignID: findCampaign,
			})
			if err != nil {
				return err
			}
			if len(out.Characters) == 0 {
				fmt.Println("No characters found")
				return nil
			}
			for _, c := range out.Characters {
				fmt.Printf("%s\t%s\t%s\tlevel %d (%d xp)\n", c.ID, c.Name, c.System, c.Level, c.Experience)
				for _, attr := range c.DisplayedAttributes() {
					fmt.Printf("\t%s: %s\n", attr.Key, attr.Value)
				}
				if len(c.Inventory) > 0 {
					fmt.Printf("\tinventory: %s\n", strings.Join(c.Inventory, ", "))
				}
			}
			return nil
		})
	},
}

func init() {
	f := characterCreateCmd.Flags()
	f.StringVar(&newCharacter.name, "name", "", "Character name")
	f.StringVar(&newCharacter.nickname, "nickname", "", "Nickname")
	f.StringVar(&newCharacter.player, "player", "", "Owning player ID")
	f.StringVar(&newCharacter.campaign, "campaign", "", "Campaign ID")
	f.StringVar(&newCharacter.system, "system", "", "Rule system (defaults to the server default)")
	f.IntVar(&newCharacter.level, "level", 1, "Level")
	f.IntVar(&newCharacter.experience, "experience", 0, "Experience points")
	f.IntVar(&newCharacter.hp, "hp", 0, "Maximum hit points")
	f.StringArrayVar(&newCharacter.stats, "stat", nil, "Stat score as name=value (repeatable)")
	f.StringArrayVar(&newCharacter.skills, "skill", nil, "Skill score as name=value (repeatable)")
	f.StringArrayVar(&newCharacter.attributes, "attr", nil, "Displayed attribute as key=value (repeatable)")
	f.StringArrayVar(&newCharacter.hidden, "hidden-attr", nil, "Hidden attribute as key=value (repeatable)")
	f.StringArrayVar(&newCharacter.items, "item", nil, "Inventory item (repeatable)")

	characterFindCmd.Flags().StringVar(&findCampaign, "campaign", "", "Only search this campaign")

	characterCmd.AddCommand(characterCreateCmd)
	characterCmd.AddCommand(characterFindCmd)
}

// parseScores reads "name=value" pairs
func parseScores(pairs []string) (map[string]int, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	scores := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.InvalidArgumentf("score %q must look like name=value", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, errors.InvalidArgumentf("score %q has a non-numeric value", pair)
		}
		scores[name] = n
	}
	return scores, nil
}

// parseAttributes reads "key=value" pairs; the value may be empty
func parseAttributes(pairs []string, display bool) ([]entities.Attribute, error) {
	attrs := make([]entities.Attribute, 0, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.InvalidArgumentf("attribute %q must look like key=value", pair)
		}
		attrs = append(attrs, entities.Attribute{
			Key:     key,
			Value:   strings.TrimSpace(value),
			Display: display,
		})
	}
	return attrs, nil
}

// withServices builds the Redis-backed services for one command run
func withServices(ctx context.Context, fn func(context.Context, *services) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svcs, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svcs.close()

	return fn(ctx, svcs)
}
