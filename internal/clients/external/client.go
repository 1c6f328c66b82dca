// Package external is the location for the dnd5e-api client
package external

//go:generate mockgen -destination=mock/mock_client.go -package=externalmock github.com/KirkDiggler/rpg-roller/internal/clients/external Client

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

// DefaultBaseURL is the public D&D 5e SRD API
const DefaultBaseURL = "https://www.dnd5eapi.co/api/2014/"

// Client defines the interface for external API interactions
type Client interface {
	// ListSkills returns every SRD skill with its governing ability
	ListSkills(ctx context.Context) ([]*SkillData, error)

	// GetSkillData fetches one skill by its API key, e.g. "sleight-of-hand"
	GetSkillData(ctx context.Context, skillID string) (*SkillData, error)
}

// skillAPI is the part of the dnd5e-api client this package uses
type skillAPI interface {
	ListSkills() ([]*entities.ReferenceItem, error)
	GetSkill(key string) (*entities.Skill, error)
}

type client struct {
	dnd5eClient skillAPI
}

// Config contains configuration options for the external client.
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to DefaultBaseURL)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	vb := errors.NewValidationBuilder()
	if cfg.HTTPTimeout < 0 {
		vb.InvalidField("HTTPTimeout", "must not be negative")
	}
	if cfg.CacheTTL < 0 {
		vb.InvalidField("CacheTTL", "must not be negative")
	}
	return vb.Build()
}

// New creates a new external client with the given configuration.
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  httpClient,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create D&D 5e API client")
	}

	// Skills never change between SRD releases, so the cache does the heavy lifting
	return &client{
		dnd5eClient: dnd5e.NewCachedClient(baseClient, cfg.CacheTTL),
	}, nil
}

func (c *client) ListSkills(ctx context.Context) ([]*SkillData, error) {
	slog.InfoContext(ctx, "Calling D&D 5e API to list skills")
	refs, err := c.dnd5eClient.ListSkills()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list skills from D&D 5e API")
	}

	skills := make([]*SkillData, len(refs))
	errChan := make(chan error, len(refs))
	var wg sync.WaitGroup

	for i, ref := range refs {
		if ref == nil {
			continue
		}
		wg.Add(1)
		go func(idx int, key string) {
			defer wg.Done()

			skill, err := c.dnd5eClient.GetSkill(key)
			if err != nil {
				slog.Error("Failed to get skill details", "skill", key, "error", err)
				errChan <- errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get skill "+key)
				return
			}
			skills[idx] = convertSkill(skill)
		}(i, ref.Key)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	out := make([]*SkillData, 0, len(skills))
	for _, skill := range skills {
		if skill != nil {
			out = append(out, skill)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	slog.InfoContext(ctx, "Loaded skills", "count", len(out))
	return out, nil
}

func (c *client) GetSkillData(_ context.Context, skillID string) (*SkillData, error) {
	if strings.TrimSpace(skillID) == "" {
		return nil, errors.InvalidArgument("skill ID is required")
	}

	skill, err := c.dnd5eClient.GetSkill(toAPIFormat(skillID))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get skill").
			WithMeta("skill_id", skillID)
	}
	if skill == nil {
		return nil, errors.NotFoundf("skill %s not found", skillID)
	}

	return convertSkill(skill), nil
}

// toAPIFormat converts a display name or constant to the API key format,
// e.g. "Sleight of Hand" -> "sleight-of-hand"
func toAPIFormat(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.ReplaceAll(id, "_", "-")
	return strings.Join(strings.Fields(id), "-")
}

func convertSkill(skill *entities.Skill) *SkillData {
	if skill == nil {
		return nil
	}

	data := &SkillData{
		ID:   skill.Key,
		Name: skill.Name,
	}
	if skill.AbilityScore != nil {
		data.Ability = skill.AbilityScore.Key
	}
	return data
}
