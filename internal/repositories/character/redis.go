package character

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-roller/internal/entities"
	"github.com/KirkDiggler/rpg-roller/internal/errors"
	"github.com/KirkDiggler/rpg-roller/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-roller/internal/redis"
)

const (
	characterKeyPrefix  = "character:"
	campaignIndexPrefix = "character:campaign:"
	playerIndexPrefix   = "character:player:"
	allIndexKey         = "character:all"

	// Error messages
	errCharacterNil     = "character cannot be nil"
	errCharacterIDEmpty = "character ID cannot be empty"
	errCampaignIDEmpty  = "campaign ID cannot be empty"
	errPlayerIDEmpty    = "player ID cannot be empty"
	errNameEmpty        = "name cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis character repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}
	if err := input.Character.Validate(); err != nil {
		return nil, err
	}

	key := characterKeyPrefix + input.Character.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("character with ID %s already exists", input.Character.ID)
	}

	character := *input.Character
	now := r.clock.Now()
	character.CreatedAt = now
	character.UpdatedAt = now

	data, err := json.Marshal(&character)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, allIndexKey, character.ID)
	pipe.SAdd(ctx, campaignIndexPrefix+character.CampaignID, character.ID)
	pipe.SAdd(ctx, playerIndexPrefix+character.PlayerID, character.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create character")
	}

	return &CreateOutput{Character: &character}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	result, err := r.client.Get(ctx, characterKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get character")
	}

	var character entities.Character
	if err := json.Unmarshal([]byte(result), &character); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character")
	}

	return &GetOutput{Character: &character}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}
	if err := input.Character.Validate(); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, GetInput{ID: input.Character.ID})
	if err != nil {
		return nil, err
	}

	character := *input.Character
	character.CreatedAt = existing.Character.CreatedAt
	character.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(&character)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, characterKeyPrefix+character.ID, data, 0)

	if old := existing.Character.CampaignID; old != character.CampaignID {
		pipe.SRem(ctx, campaignIndexPrefix+old, character.ID)
		pipe.SAdd(ctx, campaignIndexPrefix+character.CampaignID, character.ID)
	}
	if old := existing.Character.PlayerID; old != character.PlayerID {
		pipe.SRem(ctx, playerIndexPrefix+old, character.ID)
		pipe.SAdd(ctx, playerIndexPrefix+character.PlayerID, character.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to update character")
	}

	return &UpdateOutput{Character: &character}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	existing, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}
	character := existing.Character

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, characterKeyPrefix+input.ID)
	pipe.SRem(ctx, allIndexKey, input.ID)
	pipe.SRem(ctx, campaignIndexPrefix+character.CampaignID, input.ID)
	pipe.SRem(ctx, playerIndexPrefix+character.PlayerID, input.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListByCampaign(
	ctx context.Context,
	input ListByCampaignInput,
) (*ListByCampaignOutput, error) {
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}

	characters, err := r.listByIndex(ctx, campaignIndexPrefix+input.CampaignID)
	if err != nil {
		return nil, err
	}

	return &ListByCampaignOutput{Characters: characters}, nil
}

func (r *redisRepository) GetByCampaignAndPlayer(
	ctx context.Context,
	input GetByCampaignAndPlayerInput,
) (*GetOutput, error) {
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument(errCampaignIDEmpty)
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	ids, err := r.client.SInter(ctx,
		campaignIndexPrefix+input.CampaignID,
		playerIndexPrefix+input.PlayerID,
	).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to intersect character indexes")
	}
	sort.Strings(ids)

	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if errors.IsNotFound(err) {
			continue
		}
		return out, err
	}

	return nil, errors.NotFoundf("player %s has no character in campaign %s", input.PlayerID, input.CampaignID)
}

func (r *redisRepository) FindByName(ctx context.Context, input FindByNameInput) (*FindByNameOutput, error) {
	if input.Name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	indexKey := allIndexKey
	if input.CampaignID != "" {
		indexKey = campaignIndexPrefix + input.CampaignID
	}

	candidates, err := r.listByIndex(ctx, indexKey)
	if err != nil {
		return nil, err
	}

	var matches []*entities.Character
	for _, c := range candidates {
		if c.MatchesName(input.Name) {
			matches = append(matches, c)
		}
	}

	return &FindByNameOutput{Characters: matches}, nil
}

// listByIndex loads every character in a set index, sorted by ID, pruning
// IDs whose record is gone
func (r *redisRepository) listByIndex(ctx context.Context, indexKey string) ([]*entities.Character, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get characters from index %s", indexKey)
	}
	sort.Strings(ids)

	characters := make([]*entities.Character, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "character not found, cleaning up index",
					"character_id", id,
					"index_key", indexKey)
				if err := r.client.SRem(ctx, indexKey, id).Err(); err != nil {
					slog.WarnContext(ctx, "failed to clean up character index",
						"character_id", id,
						"index_key", indexKey,
						"error", err)
				}
				continue
			}
			return nil, errors.Wrapf(err, "failed to get character %s", id)
		}
		characters = append(characters, out.Character)
	}

	slog.DebugContext(ctx, "listed characters from index",
		"index_key", indexKey,
		"count", len(characters))

	return characters, nil
}
