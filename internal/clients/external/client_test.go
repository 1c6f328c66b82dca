package external

import (
	"context"
	"errors"
	"testing"

	"github.com/fadedpez/dnd5e-api/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	rollerrors "github.com/KirkDiggler/rpg-roller/internal/errors"
)

// mockSkillAPI is a mock implementation of the dnd5e-api skill endpoints
type mockSkillAPI struct {
	mock.Mock
}

func (m *mockSkillAPI) ListSkills() ([]*entities.ReferenceItem, error) {
	args := m.Called()
	return args.Get(0).([]*entities.ReferenceItem), args.Error(1)
}

func (m *mockSkillAPI) GetSkill(key string) (*entities.Skill, error) {
	args := m.Called(key)
	return args.Get(0).(*entities.Skill), args.Error(1)
}

func TestListSkills(t *testing.T) {
	t.Run("successful skill listing", func(t *testing.T) {
		mockClient := new(mockSkillAPI)
		client := &client{dnd5eClient: mockClient}

		refs := []*entities.ReferenceItem{
			{Key: "stealth", Name: "Stealth"},
			{Key: "animal-handling", Name: "Animal Handling"},
		}

		mockClient.On("ListSkills").Return(refs, nil)
		mockClient.On("GetSkill", "stealth").Return(&entities.Skill{
			Key:          "stealth",
			Name:         "Stealth",
			AbilityScore: &entities.ReferenceItem{Key: "dex", Name: "DEX"},
		}, nil)
		mockClient.On("GetSkill", "animal-handling").Return(&entities.Skill{
			Key:          "animal-handling",
			Name:         "Animal Handling",
			AbilityScore: &entities.ReferenceItem{Key: "wis", Name: "WIS"},
		}, nil)

		result, err := client.ListSkills(context.Background())

		assert.NoError(t, err)
		assert.Len(t, result, 2)
		// sorted by name
		assert.Equal(t, "animal-handling", result[0].ID)
		assert.Equal(t, "Animal Handling", result[0].Name)
		assert.Equal(t, "wis", result[0].Ability)
		assert.Equal(t, "stealth", result[1].ID)
		assert.Equal(t, "dex", result[1].Ability)

		mockClient.AssertExpectations(t)
	})

	t.Run("skill listing API error", func(t *testing.T) {
		mockClient := new(mockSkillAPI)
		client := &client{dnd5eClient: mockClient}

		mockClient.On("ListSkills").Return(([]*entities.ReferenceItem)(nil), errors.New("API error"))

		result, err := client.ListSkills(context.Background())

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "failed to list skills from D&D 5e API")
		assert.Equal(t, rollerrors.CodeUnavailable, rollerrors.GetCode(err))

		mockClient.AssertExpectations(t)
	})

	t.Run("skill detail error fails the listing", func(t *testing.T) {
		mockClient := new(mockSkillAPI)
		client := &client{dnd5eClient: mockClient}

		mockClient.On("ListSkills").Return([]*entities.ReferenceItem{{Key: "arcana", Name: "Arcana"}}, nil)
		mockClient.On("GetSkill", "arcana").Return((*entities.Skill)(nil), errors.New("timeout"))

		result, err := client.ListSkills(context.Background())

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "arcana")

		mockClient.AssertExpectations(t)
	})
}

func TestGetSkillData(t *testing.T) {
	t.Run("converts display names to API keys", func(t *testing.T) {
		mockClient := new(mockSkillAPI)
		client := &client{dnd5eClient: mockClient}

		mockClient.On("GetSkill", "sleight-of-hand").Return(&entities.Skill{
			Key:          "sleight-of-hand",
			Name:         "Sleight of Hand",
			AbilityScore: &entities.ReferenceItem{Key: "dex"},
		}, nil)

		result, err := client.GetSkillData(context.Background(), "Sleight of Hand")

		assert.NoError(t, err)
		assert.Equal(t, "sleight-of-hand", result.ID)
		assert.Equal(t, "dex", result.Ability)

		mockClient.AssertExpectations(t)
	})

	t.Run("missing ability leaves it empty", func(t *testing.T) {
		mockClient := new(mockSkillAPI)
		client := &client{dnd5eClient: mockClient}

		mockClient.On("GetSkill", "luck").Return(&entities.Skill{Key: "luck", Name: "Luck"}, nil)

		result, err := client.GetSkillData(context.Background(), "luck")

		assert.NoError(t, err)
		assert.Empty(t, result.Ability)
	})

	t.Run("empty ID", func(t *testing.T) {
		client := &client{dnd5eClient: new(mockSkillAPI)}

		result, err := client.GetSkillData(context.Background(), "  ")

		assert.Nil(t, result)
		assert.True(t, rollerrors.IsInvalidArgument(err))
	})
}

func TestToAPIFormat(t *testing.T) {
	testCases := map[string]string{
		"Stealth":          "stealth",
		"Sleight of Hand":  "sleight-of-hand",
		"ANIMAL_HANDLING":  "animal-handling",
		" animal handling": "animal-handling",
	}

	for input, expected := range testCases {
		assert.Equal(t, expected, toAPIFormat(input), input)
	}
}

func TestConfigValidate_Defaults(t *testing.T) {
	cfg := &Config{}

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.NotZero(t, cfg.HTTPTimeout)
	assert.NotZero(t, cfg.CacheTTL)
}
