// Package character provides the interface for character persistence
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/KirkDiggler/rpg-roller/internal/repositories/character Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-roller/internal/entities"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Create creates a new character
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if character with same ID exists
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a character by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if character doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces an existing character
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if character doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete deletes a character by ID
	// Returns errors.NotFound if character doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByCampaign retrieves every character in a campaign
	ListByCampaign(ctx context.Context, input ListByCampaignInput) (*ListByCampaignOutput, error)

	// GetByCampaignAndPlayer retrieves a player's character in a campaign
	// Returns errors.NotFound if the player has none there
	GetByCampaignAndPlayer(ctx context.Context, input GetByCampaignAndPlayerInput) (*GetOutput, error)

	// FindByName matches name or nickname ignoring case, optionally within
	// one campaign
	FindByName(ctx context.Context, input FindByNameInput) (*FindByNameOutput, error)
}

// CreateInput defines the input for creating a character
type CreateInput struct {
	Character *entities.Character
}

// CreateOutput defines the output for creating a character
type CreateOutput struct {
	Character *entities.Character
}

// GetInput defines the input for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *entities.Character
}

// UpdateInput defines the input for updating a character
type UpdateInput struct {
	Character *entities.Character
}

// UpdateOutput defines the output for updating a character
type UpdateOutput struct {
	Character *entities.Character
}

// DeleteInput defines the input for deleting a character
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a character
type DeleteOutput struct{}

// ListByCampaignInput defines the input for listing a campaign's characters
type ListByCampaignInput struct {
	CampaignID string
}

// ListByCampaignOutput defines the output for listing a campaign's characters
type ListByCampaignOutput struct {
	Characters []*entities.Character
}

// GetByCampaignAndPlayerInput defines the input for a player's campaign character
type GetByCampaignAndPlayerInput struct {
	CampaignID string
	PlayerID   string
}

// FindByNameInput defines the input for a name search
type FindByNameInput struct {
	Name string

	// CampaignID narrows the search when set
	CampaignID string
}

// FindByNameOutput defines the output for a name search
type FindByNameOutput struct {
	Characters []*entities.Character
}
